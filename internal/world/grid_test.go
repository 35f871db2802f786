package world

import "testing"

func TestGridIndexLayout(t *testing.T) {
	g := NewGrid(4, 3, 5)

	// X fastest, then Z, then Y.
	if i := g.Index(1, 0, 0); i != 1 {
		t.Errorf("Index(1,0,0) = %d, want 1", i)
	}
	if i := g.Index(0, 0, 1); i != 4 {
		t.Errorf("Index(0,0,1) = %d, want 4", i)
	}
	if i := g.Index(0, 1, 0); i != 20 {
		t.Errorf("Index(0,1,0) = %d, want 20", i)
	}
	if g.Len() != 60 {
		t.Errorf("Len() = %d, want 60", g.Len())
	}
}

func TestGridCoordsRoundTrip(t *testing.T) {
	g := NewGrid(3, 4, 5)
	for i := 0; i < g.Len(); i++ {
		x, y, z := g.Coords(i)
		if !g.InBounds(x, y, z) {
			t.Fatalf("Coords(%d) = (%d,%d,%d) out of bounds", i, x, y, z)
		}
		if back := g.Index(x, y, z); back != i {
			t.Fatalf("Index(Coords(%d)) = %d", i, back)
		}
	}
}

func TestGridOutOfRangePanics(t *testing.T) {
	g := NewGrid(2, 2, 2)
	cases := [][3]int{{-1, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {0, -1, 1}}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Set(%d,%d,%d) did not panic", c[0], c[1], c[2])
				}
			}()
			g.Set(c[0], c[1], c[2], VoxelStone)
		}()
	}
	if g.Solid() != 0 {
		t.Errorf("rejected writes modified the grid: %d solid cells", g.Solid())
	}
}

func TestNewGridRejectsBadDimensions(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewGrid(0,1,1) did not panic")
		}
	}()
	NewGrid(0, 1, 1)
}

func TestGridCopyAndClear(t *testing.T) {
	a := NewGrid(2, 2, 2)
	b := NewGrid(2, 2, 2)
	a.Set(1, 1, 1, VoxelDirt)
	a.FillLayer(0, VoxelBedrock)

	b.CopyFrom(a)
	if b.At(1, 1, 1) != VoxelDirt || b.At(0, 0, 1) != VoxelBedrock {
		t.Fatalf("CopyFrom did not copy contents")
	}
	if b.Solid() != 5 {
		t.Errorf("Solid() = %d, want 5", b.Solid())
	}

	b.Clear()
	if b.Solid() != 0 {
		t.Errorf("Clear left %d solid cells", b.Solid())
	}
	if a.Solid() != 5 {
		t.Errorf("Clear on the copy changed the source")
	}
}

func TestParseVoxel(t *testing.T) {
	for v := VoxelAir; v < voxelCount; v++ {
		got, err := ParseVoxel(v.String())
		if err != nil || got != v {
			t.Errorf("ParseVoxel(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseVoxel("lava"); err == nil {
		t.Error("ParseVoxel(lava) should fail")
	}
}

func BenchmarkGridIndex(b *testing.B) {
	g := NewGrid(16, 64, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Index(i%16, (i/16)%64, (i/1024)%16)
	}
}
