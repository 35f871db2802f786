package terrain

import (
	"testing"

	"voxstream/internal/world"
)

func TestWindowRadiusOne(t *testing.T) {
	w := Window{Radius: 1, Bias: -0.05}
	got := w.Coords(world.GridCoord{})
	want := map[world.GridCoord]bool{
		{X: -1, Z: -1}: true, {X: 0, Z: -1}: true,
		{X: -1, Z: 0}: true, {X: 0, Z: 0}: true,
	}
	if len(got) != len(want) {
		t.Fatalf("coords = %v", got)
	}
	for _, c := range got {
		if !want[c] {
			t.Errorf("unexpected coord %v", c)
		}
	}
}

func TestWindowSizes(t *testing.T) {
	tests := []struct {
		w    Window
		size int
	}{
		{Window{Radius: 2, Bias: -0.05}, 12},
		{Window{Radius: 2, Bias: -0.05, Shape: ShapeSquare}, 16},
		{Window{Radius: 1, Bias: 0, Shape: ShapeSquare}, 4},
		{Window{Radius: 0.5, Bias: -0.05}, 0},
	}
	for _, tt := range tests {
		if got := tt.w.Size(); got != tt.size {
			t.Errorf("%v radius %.2f: size %d, want %d", tt.w.Shape, tt.w.Radius, got, tt.size)
		}
	}
}

func TestWindowTranslationInvariant(t *testing.T) {
	views := []world.GridCoord{{}, {X: 7, Z: -3}, {X: -100, Z: 250}}
	for _, shape := range []Shape{ShapeDisk, ShapeSquare} {
		for _, r := range []float64{1, 2.5, 4, 7} {
			w := Window{Radius: r, Bias: -0.05, Shape: shape}
			base := w.Coords(world.GridCoord{})
			for _, v := range views {
				got := w.Coords(v)
				if len(got) != len(base) {
					t.Fatalf("%v r=%v: %d coords at %v, want %d", shape, r, len(got), v, len(base))
				}
				for i := range got {
					if got[i] != base[i].Add(v.X, v.Z) {
						t.Fatalf("%v r=%v: coord %d = %v, want %v", shape, r, i, got[i], base[i].Add(v.X, v.Z))
					}
				}
			}
		}
	}
}

func TestWindowCoordsNearestFirst(t *testing.T) {
	w := Window{Radius: 5, Bias: -0.05}
	view := world.GridCoord{X: 3, Z: 3}
	coords := w.Coords(view)
	seen := make(map[world.GridCoord]bool)
	for i, c := range coords {
		if seen[c] {
			t.Fatalf("duplicate %v", c)
		}
		seen[c] = true
		if !w.Contains(c, view) {
			t.Errorf("%v listed but not contained", c)
		}
		if i > 0 && w.centerDist2(c, view) < w.centerDist2(coords[i-1], view) {
			t.Errorf("coord %d is nearer than its predecessor", i)
		}
	}
	for dz := -8; dz <= 8; dz++ {
		for dx := -8; dx <= 8; dx++ {
			c := view.Add(dx, dz)
			if w.Contains(c, view) && !seen[c] {
				t.Errorf("%v contained but not listed", c)
			}
		}
	}
}

func TestParseShape(t *testing.T) {
	if s, err := ParseShape("Square"); err != nil || s != ShapeSquare {
		t.Errorf("ParseShape(Square) = %v, %v", s, err)
	}
	if s, err := ParseShape(""); err != nil || s != ShapeDisk {
		t.Errorf("ParseShape(\"\") = %v, %v", s, err)
	}
	if _, err := ParseShape("hex"); err == nil {
		t.Error("ParseShape(hex) succeeded")
	}
}
