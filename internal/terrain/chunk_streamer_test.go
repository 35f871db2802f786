package terrain

import (
	"math/rand"
	"testing"
	"time"

	"voxstream/internal/physics"
	"voxstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// viewAt returns a world position inside chunk (x, z) for 4-wide chunks.
func viewAt(x, z int) mgl32.Vec3 {
	return mgl32.Vec3{float32(x * 4), 10, float32(z * 4)}
}

func newStreamer(t *testing.T, supplier world.Supplier, opts Options) *ChunkStreamer {
	t.Helper()
	s, err := NewChunkStreamer(NewShared(4, 8, 4, supplier), opts)
	if err != nil {
		t.Fatalf("NewChunkStreamer: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// pacedSupplier advances clock by one millisecond per generated chunk.
func pacedSupplier(clock *fakeClock) world.Supplier {
	flat := world.NewFlatGenerator(testLayers...)
	return world.SupplierFunc(func(g *world.Grid, c world.GridCoord) {
		clock.Advance(time.Millisecond)
		flat.FillVoxels(g, c)
	})
}

func coordsOf(s *ChunkStreamer) map[world.GridCoord]*Chunk {
	out := make(map[world.GridCoord]*Chunk)
	for _, ch := range s.Chunks() {
		out[ch.Coord()] = ch
	}
	return out
}

func assertCovers(t *testing.T, s *ChunkStreamer, view world.GridCoord) {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := s.Window().Coords(view)
	if len(s.Chunks()) != len(want) {
		t.Fatalf("%d live chunks, want %d", len(s.Chunks()), len(want))
	}
	for _, c := range want {
		ch := s.Chunk(c)
		if ch == nil {
			t.Fatalf("no chunk at %v", c)
		}
		if ch.State() != StateMeshed {
			t.Errorf("chunk at %v is %v", c, ch.State())
		}
	}
}

func TestStreamerPopulates(t *testing.T) {
	s := newStreamer(t, world.NewFlatGenerator(testLayers...), Options{
		Window: Window{Radius: 3, Bias: -0.05},
	})
	if len(s.Chunks()) != 0 {
		t.Fatal("chunks exist before the first tick")
	}
	s.Tick(viewAt(0, 0))
	if s.Busy() {
		t.Fatal("unlimited budget left work pending")
	}
	assertCovers(t, s, world.GridCoord{})
	if st := s.Stats(); st.Allocated != s.Capacity() || st.Generated != s.Capacity() || st.Relocated != 0 {
		t.Errorf("stats = %+v", st)
	}

	// Same view coordinate again: nothing to do.
	s.Tick(viewAt(0, 0).Add(mgl32.Vec3{1, 0, 1}))
	if st := s.Stats(); st.Generated != s.Capacity() {
		t.Errorf("idle tick generated chunks: %+v", st)
	}
}

func TestStreamerMoveByOneChunk(t *testing.T) {
	supplier := world.NewCountingSupplier(world.NewFlatGenerator(testLayers...))
	s := newStreamer(t, supplier, Options{Window: Window{Radius: 1, Bias: -0.05}})

	s.Tick(viewAt(0, 0))
	before := coordsOf(s)
	versions := make(map[*Chunk]uint64)
	for _, ch := range s.Chunks() {
		versions[ch] = ch.Version()
	}
	calls := supplier.Calls()

	s.Tick(viewAt(1, 0))
	assertCovers(t, s, world.GridCoord{X: 1})
	after := coordsOf(s)

	w := s.Window()
	var outgoing, incoming int
	for c, ch := range before {
		if w.Contains(c, world.GridCoord{X: 1}) {
			if after[c] != ch {
				t.Errorf("chunk at %v was moved though it stayed in the window", c)
			}
			if ch.Version() != versions[ch] {
				t.Errorf("chunk at %v was rebuilt though it stayed in the window", c)
			}
			continue
		}
		outgoing++
		if w.Contains(ch.Coord(), world.GridCoord{X: 1}) && before[ch.Coord()] == nil {
			continue
		}
		t.Errorf("chunk from %v ended at %v", c, ch.Coord())
	}
	for c := range after {
		if before[c] == nil {
			incoming++
		}
	}
	if outgoing != 2 || incoming != 2 {
		t.Errorf("outgoing %d incoming %d, want 2 and 2", outgoing, incoming)
	}
	if got := supplier.Calls() - calls; got != int64(incoming) {
		t.Errorf("supplier called %d times, want %d", got, incoming)
	}
	if len(after) != len(before) {
		t.Errorf("live chunks %d -> %d", len(before), len(after))
	}
}

func TestStreamerReusesCachedGrids(t *testing.T) {
	supplier := world.NewCountingSupplier(world.NewFlatGenerator(testLayers...))
	s := newStreamer(t, supplier, Options{
		Window:        Window{Radius: 1, Bias: -0.05},
		CacheCapacity: 16,
	})

	s.Tick(viewAt(0, 0))
	s.Tick(viewAt(1, 0))
	calls := supplier.Calls()

	s.Tick(viewAt(0, 0))
	assertCovers(t, s, world.GridCoord{})
	if supplier.Calls() != calls {
		t.Errorf("supplier re-invoked %d times for cached coordinates", supplier.Calls()-calls)
	}
	if st := s.Stats(); st.Restored != 2 {
		t.Errorf("restored = %d, want 2", st.Restored)
	}
	// Only the vacated column is cached; restored coordinates are live.
	if s.Cache().Len() != 2 {
		t.Errorf("cache holds %d grids, want 2", s.Cache().Len())
	}
	for _, ch := range s.Chunks() {
		if s.Cache().Has(ch.Coord()) {
			t.Errorf("live coordinate %v still cached", ch.Coord())
		}
	}
}

func TestStreamerEditsSurviveRelocation(t *testing.T) {
	for _, compress := range []bool{false, true} {
		s := newStreamer(t, world.NewFlatGenerator(testLayers...), Options{
			Window:        Window{Radius: 1, Bias: -0.05},
			CacheCapacity: 8,
			CompressCache: compress,
		})
		s.Tick(viewAt(0, 0))

		pos := mgl32.Vec3{-3, 5, 1} // chunk (-1,0), local (1,5,1)
		ch := s.ChunkAt(pos)
		if ch == nil || ch.Coord() != (world.GridCoord{X: -1}) {
			t.Fatalf("ChunkAt(%v) = %v", pos, ch)
		}
		v := ch.Version()
		if !s.EditAt(pos, world.VoxelStone) {
			t.Fatal("edit rejected")
		}
		if ch.Version() != v+1 {
			t.Error("edit did not rebuild the chunk")
		}
		if got, _ := s.VoxelAt(pos); got != world.VoxelStone {
			t.Fatalf("voxel = %v after edit", got)
		}
		if s.EditAt(mgl32.Vec3{-3, 0, 1}, world.VoxelAir) {
			t.Error("bedrock edit accepted")
		}

		s.Tick(viewAt(2, 0))
		if _, ok := s.VoxelAt(pos); ok {
			t.Fatal("edited chunk still live after moving away")
		}
		s.Tick(viewAt(0, 0))
		if got, ok := s.VoxelAt(pos); !ok || got != world.VoxelStone {
			t.Errorf("compress=%v: voxel = %v, %v after returning", compress, got, ok)
		}
	}
}

func TestStreamerRespectsBudget(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newStreamer(t, pacedSupplier(clock), Options{
		Window:     Window{Radius: 2, Bias: -0.05},
		TickBudget: 3 * time.Millisecond,
		Clock:      clock.Now,
	})
	if s.Capacity() != 12 {
		t.Fatalf("capacity = %d", s.Capacity())
	}

	ticks := 0
	for {
		s.Tick(viewAt(0, 0))
		ticks++
		if err := s.Validate(); err != nil {
			t.Fatalf("tick %d: %v", ticks, err)
		}
		if !s.Busy() {
			break
		}
		if got := len(s.Chunks()); got != 3*ticks {
			t.Fatalf("tick %d: %d chunks, want %d", ticks, got, 3*ticks)
		}
		if ticks > 10 {
			t.Fatal("population never finished")
		}
	}
	if ticks != 4 {
		t.Errorf("population took %d ticks, want 4", ticks)
	}
	assertCovers(t, s, world.GridCoord{})
}

func TestStreamerAlwaysMakesProgress(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newStreamer(t, pacedSupplier(clock), Options{
		Window:     Window{Radius: 2, Bias: -0.05},
		TickBudget: time.Nanosecond,
		Clock:      clock.Now,
	})
	for i := 1; i <= s.Capacity(); i++ {
		s.Tick(viewAt(0, 0))
		if len(s.Chunks()) != i {
			t.Fatalf("tick %d: %d chunks", i, len(s.Chunks()))
		}
	}
	if s.Busy() {
		t.Error("work left after one chunk per tick")
	}
}

func TestStreamerCancelsOnMove(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := newStreamer(t, pacedSupplier(clock), Options{
		Window:     Window{Radius: 2, Bias: -0.05},
		TickBudget: time.Nanosecond,
		Clock:      clock.Now,
	})
	s.Tick(viewAt(0, 0))
	s.Tick(viewAt(0, 0))
	if !s.Busy() || len(s.Chunks()) != 2 {
		t.Fatalf("busy %v with %d chunks", s.Busy(), len(s.Chunks()))
	}

	far := world.GridCoord{X: 100, Z: -40}
	s.Tick(viewAt(far.X, far.Z))
	if s.Stats().Cancelled != 1 {
		t.Errorf("cancelled = %d", s.Stats().Cancelled)
	}
	for i := 0; s.Busy(); i++ {
		if err := s.Validate(); err != nil {
			t.Fatal(err)
		}
		if i > s.Capacity() {
			t.Fatal("streamer never settled")
		}
		s.Tick(viewAt(far.X, far.Z))
	}
	assertCovers(t, s, far)
	if st := s.Stats(); st.Allocated != s.Capacity() || st.Relocated != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestStreamerRandomWalk(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	for _, shape := range []Shape{ShapeDisk, ShapeSquare} {
		s := newStreamer(t, pacedSupplier(clock), Options{
			Window:        Window{Radius: 3, Bias: -0.05, Shape: shape},
			TickBudget:    2 * time.Millisecond,
			CacheCapacity: 32,
			Clock:         clock.Now,
		})
		r := rand.New(rand.NewSource(42))
		view := world.GridCoord{}
		for i := 0; i < 400; i++ {
			switch r.Intn(6) {
			case 0:
				view = view.Add(1, 0)
			case 1:
				view = view.Add(-1, 0)
			case 2:
				view = view.Add(0, 1)
			case 3:
				view = view.Add(0, -1)
			}
			s.Tick(viewAt(view.X, view.Z))
			if err := s.Validate(); err != nil {
				t.Fatalf("%v step %d: %v", shape, i, err)
			}
			if len(s.Chunks()) > s.Capacity() {
				t.Fatalf("%v step %d: %d chunks over capacity", shape, i, len(s.Chunks()))
			}
		}
		for s.Busy() {
			s.Tick(viewAt(view.X, view.Z))
		}
		assertCovers(t, s, view)
	}
}

func TestStreamerPoolsServePhysics(t *testing.T) {
	s := newStreamer(t, world.NewFlatGenerator(testLayers...), Options{
		Window: Window{Radius: 2, Bias: -0.05},
	})
	s.Tick(viewAt(0, 0))
	if len(s.Pools()) != len(s.Chunks()) {
		t.Fatalf("%d pools for %d chunks", len(s.Pools()), len(s.Chunks()))
	}

	// Four layers fill y=0..3; voxels are centred on integers.
	ground, ok := physics.GroundLevel(-2, 1, 20, s.Pools())
	if !ok || ground != 3.5 {
		t.Errorf("ground = %v, %v; want 3.5", ground, ok)
	}
	if !physics.Collides(mgl32.Vec3{-2, 3, 1}, 0.3, 1.8, s.Pools()) {
		t.Error("body inside the terrain did not collide")
	}
	if physics.Collides(mgl32.Vec3{-2, 3.6, 1}, 0.3, 1.8, s.Pools()) {
		t.Error("body above the terrain collided")
	}
}

func TestNewChunkStreamerRejectsEmptyWindow(t *testing.T) {
	_, err := NewChunkStreamer(NewShared(4, 8, 4, world.NewFlatGenerator()), Options{
		Window: Window{Radius: 0.5, Bias: -0.05},
	})
	if err == nil {
		t.Error("empty window accepted")
	}
	if _, err := NewChunkStreamer(NewShared(4, 8, 4, nil), Options{Window: Window{Radius: 2}}); err == nil {
		t.Error("nil supplier accepted")
	}
}
