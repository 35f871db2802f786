package terrain

import (
	"fmt"
	"log"
	"time"

	"voxstream/internal/physics"
	"voxstream/internal/profiling"
	"voxstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Options configures a ChunkStreamer.
type Options struct {
	Window Window
	// TickBudget bounds the work done by one Tick. At least one chunk is
	// processed per tick regardless; zero or negative means unlimited.
	TickBudget    time.Duration
	CacheCapacity int
	CompressCache bool
	// Clock overrides time.Now for budget accounting.
	Clock func() time.Time
}

// Stats counts the streamer's work since creation.
type Stats struct {
	Ticks     int
	Allocated int // chunks created during population
	Relocated int // chunks moved to a new coordinate
	Generated int // grids filled by the supplier
	Restored  int // grids restored from the cache
	Cancelled int // reconcile tasks superseded before finishing
}

// ChunkStreamer keeps a fixed set of chunks covering the window around a
// moving viewpoint. Chunks that fall out of the window are recycled onto
// coordinates that entered it, spread over ticks so each tick stays within
// its budget.
type ChunkStreamer struct {
	shared   *Shared
	window   Window
	capacity int
	budget   *profiling.Budget
	cache    *GridCache

	chunks  []*Chunk
	byCoord map[world.GridCoord]*Chunk
	pools   []*physics.ColliderPool

	view      world.GridCoord
	started   bool
	populated bool
	task      *reconcile
	stats     Stats
}

// reconcile is one pass bringing the live chunks in line with a viewpoint.
type reconcile struct {
	view    world.GridCoord
	needed  []world.GridCoord // window coords without a chunk
	victims []*Chunk          // chunks outside the window
	next    int
	nextVic int
}

func (t *reconcile) done() bool { return t.next >= len(t.needed) }

// NewChunkStreamer creates a streamer; no chunks exist until the first Tick.
func NewChunkStreamer(shared *Shared, opts Options) (*ChunkStreamer, error) {
	if shared == nil || shared.Supplier == nil {
		return nil, fmt.Errorf("chunk streamer: missing content supplier")
	}
	if shared.SizeX <= 0 || shared.SizeY <= 0 || shared.SizeZ <= 0 {
		return nil, fmt.Errorf("chunk streamer: invalid chunk size %dx%dx%d", shared.SizeX, shared.SizeY, shared.SizeZ)
	}
	capacity := opts.Window.Size()
	if capacity == 0 {
		return nil, fmt.Errorf("chunk streamer: window radius %.2f bias %.2f holds no chunks", opts.Window.Radius, opts.Window.Bias)
	}
	cache, err := NewGridCache(opts.CacheCapacity, opts.CompressCache)
	if err != nil {
		return nil, fmt.Errorf("chunk streamer: %w", err)
	}
	return &ChunkStreamer{
		shared:   shared,
		window:   opts.Window,
		capacity: capacity,
		budget:   profiling.NewBudget(opts.TickBudget, opts.Clock),
		cache:    cache,
		chunks:   make([]*Chunk, 0, capacity),
		byCoord:  make(map[world.GridCoord]*Chunk, capacity),
		pools:    make([]*physics.ColliderPool, 0, capacity),
	}, nil
}

// Close releases the grid cache.
func (s *ChunkStreamer) Close() {
	s.cache.Close()
}

// Tick polls the viewpoint and advances outstanding streaming work.
// A change of view coordinate replaces any unfinished work with a fresh
// pass toward the new window; chunks already moved stay where they are.
func (s *ChunkStreamer) Tick(viewpoint mgl32.Vec3) {
	defer profiling.Track("terrain.ChunkStreamer.Tick")()
	s.budget.Start()
	s.stats.Ticks++

	view := world.WorldToGrid(viewpoint, s.shared.SizeX, s.shared.SizeZ)
	if !s.started || view != s.view {
		if s.task != nil {
			s.stats.Cancelled++
		}
		s.started = true
		s.view = view
		s.task = s.plan(view)
	}
	if s.task == nil {
		return
	}

	for !s.task.done() {
		s.step(s.task)
		if s.budget.Exceeded() {
			break
		}
	}
	if s.task.done() {
		s.task = nil
		if !s.populated && len(s.chunks) == s.capacity {
			s.populated = true
			log.Printf("terrain: populated %d chunks around %v in %d ticks", len(s.chunks), s.view, s.stats.Ticks)
		}
	}
}

func (s *ChunkStreamer) plan(view world.GridCoord) *reconcile {
	t := &reconcile{view: view}
	for _, c := range s.window.Coords(view) {
		if _, ok := s.byCoord[c]; !ok {
			t.needed = append(t.needed, c)
		}
	}
	for _, ch := range s.chunks {
		if !s.window.Contains(ch.coord, view) {
			t.victims = append(t.victims, ch)
		}
	}
	if len(t.needed) != len(t.victims)+s.capacity-len(s.chunks) {
		panic(fmt.Sprintf("terrain: %d coords needed but %d chunks free", len(t.needed), len(t.victims)+s.capacity-len(s.chunks)))
	}
	if len(t.needed) == 0 {
		return nil
	}
	return t
}

func (s *ChunkStreamer) step(t *reconcile) {
	coord := t.needed[t.next]
	t.next++
	if t.nextVic < len(t.victims) {
		ch := t.victims[t.nextVic]
		t.nextVic++
		s.move(ch, coord)
		return
	}
	if len(s.chunks) >= s.capacity {
		panic(fmt.Sprintf("terrain: no chunk available for %v", coord))
	}
	s.allocate(coord)
}

func (s *ChunkStreamer) allocate(coord world.GridCoord) {
	if _, taken := s.byCoord[coord]; taken {
		panic(fmt.Sprintf("terrain: coordinate %v already live", coord))
	}
	ch := NewChunk(s.shared, coord)
	s.chunks = append(s.chunks, ch)
	s.pools = append(s.pools, ch.colliders)
	s.byCoord[coord] = ch
	s.stats.Allocated++
	s.load(ch)
}

func (s *ChunkStreamer) move(ch *Chunk, coord world.GridCoord) {
	old := ch.coord
	if s.byCoord[old] != ch {
		panic(fmt.Sprintf("terrain: chunk at %v not indexed", old))
	}
	if _, taken := s.byCoord[coord]; taken {
		panic(fmt.Sprintf("terrain: coordinate %v already live", coord))
	}
	s.cache.Store(old, ch.grid)
	delete(s.byCoord, old)
	ch.relocate(coord)
	s.byCoord[coord] = ch
	s.stats.Relocated++
	s.load(ch)
}

func (s *ChunkStreamer) load(ch *Chunk) {
	if s.cache.Restore(ch.coord, ch.grid) {
		ch.filledFrom()
		s.stats.Restored++
	} else {
		ch.Fill()
		s.stats.Generated++
	}
	ch.Rebuild()
}

// Busy reports whether streaming work is outstanding.
func (s *ChunkStreamer) Busy() bool { return s.task != nil }

// Pending returns the number of coordinates still waiting for a chunk.
func (s *ChunkStreamer) Pending() int {
	if s.task == nil {
		return 0
	}
	return len(s.task.needed) - s.task.next
}

// View returns the view coordinate of the last Tick.
func (s *ChunkStreamer) View() world.GridCoord { return s.view }

// Capacity returns the number of chunks the window holds.
func (s *ChunkStreamer) Capacity() int { return s.capacity }

// Window returns the window configuration.
func (s *ChunkStreamer) Window() Window { return s.window }

// Shared returns the context shared by all chunks.
func (s *ChunkStreamer) Shared() *Shared { return s.shared }

// Cache returns the grid cache.
func (s *ChunkStreamer) Cache() *GridCache { return s.cache }

// Stats returns work counters.
func (s *ChunkStreamer) Stats() Stats { return s.stats }

// Chunks returns every live chunk. The slice must not be modified.
func (s *ChunkStreamer) Chunks() []*Chunk { return s.chunks }

// Pools returns the collider pool of every live chunk, for physics queries.
func (s *ChunkStreamer) Pools() []*physics.ColliderPool { return s.pools }

// Chunk returns the chunk at coord, or nil.
func (s *ChunkStreamer) Chunk(coord world.GridCoord) *Chunk { return s.byCoord[coord] }

// ChunkAt returns the chunk containing a world position, or nil.
func (s *ChunkStreamer) ChunkAt(pos mgl32.Vec3) *Chunk {
	return s.byCoord[world.WorldToGrid(pos, s.shared.SizeX, s.shared.SizeZ)]
}

// VoxelAt returns the voxel at a world position; ok is false when no live
// chunk holds it.
func (s *ChunkStreamer) VoxelAt(pos mgl32.Vec3) (world.Voxel, bool) {
	ch := s.ChunkAt(pos)
	if ch == nil {
		return world.VoxelAir, false
	}
	x, y, z := world.WorldToLocal(pos, ch.coord, s.shared.SizeX, s.shared.SizeZ)
	return ch.Voxel(x, y, z)
}

// SetVoxel edits one voxel of ch without rebuilding it.
func (s *ChunkStreamer) SetVoxel(ch *Chunk, x, y, z int, v world.Voxel) bool {
	return ch.SetVoxel(x, y, z, v)
}

// Rebuild refreshes the mesh and colliders of ch after edits.
func (s *ChunkStreamer) Rebuild(ch *Chunk) {
	ch.Rebuild()
}

// EditAt sets the voxel at a world position and rebuilds its chunk.
// It reports whether the edit was accepted.
func (s *ChunkStreamer) EditAt(pos mgl32.Vec3, v world.Voxel) bool {
	ch := s.ChunkAt(pos)
	if ch == nil {
		return false
	}
	x, y, z := world.WorldToLocal(pos, ch.coord, s.shared.SizeX, s.shared.SizeZ)
	if !ch.SetVoxel(x, y, z, v) {
		return false
	}
	ch.Rebuild()
	return true
}

// Validate checks that chunks and coordinates are in one-to-one
// correspondence and, when idle, that the window is fully covered.
func (s *ChunkStreamer) Validate() error {
	if len(s.byCoord) != len(s.chunks) {
		return fmt.Errorf("%d chunks but %d indexed coordinates", len(s.chunks), len(s.byCoord))
	}
	for _, ch := range s.chunks {
		if s.byCoord[ch.coord] != ch {
			return fmt.Errorf("chunk at %v not indexed under its coordinate", ch.coord)
		}
		if s.task == nil && ch.state == StateEmpty {
			return fmt.Errorf("chunk at %v is empty while idle", ch.coord)
		}
	}
	if len(s.chunks) > s.capacity {
		return fmt.Errorf("%d chunks exceed capacity %d", len(s.chunks), s.capacity)
	}
	if !s.started || s.task != nil {
		return nil
	}
	for _, c := range s.window.Coords(s.view) {
		if s.byCoord[c] == nil {
			return fmt.Errorf("window coordinate %v has no chunk", c)
		}
	}
	return nil
}
