package terrain

import (
	"fmt"

	"voxstream/internal/meshing"
	"voxstream/internal/physics"
	"voxstream/internal/profiling"
	"voxstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// State tracks how far a chunk's derived data is from its voxels.
type State int

const (
	StateEmpty  State = iota // grid not populated
	StateFilled              // voxels valid, mesh/colliders stale
	StateMeshed              // mesh and colliders match the voxels
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilled:
		return "filled"
	case StateMeshed:
		return "meshed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Shared is the process-lifetime context every chunk reads from.
type Shared struct {
	SizeX, SizeY, SizeZ int
	Template            *meshing.CubeTemplate
	Supplier            world.Supplier
	// Protected voxel types cannot be overwritten through SetVoxel.
	// A nil map disables protection.
	Protected map[world.Voxel]bool
}

// NewShared creates a context with the unit cube template and Bedrock protection.
func NewShared(sx, sy, sz int, supplier world.Supplier) *Shared {
	return &Shared{
		SizeX:     sx,
		SizeY:     sy,
		SizeZ:     sz,
		Template:  meshing.UnitCube(),
		Supplier:  supplier,
		Protected: map[world.Voxel]bool{world.VoxelBedrock: true},
	}
}

// Chunk is one streamed region: its voxels plus the pooled mesh and
// collision data derived from them. The coordinate can change over the
// chunk's life; the storage does not.
type Chunk struct {
	shared    *Shared
	coord     world.GridCoord
	grid      *world.Grid
	expander  *meshing.Expander
	assembler *meshing.Assembler
	colliders *physics.ColliderPool

	typeBoxes  []meshing.Box
	solidBoxes []meshing.Box

	state   State
	version uint64
}

// NewChunk allocates the storage for one chunk at coord. The chunk starts Empty.
func NewChunk(shared *Shared, coord world.GridCoord) *Chunk {
	grid := world.NewGrid(shared.SizeX, shared.SizeY, shared.SizeZ)
	return &Chunk{
		shared:    shared,
		coord:     coord,
		grid:      grid,
		expander:  meshing.NewExpander(grid.Len()),
		assembler: meshing.NewAssembler(shared.Template),
		colliders: physics.NewColliderPool(grid.Len() / 64),
	}
}

// Coord returns the chunk's current world-grid coordinate.
func (c *Chunk) Coord() world.GridCoord { return c.coord }

// Origin returns the world-space position of local voxel (0,0,0).
func (c *Chunk) Origin() mgl32.Vec3 {
	return c.coord.Origin(c.shared.SizeX, c.shared.SizeZ)
}

// State returns the lifecycle state.
func (c *Chunk) State() State { return c.state }

// Version increases on every Rebuild.
func (c *Chunk) Version() uint64 { return c.version }

// Grid exposes the voxel storage.
func (c *Chunk) Grid() *world.Grid { return c.grid }

// Mesh returns the chunk-local render mesh from the last Rebuild.
func (c *Chunk) Mesh() *meshing.Mesh { return c.assembler.Mesh() }

// Colliders returns the chunk's collider pool (world space).
func (c *Chunk) Colliders() *physics.ColliderPool { return c.colliders }

// Boxes returns the type-boundary and solid-boundary boxes of the last Rebuild.
func (c *Chunk) Boxes() (typed, solid []meshing.Box) {
	return c.typeBoxes, c.solidBoxes
}

// Fill regenerates the voxels from the content supplier.
func (c *Chunk) Fill() {
	defer profiling.Track("terrain.Chunk.Fill")()
	c.grid.Clear()
	c.shared.Supplier.FillVoxels(c.grid, c.coord)
	c.expander.Reset(c.grid.Len())
	c.state = StateFilled
}

// filledFrom marks voxels restored from a cache as valid.
func (c *Chunk) filledFrom() {
	c.expander.Reset(c.grid.Len())
	c.state = StateFilled
}

// Rebuild recomputes the mesh from type-boundary boxes and the colliders
// from solid-boundary boxes. Calling it again without edits reproduces
// identical output.
func (c *Chunk) Rebuild() {
	defer profiling.Track("terrain.Chunk.Rebuild")()
	c.typeBoxes = c.expander.AppendBoxes(c.typeBoxes[:0], c.grid, meshing.BoundaryType)
	c.assembler.Build(c.typeBoxes)

	c.solidBoxes = c.expander.AppendBoxes(c.solidBoxes[:0], c.grid, meshing.BoundarySolid)
	c.colliders.Update(c.solidBoxes, c.Origin())

	c.state = StateMeshed
	c.version++
}

// Voxel returns the voxel at local coordinates; ok is false when out of range.
func (c *Chunk) Voxel(x, y, z int) (v world.Voxel, ok bool) {
	if !c.grid.InBounds(x, y, z) {
		return world.VoxelAir, false
	}
	return c.grid.At(x, y, z), true
}

// SetVoxel writes one voxel and reports whether the edit was accepted.
// Edits outside the chunk, on an Empty chunk, with an unknown voxel type or
// over a protected voxel are rejected. The mesh is left stale until Rebuild.
func (c *Chunk) SetVoxel(x, y, z int, v world.Voxel) bool {
	if c.state == StateEmpty || !v.Valid() || !c.grid.InBounds(x, y, z) {
		return false
	}
	cur := c.grid.At(x, y, z)
	if c.shared.Protected[cur] {
		return false
	}
	if cur == v {
		return true
	}
	c.grid.Set(x, y, z, v)
	c.state = StateFilled
	return true
}

// relocate moves the chunk to coord without touching its storage.
func (c *Chunk) relocate(coord world.GridCoord) {
	c.coord = coord
	c.state = StateEmpty
}
