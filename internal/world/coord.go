package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GridCoord addresses a chunk column in the infinite chunk lattice.
type GridCoord struct {
	X, Z int
}

// Add returns c offset by (dx, dz).
func (c GridCoord) Add(dx, dz int) GridCoord {
	return GridCoord{X: c.X + dx, Z: c.Z + dz}
}

// Origin returns the world-space position of local voxel (0,0,0) for a chunk
// with a sx by sz footprint.
func (c GridCoord) Origin(sx, sz int) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X * sx), 0, float32(c.Z * sz)}
}

// VoxelAt returns the integer voxel containing a world position.
// Voxels are unit cubes centred on integer positions.
func VoxelAt(pos mgl32.Vec3) (x, y, z int) {
	x = int(math.Floor(float64(pos.X()) + 0.5))
	y = int(math.Floor(float64(pos.Y()) + 0.5))
	z = int(math.Floor(float64(pos.Z()) + 0.5))
	return x, y, z
}

// WorldToGrid returns the chunk coordinate containing a world position.
func WorldToGrid(pos mgl32.Vec3, sx, sz int) GridCoord {
	x, _, z := VoxelAt(pos)
	return GridCoord{X: floorDiv(x, sx), Z: floorDiv(z, sz)}
}

// WorldToLocal returns the voxel coordinate of pos relative to the chunk at c.
// The result may lie outside the chunk; callers bounds-check it against the grid.
func WorldToLocal(pos mgl32.Vec3, c GridCoord, sx, sz int) (x, y, z int) {
	wx, wy, wz := VoxelAt(pos)
	return wx - c.X*sx, wy, wz - c.Z*sz
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
