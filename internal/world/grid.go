package world

import "fmt"

// Grid is the flattened voxel storage of one chunk.
// Index layout is X fastest, then Z, then Y: i = x + z*sx + y*sx*sz.
type Grid struct {
	sx, sy, sz int
	sxz        int
	voxels     []Voxel
}

// NewGrid allocates an all-Air grid. Dimensions must be positive.
func NewGrid(sx, sy, sz int) *Grid {
	if sx <= 0 || sy <= 0 || sz <= 0 {
		panic(fmt.Sprintf("world: invalid grid dimensions %dx%dx%d", sx, sy, sz))
	}
	return &Grid{
		sx:     sx,
		sy:     sy,
		sz:     sz,
		sxz:    sx * sz,
		voxels: make([]Voxel, sx*sy*sz),
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (sx, sy, sz int) {
	return g.sx, g.sy, g.sz
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.voxels)
}

// InBounds reports whether (x, y, z) addresses a cell of the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.sx && y >= 0 && y < g.sy && z >= 0 && z < g.sz
}

// Index converts local coordinates to a linear index.
// Out-of-range coordinates panic; they would otherwise alias a neighbouring cell.
func (g *Grid) Index(x, y, z int) int {
	if !g.InBounds(x, y, z) {
		panic(fmt.Sprintf("world: voxel (%d,%d,%d) outside %dx%dx%d grid", x, y, z, g.sx, g.sy, g.sz))
	}
	return x + z*g.sx + y*g.sxz
}

// Coords converts a linear index back to local coordinates.
func (g *Grid) Coords(i int) (x, y, z int) {
	if i < 0 || i >= len(g.voxels) {
		panic(fmt.Sprintf("world: voxel index %d outside grid of %d", i, len(g.voxels)))
	}
	x = i % g.sx
	z = (i / g.sx) % g.sz
	y = i / g.sxz
	return x, y, z
}

// At returns the voxel at local coordinates.
func (g *Grid) At(x, y, z int) Voxel {
	return g.voxels[g.Index(x, y, z)]
}

// Set writes the voxel at local coordinates.
func (g *Grid) Set(x, y, z int, v Voxel) {
	g.voxels[g.Index(x, y, z)] = v
}

// Voxels exposes the backing slice. Callers must not change its length.
func (g *Grid) Voxels() []Voxel {
	return g.voxels
}

// Clear resets every cell to Air.
func (g *Grid) Clear() {
	clear(g.voxels)
}

// FillLayer sets the horizontal slab at height y to v.
func (g *Grid) FillLayer(y int, v Voxel) {
	if y < 0 || y >= g.sy {
		panic(fmt.Sprintf("world: layer %d outside grid height %d", y, g.sy))
	}
	row := g.voxels[y*g.sxz : (y+1)*g.sxz]
	for i := range row {
		row[i] = v
	}
}

// CopyFrom overwrites g with the contents of src. Dimensions must match.
func (g *Grid) CopyFrom(src *Grid) {
	if src.sx != g.sx || src.sy != g.sy || src.sz != g.sz {
		panic(fmt.Sprintf("world: copy between %dx%dx%d and %dx%dx%d grids", src.sx, src.sy, src.sz, g.sx, g.sy, g.sz))
	}
	copy(g.voxels, src.voxels)
}

// Solid counts non-Air cells.
func (g *Grid) Solid() int {
	n := 0
	for _, v := range g.voxels {
		if v != VoxelAir {
			n++
		}
	}
	return n
}
