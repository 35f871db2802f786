package meshing

import (
	"iter"

	"voxstream/internal/world"
)

// Boundary selects which neighbours a box may absorb while growing.
type Boundary int

const (
	// BoundaryType merges only voxels of the origin's type (render boxes).
	BoundaryType Boundary = iota
	// BoundarySolid merges any non-Air voxels (collision boxes).
	BoundarySolid
)

func (b Boundary) String() string {
	if b == BoundarySolid {
		return "solid"
	}
	return "type"
}

// Expander covers a voxel grid with axis-aligned boxes.
// It owns the coverage bitmap, which is reused across passes.
type Expander struct {
	filled []bool
}

// NewExpander creates an expander sized for grids of n voxels.
// The bitmap grows on demand if a larger grid is passed later.
func NewExpander(n int) *Expander {
	return &Expander{filled: make([]bool, n)}
}

// Reset clears the coverage bitmap for a grid of n voxels.
func (e *Expander) Reset(n int) {
	if cap(e.filled) < n {
		e.filled = make([]bool, n)
		return
	}
	e.filled = e.filled[:n]
	clear(e.filled)
}

// Boxes returns the lazy box sequence for g. Every iteration starts a fresh
// pass: the bitmap is reset, then voxels are visited in ascending linear
// index order (Y, then Z, then X outermost to innermost) and each uncovered
// non-Air voxel seeds one box.
//
// The sequence shares the expander's bitmap; do not interleave two
// iterations on the same expander.
func (e *Expander) Boxes(g *world.Grid, mode Boundary) iter.Seq[Box] {
	return func(yield func(Box) bool) {
		e.Reset(g.Len())
		for i, v := range g.Voxels() {
			if v == world.VoxelAir || e.filled[i] {
				continue
			}
			if !yield(e.expand(g, i, mode)) {
				return
			}
		}
	}
}

// AppendBoxes drains a full pass into dst and returns the extended slice.
func (e *Expander) AppendBoxes(dst []Box, g *world.Grid, mode Boundary) []Box {
	for b := range e.Boxes(g, mode) {
		dst = append(dst, b)
	}
	return dst
}

// expand grows a box from voxel i: first along X on the origin row, then
// along Z with the X extent fixed, then along Y with the X×Z footprint
// fixed. Each pass stops at the first voxel that is covered already or
// fails the boundary test, and never crosses the grid edge. The covered
// voxels are marked filled.
func (e *Expander) expand(g *world.Grid, i int, mode Boundary) Box {
	sx, sy, sz := g.Size()
	sxz := sx * sz
	voxels := g.Voxels()
	filled := e.filled
	ty := voxels[i]
	pX, pY, pZ := g.Coords(i)

	accepts := func(j int) bool {
		if filled[j] {
			return false
		}
		if mode == BoundaryType {
			return voxels[j] == ty
		}
		return voxels[j] != world.VoxelAir
	}

	dimX := 1
	for x := pX + 1; x < sx && accepts(i+x-pX); x++ {
		dimX++
	}

	dimZ := 1
zPass:
	for z := pZ + 1; z < sz; z++ {
		row := i + (z-pZ)*sx
		for dx := range dimX {
			if !accepts(row + dx) {
				break zPass
			}
		}
		dimZ++
	}

	dimY := 1
yPass:
	for y := pY + 1; y < sy; y++ {
		slab := i + (y-pY)*sxz
		for dz := range dimZ {
			row := slab + dz*sx
			for dx := range dimX {
				if !accepts(row + dx) {
					break yPass
				}
			}
		}
		dimY++
	}

	for dy := range dimY {
		for dz := range dimZ {
			row := i + dy*sxz + dz*sx
			for dx := range dimX {
				filled[row+dx] = true
			}
		}
	}

	b := Box{X: pX, Y: pY, Z: pZ, DX: dimX, DY: dimY, DZ: dimZ}
	if mode == BoundaryType {
		b.Type = ty
	}
	return b
}
