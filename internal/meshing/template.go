package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// cubeFaceVertices is the unit cube as 6 faces × 2 triangles, each vertex
// position followed by its normal. Every face is laid out v0 v1 v2 v2 v3 v0.
var cubeFaceVertices = []float32{
	// NORTH
	-0.5, -0.5, 0.5, 0, 0, 1,
	0.5, -0.5, 0.5, 0, 0, 1,
	0.5, 0.5, 0.5, 0, 0, 1,
	0.5, 0.5, 0.5, 0, 0, 1,
	-0.5, 0.5, 0.5, 0, 0, 1,
	-0.5, -0.5, 0.5, 0, 0, 1,

	// SOUTH
	0.5, -0.5, -0.5, 0, 0, -1,
	-0.5, -0.5, -0.5, 0, 0, -1,
	-0.5, 0.5, -0.5, 0, 0, -1,
	-0.5, 0.5, -0.5, 0, 0, -1,
	0.5, 0.5, -0.5, 0, 0, -1,
	0.5, -0.5, -0.5, 0, 0, -1,

	// WEST
	-0.5, -0.5, -0.5, -1, 0, 0,
	-0.5, -0.5, 0.5, -1, 0, 0,
	-0.5, 0.5, 0.5, -1, 0, 0,
	-0.5, 0.5, 0.5, -1, 0, 0,
	-0.5, 0.5, -0.5, -1, 0, 0,
	-0.5, -0.5, -0.5, -1, 0, 0,

	// EAST
	0.5, -0.5, 0.5, 1, 0, 0,
	0.5, -0.5, -0.5, 1, 0, 0,
	0.5, 0.5, -0.5, 1, 0, 0,
	0.5, 0.5, -0.5, 1, 0, 0,
	0.5, 0.5, 0.5, 1, 0, 0,
	0.5, -0.5, 0.5, 1, 0, 0,

	// TOP
	-0.5, 0.5, 0.5, 0, 1, 0,
	0.5, 0.5, 0.5, 0, 1, 0,
	0.5, 0.5, -0.5, 0, 1, 0,
	0.5, 0.5, -0.5, 0, 1, 0,
	-0.5, 0.5, -0.5, 0, 1, 0,
	-0.5, 0.5, 0.5, 0, 1, 0,

	// BOTTOM
	-0.5, -0.5, -0.5, 0, -1, 0,
	0.5, -0.5, -0.5, 0, -1, 0,
	0.5, -0.5, 0.5, 0, -1, 0,
	0.5, -0.5, 0.5, 0, -1, 0,
	-0.5, -0.5, 0.5, 0, -1, 0,
	-0.5, -0.5, -0.5, 0, -1, 0,
}

// CubeTemplate is the indexed mesh instanced once per box.
type CubeTemplate struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// VertexCount returns the number of template vertices.
func (t *CubeTemplate) VertexCount() int {
	return len(t.Positions)
}

// IndexCount returns the number of template triangle indices.
func (t *CubeTemplate) IndexCount() int {
	return len(t.Indices)
}

// UnitCube builds a 24-vertex, 36-index cube spanning [-0.5, 0.5] on every
// axis with per-face normals. The template is read-only once built and can
// be shared by every chunk.
func UnitCube() *CubeTemplate {
	const (
		stride       = 6
		faceVertices = 6
	)
	faces := len(cubeFaceVertices) / (stride * faceVertices)
	t := &CubeTemplate{
		Positions: make([]mgl32.Vec3, 0, faces*4),
		Normals:   make([]mgl32.Vec3, 0, faces*4),
		Indices:   make([]uint32, 0, faces*6),
	}
	for f := range faces {
		face := cubeFaceVertices[f*stride*faceVertices:]
		base := uint32(len(t.Positions))
		// v0 v1 v2 v3 sit at triangle slots 0, 1, 2 and 4.
		for _, slot := range [4]int{0, 1, 2, 4} {
			v := face[slot*stride:]
			t.Positions = append(t.Positions, mgl32.Vec3{v[0], v[1], v[2]})
			t.Normals = append(t.Normals, mgl32.Vec3{v[3], v[4], v[5]})
		}
		t.Indices = append(t.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return t
}
