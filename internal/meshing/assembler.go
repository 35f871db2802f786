package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of float32 per interleaved vertex
// (pos.xyz + normal.xyz + voxel type).
const VertexStride = 7

// Mesh holds renderer-ready buffers. UVs carry the voxel type in X so the
// shader can pick a material without a second geometry pass.
type Mesh struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	UVs      []mgl32.Vec2
	Indices  []uint32
}

// Reset truncates every buffer, keeping capacity.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Normals = m.Normals[:0]
	m.UVs = m.UVs[:0]
	m.Indices = m.Indices[:0]
}

// Interleave packs the mesh into dst as VertexStride floats per vertex and
// returns the extended slice.
func (m *Mesh) Interleave(dst []float32) []float32 {
	for i, p := range m.Vertices {
		n := m.Normals[i]
		dst = append(dst, p[0], p[1], p[2], n[0], n[1], n[2], m.UVs[i][0])
	}
	return dst
}

// Assembler turns box lists into a mesh by instancing a cube template per
// box. Its buffers are reused across builds.
type Assembler struct {
	template *CubeTemplate
	mesh     Mesh
}

// NewAssembler creates an assembler using the shared template.
func NewAssembler(t *CubeTemplate) *Assembler {
	return &Assembler{template: t}
}

// Mesh returns the result of the last Build.
func (a *Assembler) Mesh() *Mesh {
	return &a.mesh
}

// Build clears the mesh buffers and refills them from boxes. Each box
// contributes exactly one template copy, scaled by the box extents and
// moved to the box center; no faces are culled between boxes.
func (a *Assembler) Build(boxes []Box) *Mesh {
	t := a.template
	m := &a.mesh
	m.Reset()

	vc := uint32(t.VertexCount())
	for bi, b := range boxes {
		size := b.Size()
		center := b.Center()
		uv := mgl32.Vec2{float32(b.Type), 0}
		for _, p := range t.Positions {
			m.Vertices = append(m.Vertices, mgl32.Vec3{
				p[0]*size[0] + center[0],
				p[1]*size[1] + center[1],
				p[2]*size[2] + center[2],
			})
			m.UVs = append(m.UVs, uv)
		}
		m.Normals = append(m.Normals, t.Normals...)

		offset := uint32(bi) * vc
		for _, idx := range t.Indices {
			m.Indices = append(m.Indices, offset+idx)
		}
	}
	return m
}
