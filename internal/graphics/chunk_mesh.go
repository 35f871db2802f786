package graphics

import (
	"voxstream/internal/meshing"
	"voxstream/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GPUMesh mirrors one chunk mesh in a VAO. Buffers are re-specified only when
// the source version changes.
type GPUMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	version       uint64
	uploaded      bool
	scratch       []float32
}

// NewGPUMesh allocates the GL objects and sets up the vertex layout
// (position, normal, voxel type).
func NewGPUMesh() *GPUMesh {
	m := &GPUMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	stride := int32(meshing.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.BindVertexArray(0)
	return m
}

// Sync uploads mesh if version differs from the last upload.
func (m *GPUMesh) Sync(mesh *meshing.Mesh, version uint64) {
	if m.uploaded && version == m.version {
		return
	}
	defer profiling.Track("graphics.GPUMesh.Sync")()
	m.scratch = mesh.Interleave(m.scratch[:0])
	m.indexCount = int32(len(mesh.Indices))
	m.version = version
	m.uploaded = true

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(m.scratch) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.scratch)*4, gl.Ptr(m.scratch), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	}
	if len(mesh.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	}
	gl.BindVertexArray(0)
}

// Draw issues the indexed draw call.
func (m *GPUMesh) Draw() {
	if m.indexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

// Delete frees the GL objects.
func (m *GPUMesh) Delete() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}
