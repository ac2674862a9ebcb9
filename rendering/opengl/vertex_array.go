package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"solarsystem/core"
)

const sizeofFloat32 = 4

// Layout lists the float attribute sizes of an interleaved vertex, in
// location order.
type Layout []int32

// Stride returns the vertex size in floats.
func (l Layout) Stride() int32 {
	var n int32
	for _, c := range l {
		n += c
	}
	return n
}

// PositionNormal is the layout of every mesh core generates.
var PositionNormal = Layout{3, 3}

// VertexArray owns a VAO with its vertex and index buffers.
type VertexArray struct {
	vao, vbo, ebo uint32
	count         int32
}

// NewVertexArray uploads mesh with the given layout.
func NewVertexArray(mesh core.Mesh, layout Layout) *VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.vao)
	gl.GenBuffers(1, &va.vbo)
	gl.GenBuffers(1, &va.ebo)

	gl.BindVertexArray(va.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.ebo)

	stride := layout.Stride() * sizeofFloat32
	var offset int32
	for i, count := range layout {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), count, gl.FLOAT, false, stride, uintptr(offset*sizeofFloat32))
		offset += count
	}

	va.Upload(mesh)
	gl.BindVertexArray(0)
	return va
}

// Upload replaces the buffer contents with mesh.
func (va *VertexArray) Upload(mesh core.Mesh) {
	gl.BindVertexArray(va.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	if len(mesh.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*sizeofFloat32, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.ebo)
	if len(mesh.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}
	va.count = int32(len(mesh.Indices))
}

// Draw issues one indexed draw call with the given primitive.
func (va *VertexArray) Draw(primitive uint32) {
	if va.count == 0 {
		return
	}
	gl.BindVertexArray(va.vao)
	gl.DrawElementsWithOffset(primitive, va.count, gl.UNSIGNED_INT, 0)
}

// Delete releases the GPU objects.
func (va *VertexArray) Delete() {
	gl.DeleteBuffers(1, &va.vbo)
	gl.DeleteBuffers(1, &va.ebo)
	gl.DeleteVertexArrays(1, &va.vao)
}
