package graphics

import "github.com/go-gl/mathgl/mgl32"

// Opaque handles issued by a Backend. Zero is never a valid handle.
type (
	VertexArray uint32
	Buffer      uint32
	Texture     uint32
	Program     uint32
)

// Primitive selects how vertices are assembled by a draw call
type Primitive int

const (
	Triangles Primitive = iota
	Lines
	Points
)

const (
	// VertexStride is the number of floats per interleaved vertex:
	// position (3) followed by a texture coordinate (3).
	VertexStride = 6
	FloatSize    = 4
)

// Backend is the thin graphics API the render lifecycle talks to.
// All calls happen on the thread that owns the rendering context.
type Backend interface {
	GenVertexArray() VertexArray
	GenBuffer() Buffer
	GenTexture() Texture

	// UploadVertices fills vbo with interleaved vertex data and records the
	// attribute layout in vao.
	UploadVertices(vao VertexArray, vbo Buffer, data []float32) error
	// UploadIndices attaches an element buffer to vao.
	UploadIndices(vao VertexArray, ebo Buffer, data []uint32) error
	UploadTexture(tex Texture, img *RawImage) error

	UseProgram(p Program)
	SetUniformMatrix4(p Program, name string, m mgl32.Mat4)
	SetUniformInt(p Program, name string, v int32)

	BindTexture(unit uint32, tex Texture)
	BindVertexArray(vao VertexArray)
	DrawArrays(mode Primitive, count int32)
	DrawElements(mode Primitive, count int32)

	Clear(color [4]float32)
	Viewport(width, height int)
}
