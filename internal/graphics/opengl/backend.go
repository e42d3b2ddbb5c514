// Package opengl implements the graphics backend on top of an OpenGL 4.1
// core context. Every call must come from the thread owning the context.
package opengl

import (
	"fmt"

	"motor/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
)

// Backend issues OpenGL calls for the render lifecycle
type Backend struct {
	// uniform locations per program, looked up once per name
	locations *intmap.Map[uint32, map[string]int32]
}

var _ graphics.Backend = (*Backend)(nil)

// New loads the OpenGL function pointers for the current context and
// configures the fixed pipeline state.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize OpenGL: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &Backend{
		locations: intmap.New[uint32, map[string]int32](4),
	}, nil
}

// Version reports the driver's OpenGL version string
func (b *Backend) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (b *Backend) GenVertexArray() graphics.VertexArray {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return graphics.VertexArray(vao)
}

func (b *Backend) GenBuffer() graphics.Buffer {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return graphics.Buffer(buf)
}

func (b *Backend) GenTexture() graphics.Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	return graphics.Texture(tex)
}

// UploadVertices fills vbo and records the position/texcoord layout in vao
func (b *Backend) UploadVertices(vao graphics.VertexArray, vbo graphics.Buffer, data []float32) error {
	if len(data) == 0 {
		return fmt.Errorf("upload vertices: empty buffer")
	}

	gl.BindVertexArray(uint32(vao))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vbo))
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*graphics.FloatSize, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(graphics.VertexStride * graphics.FloatSize)
	// Position
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	// Texture coordinates
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*graphics.FloatSize))

	gl.BindVertexArray(0)

	return checkError("upload vertices")
}

// UploadIndices binds ebo as the element buffer of vao and fills it
func (b *Backend) UploadIndices(vao graphics.VertexArray, ebo graphics.Buffer, data []uint32) error {
	if len(data) == 0 {
		return fmt.Errorf("upload indices: empty buffer")
	}

	gl.BindVertexArray(uint32(vao))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(ebo))
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	return checkError("upload indices")
}

func (b *Backend) UseProgram(p graphics.Program) {
	gl.UseProgram(uint32(p))
}

func (b *Backend) SetUniformMatrix4(p graphics.Program, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(b.location(p, name), 1, false, &m[0])
}

func (b *Backend) SetUniformInt(p graphics.Program, name string, v int32) {
	gl.Uniform1i(b.location(p, name), v)
}

func (b *Backend) location(p graphics.Program, name string) int32 {
	names, ok := b.locations.Get(uint32(p))
	if !ok {
		names = make(map[string]int32)
		b.locations.Put(uint32(p), names)
	}
	if loc, ok := names[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	names[name] = loc
	return loc
}

func (b *Backend) BindVertexArray(vao graphics.VertexArray) {
	gl.BindVertexArray(uint32(vao))
}

func (b *Backend) DrawArrays(mode graphics.Primitive, count int32) {
	gl.DrawArrays(primitive(mode), 0, count)
}

func (b *Backend) DrawElements(mode graphics.Primitive, count int32) {
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (b *Backend) Clear(color [4]float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func primitive(mode graphics.Primitive) uint32 {
	switch mode {
	case graphics.Lines:
		return gl.LINES
	case graphics.Points:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

func checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}
