// Package graphicstest provides a recording graphics.Backend for tests
// that run without a GPU context.
package graphicstest

import (
	"errors"
	"fmt"
	"sync"

	"motor/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInjected is returned by uploads when a failure was requested
var ErrInjected = errors.New("injected backend failure")

// Draw is one recorded draw call
type Draw struct {
	Indexed bool
	Mode    graphics.Primitive
	Count   int32
	VAO     graphics.VertexArray
	Texture graphics.Texture
	Program graphics.Program
	Model   mgl32.Mat4
}

// Backend records every call it receives. Handles are issued from a single
// counter starting at 1.
type Backend struct {
	mu sync.Mutex

	next uint32

	Vertices map[graphics.VertexArray][]float32
	Indices  map[graphics.VertexArray][]uint32
	Textures map[graphics.Texture]*graphics.RawImage

	Draws     []Draw
	Clears    int
	Viewports [][2]int
	Matrices  map[string]mgl32.Mat4
	Ints      map[string]int32

	program graphics.Program
	vao     graphics.VertexArray
	bound   map[uint32]graphics.Texture

	// FailVertices, FailIndices and FailTextures make the matching upload
	// return ErrInjected.
	FailVertices bool
	FailIndices  bool
	FailTextures bool
}

var _ graphics.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		Vertices: make(map[graphics.VertexArray][]float32),
		Indices:  make(map[graphics.VertexArray][]uint32),
		Textures: make(map[graphics.Texture]*graphics.RawImage),
		Matrices: make(map[string]mgl32.Mat4),
		Ints:     make(map[string]int32),
		bound:    make(map[uint32]graphics.Texture),
	}
}

func (b *Backend) handle() uint32 {
	b.next++
	return b.next
}

func (b *Backend) GenVertexArray() graphics.VertexArray {
	b.mu.Lock()
	defer b.mu.Unlock()
	return graphics.VertexArray(b.handle())
}

func (b *Backend) GenBuffer() graphics.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return graphics.Buffer(b.handle())
}

func (b *Backend) GenTexture() graphics.Texture {
	b.mu.Lock()
	defer b.mu.Unlock()
	return graphics.Texture(b.handle())
}

func (b *Backend) UploadVertices(vao graphics.VertexArray, _ graphics.Buffer, data []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailVertices {
		return fmt.Errorf("upload vertices: %w", ErrInjected)
	}
	b.Vertices[vao] = append([]float32(nil), data...)
	return nil
}

func (b *Backend) UploadIndices(vao graphics.VertexArray, _ graphics.Buffer, data []uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailIndices {
		return fmt.Errorf("upload indices: %w", ErrInjected)
	}
	b.Indices[vao] = append([]uint32(nil), data...)
	return nil
}

func (b *Backend) UploadTexture(tex graphics.Texture, img *graphics.RawImage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailTextures {
		return fmt.Errorf("upload texture: %w", ErrInjected)
	}
	b.Textures[tex] = img
	return nil
}

func (b *Backend) UseProgram(p graphics.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

func (b *Backend) SetUniformMatrix4(_ graphics.Program, name string, m mgl32.Mat4) {
	b.mu.Lock()
	b.Matrices[name] = m
	b.mu.Unlock()
}

func (b *Backend) SetUniformInt(_ graphics.Program, name string, v int32) {
	b.mu.Lock()
	b.Ints[name] = v
	b.mu.Unlock()
}

func (b *Backend) BindTexture(unit uint32, tex graphics.Texture) {
	b.mu.Lock()
	b.bound[unit] = tex
	b.mu.Unlock()
}

func (b *Backend) BindVertexArray(vao graphics.VertexArray) {
	b.mu.Lock()
	b.vao = vao
	b.mu.Unlock()
}

func (b *Backend) DrawArrays(mode graphics.Primitive, count int32) {
	b.record(false, mode, count)
}

func (b *Backend) DrawElements(mode graphics.Primitive, count int32) {
	b.record(true, mode, count)
}

func (b *Backend) record(indexed bool, mode graphics.Primitive, count int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Draws = append(b.Draws, Draw{
		Indexed: indexed,
		Mode:    mode,
		Count:   count,
		VAO:     b.vao,
		Texture: b.bound[0],
		Program: b.program,
		Model:   b.Matrices["model"],
	})
}

func (b *Backend) Clear([4]float32) {
	b.mu.Lock()
	b.Clears++
	b.mu.Unlock()
}

func (b *Backend) Viewport(width, height int) {
	b.mu.Lock()
	b.Viewports = append(b.Viewports, [2]int{width, height})
	b.mu.Unlock()
}

// DrawCount returns the number of draw calls recorded so far
func (b *Backend) DrawCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Draws)
}

// Reset forgets recorded draws and clears but keeps uploaded data
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Draws = nil
	b.Clears = 0
}

// Decoder is an in-memory graphics.ImageDecoder keyed by path
type Decoder struct {
	Images map[string]*graphics.RawImage
	Calls  []string
}

func NewDecoder() *Decoder {
	return &Decoder{Images: make(map[string]*graphics.RawImage)}
}

func (d *Decoder) Decode(path string) (*graphics.RawImage, error) {
	d.Calls = append(d.Calls, path)
	img, ok := d.Images[path]
	if !ok {
		return nil, &graphics.DecodeError{Path: path, Err: graphics.ErrNotImage}
	}
	return img, nil
}
