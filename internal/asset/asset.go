// Package asset normalizes imported 3D models into the flat form the
// render lifecycle uploads: interleaved vertex buffers, optional index
// buffers and one texture reference per mesh.
package asset

import (
	"fmt"

	"motor/internal/graphics"
)

// MaterialRef points a mesh at an entry of its asset's texture list, or at
// the shared fallback texture. The zero value is the fallback.
type MaterialRef struct {
	index int
	set   bool
}

// Material references texture i of the owning asset
func Material(i int) MaterialRef {
	return MaterialRef{index: i, set: true}
}

// Fallback references the shared fallback texture
func Fallback() MaterialRef {
	return MaterialRef{}
}

// Index returns the texture index, or false for the fallback
func (r MaterialRef) Index() (int, bool) {
	return r.index, r.set
}

func (r MaterialRef) IsFallback() bool { return !r.set }

func (r MaterialRef) String() string {
	if !r.set {
		return "fallback"
	}
	return fmt.Sprintf("material(%d)", r.index)
}

// TextureRef is one image used by the asset's materials
type TextureRef struct {
	Path string
}

// SubMesh is one drawable piece of an asset
type SubMesh struct {
	Name string
	// Vertices holds graphics.VertexStride floats per vertex:
	// x, y, z, u, v, w.
	Vertices []float32
	// Indices is nil when the mesh is drawn as a plain vertex list
	Indices  []uint32
	Material MaterialRef
}

// VertexCount returns the number of vertices in the interleaved buffer
func (m *SubMesh) VertexCount() int {
	return len(m.Vertices) / graphics.VertexStride
}

// Indexed reports whether the mesh carries an index buffer
func (m *SubMesh) Indexed() bool {
	return len(m.Indices) > 0
}

// Asset is the normalized, immutable result of importing a model file
type Asset struct {
	Path     string
	Meshes   []SubMesh
	Textures []TextureRef
}

// VertexCount sums the vertices of every mesh
func (a *Asset) VertexCount() int {
	n := 0
	for i := range a.Meshes {
		n += a.Meshes[i].VertexCount()
	}
	return n
}

// TextureFor resolves a mesh's reference to a texture path. The fallback
// and out-of-range references both report false.
func (a *Asset) TextureFor(m *SubMesh) (string, bool) {
	i, ok := m.Material.Index()
	if !ok || i < 0 || i >= len(a.Textures) {
		return "", false
	}
	return a.Textures[i].Path, true
}
