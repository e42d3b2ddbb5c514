package obj

import (
	"motor/internal/asset"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	_ asset.Scene         = (*scene)(nil)
	_ asset.Mesh          = (*mesh)(nil)
	_ asset.SceneMaterial = (*material)(nil)
)

type scene struct {
	meshes    []asset.Mesh
	materials []asset.SceneMaterial
}

func (s *scene) Meshes() []asset.Mesh             { return s.meshes }
func (s *scene) Materials() []asset.SceneMaterial { return s.materials }

type mesh struct {
	name     string
	vertices []mgl32.Vec3
	uvs      []mgl32.Vec3
	hasUV    bool
	faces    [][]uint32
	material int
}

func (m *mesh) Name() string           { return m.name }
func (m *mesh) Vertices() []mgl32.Vec3 { return m.vertices }
func (m *mesh) Faces() [][]uint32      { return m.faces }
func (m *mesh) MaterialIndex() int     { return m.material }

func (m *mesh) TextureCoords(channel int) ([]mgl32.Vec3, bool) {
	if channel != 0 || !m.hasUV {
		return nil, false
	}
	return m.uvs, true
}

type material struct {
	name    string
	diffuse []string
}

func (m *material) Name() string { return m.name }

func (m *material) TextureCount(kind asset.TextureKind) int {
	if kind != asset.Diffuse {
		return 0
	}
	return len(m.diffuse)
}

func (m *material) Texture(kind asset.TextureKind, i int) (string, bool) {
	if kind != asset.Diffuse || i < 0 || i >= len(m.diffuse) {
		return "", false
	}
	return m.diffuse[i], true
}
