package obj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"motor/internal/asset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const quadOBJ = `# a textured quad and an untextured triangle
mtllib quad.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl wood
f 1/1 2/2 3/3 4/4
o tri
usemtl plain
f -4 -3 -2
`

const quadMTL = `newmtl wood
Kd 1 1 1
map_Kd textures/wood.png

newmtl plain
Kd 0.5 0.5 0.5
`

func TestImportQuad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.mtl", quadMTL)
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	sc, err := Importer{}.Import(path)
	require.NoError(t, err)

	meshes := sc.Meshes()
	require.Len(t, meshes, 2)
	require.Len(t, sc.Materials(), 2)

	quad := meshes[0]
	assert.Equal(t, "quad", quad.Name())
	assert.Len(t, quad.Vertices(), 4)
	assert.Equal(t, [][]uint32{{0, 1, 2}, {0, 2, 3}}, quad.Faces())
	assert.Equal(t, 0, quad.MaterialIndex())
	uvs, ok := quad.TextureCoords(0)
	require.True(t, ok)
	assert.Equal(t, float32(1), uvs[2][0])
	assert.Equal(t, float32(1), uvs[2][1])

	tri := meshes[1]
	assert.Equal(t, 1, tri.MaterialIndex())
	_, ok = tri.TextureCoords(0)
	assert.False(t, ok)
	assert.Len(t, tri.Vertices(), 3)
	assert.Equal(t, [][]uint32{{0, 1, 2}}, tri.Faces())

	wood := sc.Materials()[0]
	tex, ok := wood.Texture(asset.Diffuse, 0)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "textures", "wood.png"), tex)
	assert.Equal(t, 0, sc.Materials()[1].TextureCount(asset.Diffuse))
}

func TestLoadThroughRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.mtl", quadMTL)
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	a, err := asset.Load(path)
	require.NoError(t, err)

	require.Len(t, a.Meshes, 2)
	assert.Equal(t, []asset.TextureRef{{Path: filepath.Join(dir, "textures", "wood.png")}}, a.Textures)
	assert.Equal(t, asset.Material(0), a.Meshes[0].Material)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, a.Meshes[0].Indices)

	// the triangle has no uvs: fallback with zeroed coordinates
	tri := a.Meshes[1]
	assert.True(t, tri.Material.IsFallback())
	assert.Equal(t, []float32{0, 0, 0}, tri.Vertices[3:6])
}

func TestMissingMaterialLibraryIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	a, err := asset.Load(path)
	require.NoError(t, err)
	assert.Empty(t, a.Textures)
	for _, m := range a.Meshes {
		assert.True(t, m.Material.IsFallback())
	}
}

func TestDefaultMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cube.mtl", "newmtl skin\nmap_Kd -s 1 1 1 skin.png\n")
	path := writeFile(t, dir, "cube.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nusemtl skin\nf 1/1 2/1 3/1\n")

	sc, err := Importer{}.Import(path)
	require.NoError(t, err)
	require.Len(t, sc.Meshes(), 1)

	// faces before any o/g line land in a group named after the file
	assert.Equal(t, "cube", sc.Meshes()[0].Name())
	tex, ok := sc.Materials()[0].Texture(asset.Diffuse, 0)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "skin.png"), tex)
}

func TestSharedCornersAreDeduplicated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "two.obj", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n")

	sc, err := Importer{}.Import(path)
	require.NoError(t, err)

	m := sc.Meshes()[0]
	assert.Len(t, m.Vertices(), 4)
	assert.Equal(t, [][]uint32{{0, 1, 2}, {0, 2, 3}}, m.Faces())
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "less than 3"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "index 0"},
		{"out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", "out of range"},
		{"bad float", "v 0 zero 0\n", "bad.obj:1"},
		{"short vertex", "v 0 0\n", "expected 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.obj", tt.content)
			_, err := Importer{}.Import(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := asset.Load(filepath.Join(t.TempDir(), "nope.obj"))
	require.Error(t, err)

	var ie *asset.ImportError
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseErrorsNameTheirFile(t *testing.T) {
	d := newDecoder(filepath.Join("models", "crate.obj"))

	err := d.parse("crate.mtl", strings.NewReader("# header\nmap_Kd wood.png\n"), d.parseMtlLine)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crate.mtl:2:")
	assert.NotContains(t, err.Error(), "crate.obj")

	err = d.parse(d.file, strings.NewReader("f 1 2\n"), d.parseObjLine)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crate.obj:1:")
}
