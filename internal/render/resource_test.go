package render

import (
	"testing"

	"motor/internal/asset"
	"motor/internal/graphics"
	"motor/internal/graphics/graphicstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() []float32 {
	return []float32{
		0, 0, 0, 0, 0, 0,
		1, 0, 0, 1, 0, 0,
		0, 1, 0, 0, 1, 0,
	}
}

func testAsset() *asset.Asset {
	return &asset.Asset{
		Path: "test.obj",
		Meshes: []asset.SubMesh{
			{Name: "indexed", Vertices: triangle(), Indices: []uint32{0, 1, 2}, Material: asset.Material(0)},
			{Name: "arrays", Vertices: triangle(), Material: asset.Fallback()},
		},
		Textures: []asset.TextureRef{{Path: "wood.png"}},
	}
}

func newTestContext() (*Context, *graphicstest.Backend, *graphicstest.Decoder) {
	b := graphicstest.New()
	d := graphicstest.NewDecoder()
	d.Images["wood.png"] = &graphics.RawImage{Width: 2, Height: 2, Pix: make([]byte, 16)}
	return NewContext(b, 7, d), b, d
}

func TestStageIsOneWay(t *testing.T) {
	ctx, b, _ := newTestContext()
	r := NewResource(testAsset())
	assert.Equal(t, Unstaged, r.State())

	require.NoError(t, r.Stage(ctx))
	assert.Equal(t, Staged, r.State())
	uploads := len(b.Vertices)

	err := r.Stage(ctx)
	assert.ErrorIs(t, err, ErrAlreadyStaged)
	assert.Equal(t, Staged, r.State())
	assert.Equal(t, uploads, len(b.Vertices), "second stage must not re-upload")
}

func TestDrawRequiresStaged(t *testing.T) {
	ctx, b, _ := newTestContext()
	r := NewResource(testAsset())

	err := r.Draw(ctx, mgl32.Ident4())
	assert.ErrorIs(t, err, ErrNotStaged)
	assert.Zero(t, b.DrawCount())
}

func TestDrawIndexedAndArrays(t *testing.T) {
	ctx, b, _ := newTestContext()
	r := NewResource(testAsset())
	require.NoError(t, r.Stage(ctx))

	model := mgl32.Translate3D(1, 2, 3)
	require.NoError(t, r.Draw(ctx, model))

	require.Len(t, b.Draws, 2)
	indexed, arrays := b.Draws[0], b.Draws[1]

	assert.True(t, indexed.Indexed)
	assert.Equal(t, int32(3), indexed.Count)
	assert.False(t, arrays.Indexed)
	assert.Equal(t, int32(3), arrays.Count)

	for _, d := range b.Draws {
		assert.Equal(t, graphics.Program(7), d.Program)
		assert.Equal(t, model, d.Model)
		assert.Equal(t, graphics.Triangles, d.Mode)
	}

	fallback, err := ctx.Fallback()
	require.NoError(t, err)
	assert.NotEqual(t, fallback, indexed.Texture)
	assert.Equal(t, fallback, arrays.Texture)
	assert.NotEqual(t, indexed.VAO, arrays.VAO)
}

func TestMissingTextureFallsBack(t *testing.T) {
	ctx, b, d := newTestContext()
	delete(d.Images, "wood.png")

	r := NewResource(testAsset())
	require.NoError(t, r.Stage(ctx))
	require.NoError(t, r.Draw(ctx, mgl32.Ident4()))

	fallback, err := ctx.Fallback()
	require.NoError(t, err)
	for _, draw := range b.Draws {
		assert.Equal(t, fallback, draw.Texture)
	}
	assert.Equal(t, graphics.FallbackImage(), b.Textures[fallback])
}

func TestTextureUploadFailureFallsBack(t *testing.T) {
	ctx, b, _ := newTestContext()
	b.FailTextures = true

	// the fallback upload fails too, so staging cannot complete
	r := NewResource(testAsset())
	err := r.Stage(ctx)
	assert.ErrorIs(t, err, graphicstest.ErrInjected)
	assert.Equal(t, Unstaged, r.State())
}

func TestGeometryFailureLeavesUnstaged(t *testing.T) {
	ctx, b, _ := newTestContext()
	b.FailIndices = true

	r := NewResource(testAsset())
	err := r.Stage(ctx)
	assert.ErrorIs(t, err, graphicstest.ErrInjected)
	assert.Equal(t, Unstaged, r.State())
	assert.ErrorIs(t, r.Draw(ctx, mgl32.Ident4()), ErrNotStaged)

	b.FailIndices = false
	require.NoError(t, r.Stage(ctx))
	assert.Equal(t, Staged, r.State())
}

func TestFallbackIsShared(t *testing.T) {
	ctx, b, _ := newTestContext()

	a := NewResource(&asset.Asset{Meshes: []asset.SubMesh{{Vertices: triangle()}}})
	c := NewResource(&asset.Asset{Meshes: []asset.SubMesh{{Vertices: triangle()}}})
	require.NoError(t, a.Stage(ctx))
	require.NoError(t, c.Stage(ctx))

	assert.Len(t, b.Textures, 1)
}

func TestEveryTextureEntryIsDecoded(t *testing.T) {
	ctx, _, d := newTestContext()
	a := testAsset()
	a.Textures = append(a.Textures, asset.TextureRef{Path: "wood.png"})

	require.NoError(t, NewResource(a).Stage(ctx))
	assert.Equal(t, []string{"wood.png", "wood.png"}, d.Calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unstaged", Unstaged.String())
	assert.Equal(t, "staged", Staged.String())
}

func TestNewContextPanicsOnNilBackend(t *testing.T) {
	assert.Panics(t, func() { NewContext(nil, 0, nil) })
}
