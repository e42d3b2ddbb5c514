package render

import (
	"errors"
	"fmt"
	"log/slog"

	"motor/internal/asset"
	"motor/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNotStaged is returned when drawing a resource before Stage
	ErrNotStaged = errors.New("render resource not staged")
	// ErrAlreadyStaged is returned when staging a resource twice
	ErrAlreadyStaged = errors.New("render resource already staged")
)

// State of a Resource. The only transition is Unstaged to Staged.
type State int

const (
	Unstaged State = iota
	Staged
)

func (s State) String() string {
	switch s {
	case Unstaged:
		return "unstaged"
	case Staged:
		return "staged"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type meshHandles struct {
	vao     graphics.VertexArray
	vbo     graphics.Buffer
	ebo     graphics.Buffer
	count   int32
	indexed bool
	// texture is the resolved texture, the fallback included
	texture graphics.Texture
}

// Resource holds the GPU handles of exactly one asset
type Resource struct {
	asset  *asset.Asset
	state  State
	meshes []meshHandles
	// textures is parallel to asset.Textures
	textures []graphics.Texture
}

// NewResource creates an unstaged resource for a
func NewResource(a *asset.Asset) *Resource {
	return &Resource{asset: a}
}

func (r *Resource) State() State { return r.state }

func (r *Resource) Asset() *asset.Asset { return r.asset }

// Stage uploads vertex and index data and every texture the asset lists.
// A texture that cannot be decoded or uploaded is replaced by the fallback.
// Geometry upload failures are returned and leave the resource unstaged.
// Handles already generated for earlier meshes are not released: Backend
// has no delete call and callers treat the error as fatal. A later Stage
// starts over with fresh handles.
func (r *Resource) Stage(ctx *Context) error {
	if r.state == Staged {
		return ErrAlreadyStaged
	}
	b := ctx.Backend

	meshes := make([]meshHandles, 0, len(r.asset.Meshes))
	for i := range r.asset.Meshes {
		m := &r.asset.Meshes[i]

		h := meshHandles{
			vao: b.GenVertexArray(),
			vbo: b.GenBuffer(),
		}
		if err := b.UploadVertices(h.vao, h.vbo, m.Vertices); err != nil {
			return fmt.Errorf("stage %s mesh %d: %w", r.asset.Path, i, err)
		}
		h.count = int32(m.VertexCount())
		if m.Indexed() {
			h.ebo = b.GenBuffer()
			if err := b.UploadIndices(h.vao, h.ebo, m.Indices); err != nil {
				return fmt.Errorf("stage %s mesh %d: %w", r.asset.Path, i, err)
			}
			h.indexed = true
			h.count = int32(len(m.Indices))
		}
		meshes = append(meshes, h)
	}

	textures := make([]graphics.Texture, len(r.asset.Textures))
	degraded := 0
	for i, ref := range r.asset.Textures {
		tex, err := r.stageTexture(ctx, ref.Path)
		if err != nil {
			slog.Warn("texture unavailable, using fallback", "asset", r.asset.Path, "texture", ref.Path, "err", err)
			if tex, err = ctx.Fallback(); err != nil {
				return fmt.Errorf("stage %s: %w", r.asset.Path, err)
			}
			degraded++
		}
		textures[i] = tex
	}

	for i := range meshes {
		tex, err := r.resolve(ctx, r.asset.Meshes[i].Material, textures)
		if err != nil {
			return fmt.Errorf("stage %s: %w", r.asset.Path, err)
		}
		meshes[i].texture = tex
	}

	r.meshes = meshes
	r.textures = textures
	r.state = Staged

	slog.Debug("staged asset",
		"path", r.asset.Path,
		"meshes", len(meshes),
		"textures", len(textures),
		"fallbacks", degraded,
	)
	return nil
}

func (r *Resource) stageTexture(ctx *Context, path string) (graphics.Texture, error) {
	img, err := ctx.Images.Decode(path)
	if err != nil {
		return 0, err
	}
	tex := ctx.Backend.GenTexture()
	if err := ctx.Backend.UploadTexture(tex, img); err != nil {
		return 0, err
	}
	return tex, nil
}

// resolve maps a material reference to a texture handle. References that
// do not point into the texture list fall back.
func (r *Resource) resolve(ctx *Context, ref asset.MaterialRef, textures []graphics.Texture) (graphics.Texture, error) {
	if i, ok := ref.Index(); ok && i >= 0 && i < len(textures) {
		return textures[i], nil
	}
	return ctx.Fallback()
}

// Draw binds each mesh's texture and issues one draw call per mesh with
// model as the model matrix. The caller sets view and projection.
func (r *Resource) Draw(ctx *Context, model mgl32.Mat4) error {
	if r.state != Staged {
		return ErrNotStaged
	}
	b := ctx.Backend

	b.UseProgram(ctx.Program)
	b.SetUniformMatrix4(ctx.Program, "model", model)

	for _, m := range r.meshes {
		b.BindTexture(0, m.texture)
		b.BindVertexArray(m.vao)
		if m.indexed {
			b.DrawElements(graphics.Triangles, m.count)
		} else {
			b.DrawArrays(graphics.Triangles, m.count)
		}
	}
	b.BindVertexArray(0)
	return nil
}

// MeshCount returns the number of staged meshes
func (r *Resource) MeshCount() int { return len(r.meshes) }
