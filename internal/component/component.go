// Package component defines the data attached to entities
package component

import (
	"motor/internal/asset"
	"motor/internal/graphics"
	"motor/internal/render"

	"github.com/go-gl/mathgl/mgl32"
)

// Name is a display name
type Name string

// Renderable is an imported asset, its GPU resource and a model transform
type Renderable struct {
	Asset     *asset.Asset
	Resource  *render.Resource
	Transform graphics.Transform
}

// NewRenderable wraps an already imported asset with an identity transform
func NewRenderable(a *asset.Asset) Renderable {
	return Renderable{
		Asset:     a,
		Resource:  render.NewResource(a),
		Transform: graphics.Identity(),
	}
}

// LoadRenderable imports the model at path. Import failures are returned
// as *asset.ImportError and no resource is created.
func LoadRenderable(path string) (Renderable, error) {
	a, err := asset.Load(path)
	if err != nil {
		return Renderable{}, err
	}
	return NewRenderable(a), nil
}

// WithTranslate appends a translation to the model transform
func (r Renderable) WithTranslate(v mgl32.Vec3) Renderable {
	r.Transform = r.Transform.Translate(v)
	return r
}

// WithRotate appends a rotation of radians around axis
func (r Renderable) WithRotate(radians float32, axis mgl32.Vec3) Renderable {
	r.Transform = r.Transform.Rotate(radians, axis)
	return r
}

// WithScale appends a scale
func (r Renderable) WithScale(v mgl32.Vec3) Renderable {
	r.Transform = r.Transform.Scale(v)
	return r
}

// Staged reports whether the resource has been uploaded
func (r *Renderable) Staged() bool {
	return r.Resource != nil && r.Resource.State() == render.Staged
}
