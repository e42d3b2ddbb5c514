// Package render owns the GPU side of assets: staging imported data through
// a graphics backend and drawing it once staged.
package render

import (
	"fmt"

	"motor/internal/graphics"
)

// Context bundles what staging and drawing need. One Context is shared by
// every resource so they also share the fallback texture.
type Context struct {
	Backend graphics.Backend
	Program graphics.Program
	Images  graphics.ImageDecoder

	fallback graphics.Texture
}

// NewContext panics on a nil backend
func NewContext(backend graphics.Backend, program graphics.Program, images graphics.ImageDecoder) *Context {
	if backend == nil {
		panic("render: nil backend")
	}
	if images == nil {
		images = graphics.NewFileDecoder()
	}
	return &Context{Backend: backend, Program: program, Images: images}
}

// Fallback returns the shared 1x1 white texture, uploading it on first use
func (c *Context) Fallback() (graphics.Texture, error) {
	if c.fallback != 0 {
		return c.fallback, nil
	}
	tex := c.Backend.GenTexture()
	if err := c.Backend.UploadTexture(tex, graphics.FallbackImage()); err != nil {
		return 0, fmt.Errorf("fallback texture: %w", err)
	}
	c.fallback = tex
	return tex, nil
}
