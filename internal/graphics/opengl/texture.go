package opengl

import (
	"fmt"

	"motor/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// UploadTexture copies RGBA pixels into tex and builds its mipmaps
func (b *Backend) UploadTexture(tex graphics.Texture, img *graphics.RawImage) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("upload texture %d: empty image", tex)
	}
	if len(img.Pix) < img.Width*img.Height*4 {
		return fmt.Errorf("upload texture %d: %d bytes for %dx%d", tex, len(img.Pix), img.Width, img.Height)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(img.Width),
		int32(img.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	return checkError("upload texture")
}

// BindTexture makes tex current on the given texture unit
func (b *Backend) BindTexture(unit uint32, tex graphics.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}
