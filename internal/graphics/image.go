package graphics

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when a texture file does not contain image data
var ErrNotImage = errors.New("not an image")

// RawImage is decoded RGBA pixel data with rows stored bottom-to-top,
// the order texture uploads expect.
type RawImage struct {
	Width  int
	Height int
	Pix    []byte
}

// DecodeError reports a texture image that could not be decoded
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ImageDecoder turns an image file into a RawImage
type ImageDecoder interface {
	Decode(path string) (*RawImage, error)
}

// FileDecoder decodes images from disk and caches the result by path,
// so textures shared between materials are decoded once.
type FileDecoder struct {
	mu    sync.RWMutex
	cache map[string]*RawImage
}

// NewFileDecoder creates a decoder with an empty cache
func NewFileDecoder() *FileDecoder {
	return &FileDecoder{cache: make(map[string]*RawImage)}
}

// Decode returns the cached image for path, loading it on first use
func (d *FileDecoder) Decode(path string) (*RawImage, error) {
	d.mu.RLock()
	if img, ok := d.cache[path]; ok {
		d.mu.RUnlock()
		return img, nil
	}
	d.mu.RUnlock()

	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.cache[path] = img
	d.mu.Unlock()
	return img, nil
}

// Cached reports how many images are held in the cache
func (d *FileDecoder) Cached() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cache)
}

// DecodeFile reads, sniffs and decodes one image file
func DecodeFile(path string) (*RawImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer file.Close()

	// 262 bytes is enough for every signature filetype knows about
	head := make([]byte, 262)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if !filetype.IsImage(head[:n]) {
		return nil, &DecodeError{Path: path, Err: ErrNotImage}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return FromImage(img), nil
}

// FromImage converts any image to RGBA and flips it vertically
func FromImage(img image.Image) *RawImage {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	w, h := b.Dx(), b.Dy()
	row := w * 4
	pix := make([]byte, len(rgba.Pix))
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+row]
		copy(pix[(h-1-y)*row:], src)
	}

	return &RawImage{Width: w, Height: h, Pix: pix}
}

// FallbackImage is the 1x1 opaque white texel bound when no material
// texture resolves.
func FallbackImage() *RawImage {
	return &RawImage{Width: 1, Height: 1, Pix: []byte{0xFF, 0xFF, 0xFF, 0xFF}}
}
