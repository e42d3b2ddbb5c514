package asset

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnsupportedFormat is returned when no importer handles a file extension
var ErrUnsupportedFormat = errors.New("unsupported model format")

// ImportError reports a model file that could not be imported
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// TextureKind selects a texture slot of a material
type TextureKind int

const (
	Diffuse TextureKind = iota
	Specular
	Normal
)

// Scene is the raw result of an importer
type Scene interface {
	Meshes() []Mesh
	Materials() []SceneMaterial
}

// Mesh is one imported mesh. Faces index into Vertices.
type Mesh interface {
	Name() string
	Vertices() []mgl32.Vec3
	// TextureCoords returns one coordinate per vertex for the given
	// channel, or false when the mesh has none.
	TextureCoords(channel int) ([]mgl32.Vec3, bool)
	Faces() [][]uint32
	// MaterialIndex is an index into Scene.Materials, negative for none
	MaterialIndex() int
}

// SceneMaterial exposes the textures of one imported material
type SceneMaterial interface {
	Name() string
	TextureCount(kind TextureKind) int
	// Texture returns the path of the i-th texture of kind
	Texture(kind TextureKind, i int) (string, bool)
}

// Importer reads one model file
type Importer interface {
	Import(path string) (Scene, error)
}

// ImporterFunc adapts a function to the Importer interface
type ImporterFunc func(path string) (Scene, error)

func (f ImporterFunc) Import(path string) (Scene, error) { return f(path) }

var (
	mu        sync.RWMutex
	importers = map[string]Importer{}
)

// Register makes imp handle files with the given extension. Extensions are
// matched case-insensitively and include the leading dot.
func Register(ext string, imp Importer) {
	mu.Lock()
	defer mu.Unlock()
	importers[strings.ToLower(ext)] = imp
}

// Lookup returns the importer registered for path's extension
func Lookup(path string) (Importer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	imp, ok := importers[strings.ToLower(filepath.Ext(path))]
	return imp, ok
}

// Extensions lists the registered extensions in sorted order
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()
	exts := make([]string, 0, len(importers))
	for ext := range importers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
