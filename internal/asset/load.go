package asset

import (
	"fmt"
	"log/slog"

	"motor/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Load imports the model at path with the importer registered for its
// extension and normalizes the result. Any failure is an *ImportError.
func Load(path string) (*Asset, error) {
	imp, ok := Lookup(path)
	if !ok {
		return nil, &ImportError{Path: path, Err: ErrUnsupportedFormat}
	}
	return LoadWith(imp, path)
}

// LoadWith imports path with a specific importer
func LoadWith(imp Importer, path string) (*Asset, error) {
	sc, err := imp.Import(path)
	if err != nil {
		return nil, &ImportError{Path: path, Err: err}
	}
	a, err := FromScene(path, sc)
	if err != nil {
		return nil, &ImportError{Path: path, Err: err}
	}
	return a, nil
}

// FromScene flattens an imported scene. Every material's diffuse textures
// are appended to the texture list in material order; each mesh points at
// its material's first diffuse texture. Meshes without texture coordinates
// get zero coordinates and the fallback reference.
func FromScene(path string, sc Scene) (*Asset, error) {
	a := &Asset{Path: path}

	materials := sc.Materials()
	first := make([]int, len(materials))
	for mi, mat := range materials {
		first[mi] = -1
		for i := 0; i < mat.TextureCount(Diffuse); i++ {
			tex, ok := mat.Texture(Diffuse, i)
			if !ok {
				continue
			}
			if first[mi] < 0 {
				first[mi] = len(a.Textures)
			}
			a.Textures = append(a.Textures, TextureRef{Path: tex})
		}
	}

	for mi, mesh := range sc.Meshes() {
		verts := mesh.Vertices()
		if len(verts) == 0 {
			slog.Debug("skipping empty mesh", "path", path, "mesh", mesh.Name())
			continue
		}

		ref := Fallback()
		uvs, ok := mesh.TextureCoords(0)
		if !ok || len(uvs) != len(verts) {
			uvs = make([]mgl32.Vec3, len(verts))
		} else if idx := mesh.MaterialIndex(); idx >= 0 && idx < len(first) && first[idx] >= 0 {
			ref = Material(first[idx])
		}

		indices, err := flatten(mesh.Faces(), len(verts))
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", mi, mesh.Name(), err)
		}

		a.Meshes = append(a.Meshes, SubMesh{
			Name:     mesh.Name(),
			Vertices: interleave(verts, uvs),
			Indices:  indices,
			Material: ref,
		})
	}

	return a, nil
}

func interleave(verts, uvs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(verts)*graphics.VertexStride)
	for i, v := range verts {
		t := uvs[i]
		out = append(out, v[0], v[1], v[2], t[0], t[1], t[2])
	}
	return out
}

func flatten(faces [][]uint32, vertexCount int) ([]uint32, error) {
	n := 0
	for _, f := range faces {
		n += len(f)
	}
	if n == 0 {
		return nil, nil
	}

	out := make([]uint32, 0, n)
	for fi, f := range faces {
		for _, idx := range f {
			if int(idx) >= vertexCount {
				return nil, fmt.Errorf("face %d: index %d out of range (%d vertices)", fi, idx, vertexCount)
			}
			out = append(out, idx)
		}
	}
	return out, nil
}
