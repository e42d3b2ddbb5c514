// Package scene reads YAML scene manifests: a list of entities, each with
// an optional model and an ordered list of transform operations.
//
//	entities:
//	  - name: crate
//	    model: models/crate.obj
//	    transform:
//	      - translate: [0, 0, -5]
//	      - rotate: {degrees: 45, axis: [0, 1, 0]}
//	      - scale: [2, 2, 2]
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"motor/internal/component"
	"motor/internal/ecs"
	"motor/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Manifest is a decoded scene file
type Manifest struct {
	Entities []Entity `yaml:"entities"`
}

// Entity describes one spawn. Entities without a model only get a name.
type Entity struct {
	Name      string `yaml:"name"`
	Model     string `yaml:"model"`
	Transform []Op   `yaml:"transform"`
}

// Op is one transform step. Exactly one field must be set.
type Op struct {
	Translate *[3]float32 `yaml:"translate,omitempty"`
	Rotate    *Rotation   `yaml:"rotate,omitempty"`
	Scale     *[3]float32 `yaml:"scale,omitempty"`
}

// Rotation is an angle in degrees around an axis
type Rotation struct {
	Degrees float32    `yaml:"degrees"`
	Axis    [3]float32 `yaml:"axis"`
}

// Load reads a manifest file. Relative model paths are resolved against
// the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	m, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest, rejecting unknown keys
func Parse(data []byte, dir string) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	for i := range m.Entities {
		e := &m.Entities[i]
		for j, op := range e.Transform {
			if n := op.count(); n != 1 {
				return nil, fmt.Errorf("entity %d (%s): transform %d sets %d operations, want 1", i, e.Name, j, n)
			}
		}
		if e.Model != "" && !filepath.IsAbs(e.Model) {
			e.Model = filepath.Join(dir, e.Model)
		}
	}
	return &m, nil
}

// FromModel builds a manifest spawning a single model with no transform
func FromModel(path string) *Manifest {
	name := filepath.Base(path)
	return &Manifest{Entities: []Entity{{Name: name, Model: path}}}
}

func (op Op) count() int {
	n := 0
	if op.Translate != nil {
		n++
	}
	if op.Rotate != nil {
		n++
	}
	if op.Scale != nil {
		n++
	}
	return n
}

// Apply appends op to t
func (op Op) Apply(t graphics.Transform) graphics.Transform {
	switch {
	case op.Translate != nil:
		return t.Translate(mgl32.Vec3(*op.Translate))
	case op.Rotate != nil:
		return t.Rotate(mgl32.DegToRad(op.Rotate.Degrees), mgl32.Vec3(op.Rotate.Axis))
	case op.Scale != nil:
		return t.Scale(mgl32.Vec3(*op.Scale))
	}
	return t
}

// OnStartup imports every model and spawns the entities in manifest order.
// The first import failure is returned.
func (m *Manifest) OnStartup(_ *ecs.Commands, w *ecs.World) error {
	for i, e := range m.Entities {
		var c ecs.Components
		if e.Name != "" {
			name := component.Name(e.Name)
			c.Name = &name
		}

		if e.Model != "" {
			r, err := component.LoadRenderable(e.Model)
			if err != nil {
				return fmt.Errorf("entity %d (%s): %w", i, e.Name, err)
			}
			for _, op := range e.Transform {
				r.Transform = op.Apply(r.Transform)
			}
			c.Renderable = &r
			slog.Info("loaded model", "entity", e.Name, "path", e.Model, "meshes", len(r.Asset.Meshes), "textures", len(r.Asset.Textures))
		}

		w.Spawn(c)
	}
	return nil
}
