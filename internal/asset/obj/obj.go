// Package obj imports Wavefront OBJ models (*.obj) together with their
// material library (*.mtl). Only geometry, texture coordinates and diffuse
// texture maps are read; normals and lighting parameters are skipped.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"motor/internal/asset"

	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	asset.Register(".obj", Importer{})
}

// Importer implements asset.Importer for OBJ files
type Importer struct{}

// Import parses the model at path and its material library
func (Importer) Import(path string) (asset.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := newDecoder(path)
	if err := dec.parse(dec.file, f, dec.parseObjLine); err != nil {
		return nil, err
	}

	dec.loadMaterials()
	return dec.scene(), nil
}

// corner is one face vertex: position and optional uv index, zero based
type corner struct {
	v, vt int
}

type group struct {
	name     string
	material string
	faces    [][]corner
}

// decoder holds the parse state of one obj file
type decoder struct {
	dir    string
	file   string
	matlib string

	positions []mgl32.Vec3
	uvs       []mgl32.Vec3
	groups    []*group
	current   *group

	materials []*material
	byName    map[string]int

	// source and line locate parse errors in the file being read
	source string
	line   int
}

func newDecoder(path string) *decoder {
	dir, file := filepath.Split(path)
	return &decoder{
		dir:    dir,
		file:   file,
		byName: make(map[string]int),
	}
}

func (d *decoder) formatError(msg string) error {
	return fmt.Errorf("%s:%d: %s", d.source, d.line, msg)
}

// parse feeds every line of r, split into fields, to parseLine. name labels
// errors.
func (d *decoder) parse(name string, r io.Reader, parseLine func(fields []string) error) error {
	d.source = name
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	d.line = 0
	for sc.Scan() {
		d.line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := parseLine(fields); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (d *decoder) parseObjLine(fields []string) error {
	switch fields[0] {
	case "mtllib":
		if len(fields) < 2 {
			return d.formatError("mtllib with no file")
		}
		d.matlib = strings.Join(fields[1:], " ")
	case "o", "g":
		name := ""
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		d.startGroup(name, d.currentMaterial())
	case "v":
		v, err := d.parseVec(fields[1:], 3)
		if err != nil {
			return err
		}
		d.positions = append(d.positions, v)
	case "vt":
		v, err := d.parseVec(fields[1:], 1)
		if err != nil {
			return err
		}
		d.uvs = append(d.uvs, v)
	case "usemtl":
		if len(fields) < 2 {
			return d.formatError("usemtl with no material")
		}
		name := fields[1]
		if d.current == nil || len(d.current.faces) > 0 {
			prev := d.defaultName()
			if d.current != nil {
				prev = d.current.name
			}
			d.startGroup(prev, name)
		} else {
			d.current.material = name
		}
	case "f":
		return d.parseFace(fields[1:])
	default:
		// vn, s, l, p and friends carry nothing we draw
	}
	return nil
}

func (d *decoder) currentMaterial() string {
	if d.current == nil {
		return ""
	}
	return d.current.material
}

// defaultName names geometry that appears before any o or g line
func (d *decoder) defaultName() string {
	return strings.TrimSuffix(d.file, filepath.Ext(d.file))
}

func (d *decoder) startGroup(name, material string) {
	g := &group{name: name, material: material}
	d.groups = append(d.groups, g)
	d.current = g
}

// parseVec reads up to three floats, requiring at least required of them
func (d *decoder) parseVec(fields []string, required int) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(fields) < required {
		return v, d.formatError(fmt.Sprintf("expected %d values, got %d", required, len(fields)))
	}
	for i := 0; i < 3 && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, d.formatError(err.Error())
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFace reads f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (d *decoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return d.formatError("face with less than 3 vertices")
	}
	if d.current == nil {
		d.startGroup(d.defaultName(), "")
	}

	face := make([]corner, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")

		v, err := d.resolve(parts[0], len(d.positions))
		if err != nil {
			return err
		}
		vt := -1
		if len(parts) > 1 && parts[1] != "" {
			if vt, err = d.resolve(parts[1], len(d.uvs)); err != nil {
				return err
			}
		}
		face[i] = corner{v: v, vt: vt}
	}
	d.current.faces = append(d.current.faces, face)
	return nil
}

// resolve turns a one based or negative (relative) index into a zero
// based one
func (d *decoder) resolve(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, d.formatError(fmt.Sprintf("bad index %q", s))
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += count
	default:
		return 0, d.formatError("index 0 is not valid")
	}
	if idx < 0 || idx >= count {
		return 0, d.formatError(fmt.Sprintf("index %s out of range (%d defined)", s, count))
	}
	return idx, nil
}

// loadMaterials reads the material library named by mtllib, or the .mtl
// file next to the model. A missing or broken library leaves the model
// without materials.
func (d *decoder) loadMaterials() {
	path := filepath.Join(d.dir, strings.TrimSuffix(d.file, filepath.Ext(d.file))+".mtl")
	if d.matlib != "" {
		path = d.matlib
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.dir, path)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if d.matlib != "" || !errors.Is(err, os.ErrNotExist) {
			slog.Warn("material library unavailable", "model", d.file, "path", path, "err", err)
		}
		return
	}
	defer f.Close()

	if err := d.parse(filepath.Base(path), f, d.parseMtlLine); err != nil {
		slog.Warn("material library unreadable", "model", d.file, "path", path, "err", err)
		d.materials = nil
		d.byName = make(map[string]int)
	}
}

func (d *decoder) parseMtlLine(fields []string) error {
	switch fields[0] {
	case "newmtl":
		if len(fields) < 2 {
			return d.formatError("newmtl with no name")
		}
		d.byName[fields[1]] = len(d.materials)
		d.materials = append(d.materials, &material{name: fields[1]})
	case "map_Kd":
		if len(d.materials) == 0 {
			return d.formatError("map_Kd before newmtl")
		}
		if len(fields) < 2 {
			return d.formatError("map_Kd with no file")
		}
		// options such as -s or -o precede the file name
		tex := fields[len(fields)-1]
		if !filepath.IsAbs(tex) {
			tex = filepath.Join(d.dir, tex)
		}
		m := d.materials[len(d.materials)-1]
		m.diffuse = append(m.diffuse, tex)
	}
	return nil
}

// scene turns the parsed groups into meshes, one per group with faces.
// Vertices are shared between faces when both position and uv match.
func (d *decoder) scene() *scene {
	sc := &scene{}
	for _, m := range d.materials {
		sc.materials = append(sc.materials, m)
	}

	for _, g := range d.groups {
		if len(g.faces) == 0 {
			continue
		}

		m := &mesh{name: g.name, material: -1, hasUV: true}
		if idx, ok := d.byName[g.material]; ok {
			m.material = idx
		} else if g.material != "" {
			slog.Debug("unknown material", "model", d.file, "material", g.material)
		}

		seen := make(map[corner]uint32)
		for _, face := range g.faces {
			ids := make([]uint32, len(face))
			for i, c := range face {
				id, ok := seen[c]
				if !ok {
					id = uint32(len(m.vertices))
					seen[c] = id
					m.vertices = append(m.vertices, d.positions[c.v])
					var uv mgl32.Vec3
					if c.vt >= 0 {
						uv = d.uvs[c.vt]
					} else {
						m.hasUV = false
					}
					m.uvs = append(m.uvs, uv)
				}
				ids[i] = id
			}
			// fan triangulation: (0, i-1, i)
			for i := 2; i < len(ids); i++ {
				m.faces = append(m.faces, []uint32{ids[0], ids[i-1], ids[i]})
			}
		}
		sc.meshes = append(sc.meshes, m)
	}
	return sc
}
