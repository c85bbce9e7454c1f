package reader

import (
	"fmt"

	"github.com/achilleasa/gridtrace/asset"
	"github.com/achilleasa/gridtrace/asset/compiler/input"
	"github.com/achilleasa/gridtrace/types"
)

const fallbackMaterial = "default"

// A newmtl block.
type mtlEntry struct {
	name string

	ambient   types.Vec3
	diffuse   types.Vec3
	specular  types.Vec3
	shininess float64

	// map_Kd path, resolved against the library that declared it.
	diffuseMap string
	declaredIn *asset.Resource

	// Set once a face uses the material.
	referenced bool
}

// Materials declared by every mtllib seen so far, in declaration order.
type materialLibrary struct {
	entries []*mtlEntry
	index   map[string]int
}

func newMaterialLibrary() *materialLibrary {
	return &materialLibrary{index: make(map[string]int)}
}

func (lib *materialLibrary) get(name string) (*mtlEntry, bool) {
	i, ok := lib.index[name]
	if !ok {
		return nil, false
	}
	return lib.entries[i], true
}

func (lib *materialLibrary) add(e *mtlEntry) error {
	if _, dup := lib.index[e.name]; dup {
		return fmt.Errorf("material %q is declared twice", e.name)
	}
	lib.index[e.name] = len(lib.entries)
	lib.entries = append(lib.entries, e)
	return nil
}

// The grey material assigned to faces that precede any usemtl.
func (lib *materialLibrary) fallback() *mtlEntry {
	if e, ok := lib.get(fallbackMaterial); ok {
		return e
	}
	e := &mtlEntry{name: fallbackMaterial, diffuse: types.XYZ(0.7, 0.7, 0.7)}
	lib.index[e.name] = len(lib.entries)
	lib.entries = append(lib.entries, e)
	return e
}

// Emit compiler materials for referenced entries only. The returned slice maps
// library positions to positions in out; unreferenced entries map to -1.
func (lib *materialLibrary) export(out *input.Scene) (remap []int, dropped []string) {
	remap = make([]int, len(lib.entries))
	for i, e := range lib.entries {
		if !e.referenced {
			remap[i] = -1
			dropped = append(dropped, e.name)
			continue
		}
		remap[i] = len(out.Materials)
		out.Materials = append(out.Materials, &input.Material{
			Name:         e.name,
			Ambient:      e.ambient,
			Diffuse:      e.diffuse,
			Specular:     e.specular,
			Shininess:    e.shininess,
			DiffuseTex:   e.diffuseMap,
			AssetRelPath: e.declaredIn,
			Used:         true,
		})
	}
	return remap, dropped
}

// Load a material library into r.materials.
func (r *objReader) parseMTL(res *asset.Resource) error {
	r.logger.Infof("loading material library %s", res.Path())

	var cur *mtlEntry
	return r.scan(res, func(s statement) error {
		if s.keyword == "newmtl" {
			if err := s.exactly(1); err != nil {
				return err
			}
			cur = &mtlEntry{name: s.args[0], declaredIn: res}
			return r.materials.add(cur)
		}
		if cur == nil {
			return fmt.Errorf("%q appears before any newmtl", s.keyword)
		}

		var err error
		switch s.keyword {
		case "Ka":
			cur.ambient, err = s.vec3()
		case "Kd":
			cur.diffuse, err = s.vec3()
		case "Ks":
			cur.specular, err = s.vec3()
		case "Ns":
			cur.shininess, err = s.scalar()
		case "map_Kd":
			// Options such as -s or -o may precede the file name.
			if len(s.args) == 0 {
				return arityError(s.keyword, 1, 0)
			}
			cur.diffuseMap = s.args[len(s.args)-1]
		case "include":
			if err = s.exactly(1); err != nil {
				return err
			}
			base, ok := r.materials.get(s.args[0])
			if !ok {
				return fmt.Errorf("cannot include undeclared material %q", s.args[0])
			}
			name := cur.name
			*cur = *base
			cur.name = name
			cur.referenced = false
		default:
			r.logger.Debugf("%s: skipping %q", s.where(), s.keyword)
		}
		return err
	})
}
