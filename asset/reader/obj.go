package reader

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/gridtrace/asset"
	"github.com/achilleasa/gridtrace/asset/compiler"
	"github.com/achilleasa/gridtrace/asset/compiler/input"
	"github.com/achilleasa/gridtrace/log"
	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/types"
)

// A SyntaxError reports a problem at a specific line of a scene or material
// file. IncludedFrom lists the call/mtllib sites that led to the file,
// innermost first.
type SyntaxError struct {
	File         string
	Line         int
	Err          error
	IncludedFrom []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %v", e.File, e.Line, e.Err)
	for _, site := range e.IncludedFrom {
		b.WriteString("\n\tincluded from ")
		b.WriteString(site)
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Handles one OBJ keyword.
type objHandler func(r *objReader, s statement) error

var objHandlers map[string]objHandler

func init() {
	objHandlers = map[string]objHandler{
		"v":        (*objReader).addPosition,
		"vn":       (*objReader).addNormal,
		"vt":       (*objReader).addTexCoord,
		"o":        (*objReader).beginMesh,
		"g":        (*objReader).beginMesh,
		"f":        (*objReader).addFace,
		"usemtl":   (*objReader).useMaterial,
		"mtllib":   (*objReader).include,
		"call":     (*objReader).include,
		"instance": (*objReader).addInstance,

		"camera_eye":   cameraVec(func(c *input.Camera) *types.Vec3 { return &c.Eye }),
		"camera_look":  cameraVec(func(c *input.Camera) *types.Vec3 { return &c.Look }),
		"camera_up":    cameraVec(func(c *input.Camera) *types.Vec3 { return &c.Up }),
		"camera_focal": cameraScalar(func(c *input.Camera) *float64 { return &c.FocalLength }),
		"camera_film":  cameraScalar(func(c *input.Camera) *float64 { return &c.FilmWidth }),
		"camera_ortho": (*objReader).setOrtho,

		"light_ambient":     addLight(scene.AmbientLight),
		"light_directional": addLight(scene.DirectionalLight),
		"light_point":       addLight(scene.PointLight),

		// Smoothing groups, polylines and points produce no triangles.
		"s": skip,
		"l": skip,
		"p": skip,
	}
}

func skip(*objReader, statement) error { return nil }

// Offsets of the coordinate lists when the current file started parsing.
// Positive face indices in an included file are relative to them.
type coordBase struct {
	pos, uv, normal int
}

type objReader struct {
	logger log.Logger

	out       *input.Scene
	materials *materialLibrary
	active    *mtlEntry

	positions []types.Vec3
	normals   []types.Vec3
	texCoords []types.Vec2
	base      coordBase

	// The file being parsed; relative includes resolve against it.
	file *asset.Resource

	// Include sites leading to the file being parsed, innermost first.
	includeChain []string
}

func newOBJReader() *objReader {
	return &objReader{
		logger:    log.New("obj reader"),
		out:       input.NewScene(),
		materials: newMaterialLibrary(),
	}
}

// Parse and compile an OBJ scene.
func (r *objReader) Read(res *asset.Resource) (*scene.Scene, error) {
	raw, err := r.load(res)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(raw)
}

// Parse an OBJ scene into its uncompiled form.
func (r *objReader) load(res *asset.Resource) (*input.Scene, error) {
	start := time.Now()
	r.logger.Noticef("reading scene %s", res.Path())

	if err := r.parseOBJ(res); err != nil {
		return nil, err
	}

	if len(r.out.MeshInstances) == 0 {
		for i := range r.out.Meshes {
			r.out.MeshInstances = append(r.out.MeshInstances, &input.MeshInstance{
				MeshIndex: uint32(i),
				Transform: types.Ident4(),
			})
		}
	}

	remap, dropped := r.materials.export(r.out)
	for _, mesh := range r.out.Meshes {
		for _, prim := range mesh.Primitives {
			prim.MaterialIndex = remap[prim.MaterialIndex]
		}
	}
	if len(dropped) > 0 {
		r.logger.Infof("dropped %d unreferenced material(s): %s", len(dropped), strings.Join(dropped, ", "))
	}

	if len(r.out.Lights) == 0 {
		r.logger.Warning("scene defines no lights; the frame will only show the background and unlit surfaces")
	}

	r.logger.Noticef("read %d mesh(es) and %d instance(s) in %s", len(r.out.Meshes), len(r.out.MeshInstances), time.Since(start))
	return r.out, nil
}

// Run fn over every statement in res. Errors that are not already located
// are wrapped in a SyntaxError pointing at the offending line.
func (r *objReader) scan(res *asset.Resource, fn func(statement) error) error {
	lines := bufio.NewScanner(res)
	lineNum := 0
	for lines.Scan() {
		lineNum++
		fields := strings.Fields(lines.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		err := fn(statement{keyword: fields[0], args: fields[1:], file: res.Path(), line: lineNum})
		if err != nil {
			return r.locate(err, res.Path(), lineNum)
		}
	}
	if err := lines.Err(); err != nil {
		return r.locate(err, res.Path(), lineNum)
	}
	return nil
}

func (r *objReader) locate(err error, file string, line int) error {
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return err
	}
	return &SyntaxError{
		File:         file,
		Line:         line,
		Err:          err,
		IncludedFrom: append([]string(nil), r.includeChain...),
	}
}

func (r *objReader) parseOBJ(res *asset.Resource) error {
	outerBase, outerFile := r.base, r.file
	r.base = coordBase{pos: len(r.positions), uv: len(r.texCoords), normal: len(r.normals)}
	r.file = res
	defer func() { r.base, r.file = outerBase, outerFile }()

	err := r.scan(res, func(s statement) error {
		if handle, ok := objHandlers[s.keyword]; ok {
			return handle(r, s)
		}
		if kind, isLight := strings.CutPrefix(s.keyword, "light_"); isLight {
			r.logger.Warningf("%s: light type %q is not supported", s.where(), kind)
		} else {
			r.logger.Infof("%s: skipping %q", s.where(), s.keyword)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.dropEmptyMesh()
	return nil
}

// Parse a file referenced by call (another OBJ) or mtllib (a material library).
func (r *objReader) include(s statement) error {
	if err := s.exactly(1); err != nil {
		return err
	}

	res, err := asset.NewResource(s.args[0], r.file)
	if err != nil {
		return err
	}
	defer res.Close()

	r.includeChain = append([]string{fmt.Sprintf("%s (%s)", s.where(), s.keyword)}, r.includeChain...)
	if s.keyword == "call" {
		err = r.parseOBJ(res)
	} else {
		err = r.parseMTL(res)
	}
	r.includeChain = r.includeChain[1:]
	return err
}

func (r *objReader) addPosition(s statement) error {
	v, err := s.vec3()
	if err == nil {
		r.positions = append(r.positions, v)
	}
	return err
}

func (r *objReader) addNormal(s statement) error {
	v, err := s.vec3()
	if err == nil {
		r.normals = append(r.normals, v)
	}
	return err
}

func (r *objReader) addTexCoord(s statement) error {
	v, err := s.vec2()
	if err == nil {
		r.texCoords = append(r.texCoords, v)
	}
	return err
}

func (r *objReader) beginMesh(s statement) error {
	if len(s.args) == 0 {
		return fmt.Errorf("%q requires a name", s.keyword)
	}
	r.dropEmptyMesh()
	r.out.Meshes = append(r.out.Meshes, input.NewMesh(s.args[0]))
	return nil
}

// Meshes without faces are discarded when the next one starts or the file ends.
func (r *objReader) dropEmptyMesh() {
	last := len(r.out.Meshes) - 1
	if last < 0 || len(r.out.Meshes[last].Primitives) != 0 {
		return
	}
	r.logger.Warningf("mesh %q has no faces and will be ignored", r.out.Meshes[last].Name)
	r.out.Meshes = r.out.Meshes[:last]
}

func (r *objReader) useMaterial(s statement) error {
	if err := s.exactly(1); err != nil {
		return err
	}
	mat, ok := r.materials.get(s.args[0])
	if !ok {
		return fmt.Errorf("material %q has not been declared", s.args[0])
	}
	r.active = mat
	return nil
}

// One polygon corner after index resolution.
type corner struct {
	pos    types.Vec3
	normal types.Vec3
	uv     types.Vec2
}

// Add a face. Corners use one of the v, v/vt, v//vn or v/vt/vn layouts and
// every corner of a face must use the same one. Polygons with more than three
// corners are split into a triangle fan around the first corner, which is
// exact for convex polygons.
func (r *objReader) addFace(s statement) error {
	if len(s.args) < 3 {
		return fmt.Errorf(`"f" needs at least 3 corners; found %d (export triangulated meshes)`, len(s.args))
	}

	corners := make([]corner, len(s.args))
	fieldCount := 0
	var hasUV, hasNormals bool
	for i, arg := range s.args {
		refs := strings.Split(arg, "/")
		switch {
		case len(refs) > 3:
			return fmt.Errorf("corner %d: %q has too many index fields", i+1, arg)
		case i == 0:
			fieldCount = len(refs)
		case len(refs) != fieldCount:
			return fmt.Errorf("corner %d: %q uses %d index fields; the first corner uses %d", i+1, arg, len(refs), fieldCount)
		}

		if refs[0] == "" {
			return fmt.Errorf("corner %d: missing vertex index", i+1)
		}
		slot, err := resolveIndex(refs[0], len(r.positions), r.base.pos)
		if err != nil {
			return fmt.Errorf("corner %d vertex: %w", i+1, err)
		}
		corners[i].pos = r.positions[slot]

		if len(refs) > 1 && refs[1] != "" {
			if slot, err = resolveIndex(refs[1], len(r.texCoords), r.base.uv); err != nil {
				return fmt.Errorf("corner %d uv: %w", i+1, err)
			}
			corners[i].uv = r.texCoords[slot]
			hasUV = true
		}
		if len(refs) > 2 && refs[2] != "" {
			if slot, err = resolveIndex(refs[2], len(r.normals), r.base.normal); err != nil {
				return fmt.Errorf("corner %d normal: %w", i+1, err)
			}
			corners[i].normal = r.normals[slot]
			hasNormals = true
		}
	}

	if !hasNormals {
		n := corners[1].pos.Sub(corners[0].pos).Cross(corners[2].pos.Sub(corners[0].pos)).Normalize()
		for i := range corners {
			corners[i].normal = n
		}
	}

	if r.active == nil {
		r.active = r.materials.fallback()
	}
	r.active.referenced = true
	matIndex := r.materials.index[r.active.name]

	if len(r.out.Meshes) == 0 {
		r.out.Meshes = append(r.out.Meshes, input.NewMesh("default"))
	}
	mesh := r.out.Meshes[len(r.out.Meshes)-1]

	for k := 1; k+1 < len(corners); k++ {
		prim := &input.Primitive{HasUV: hasUV, MaterialIndex: matIndex}
		for slot, c := range [3]corner{corners[0], corners[k], corners[k+1]} {
			prim.Vertices[slot] = c.pos
			prim.Normals[slot] = c.normal
			prim.UVs[slot] = c.uv
		}
		mesh.Primitives = append(mesh.Primitives, prim)
	}
	return nil
}

// instance mesh tX tY tZ yaw pitch roll sX sY sZ
//
// Angles are in degrees; yaw turns around X, pitch around Y and roll around Z.
// The resulting transform scales, then rotates, then translates.
func (r *objReader) addInstance(s statement) error {
	if len(s.args) != 10 {
		return fmt.Errorf(`"instance" takes a mesh name and 9 values (tX tY tZ yaw pitch roll sX sY sZ); found %d value(s)`, len(s.args))
	}

	meshIndex := -1
	for i, mesh := range r.out.Meshes {
		if mesh.Name == s.args[0] {
			meshIndex = i
			break
		}
	}
	if meshIndex < 0 {
		return fmt.Errorf("unknown mesh %q", s.args[0])
	}

	vals, err := statement{keyword: s.keyword, args: s.args[1:]}.floats(9)
	if err != nil {
		return err
	}

	deg := math.Pi / 180
	rot := types.QuatFromAxisAngle(types.XYZ(0, 0, 1), vals[5]*deg).
		Mul(types.QuatFromAxisAngle(types.XYZ(0, 1, 0), vals[4]*deg)).
		Mul(types.QuatFromAxisAngle(types.XYZ(1, 0, 0), vals[3]*deg)).
		Normalize()

	r.out.MeshInstances = append(r.out.MeshInstances, &input.MeshInstance{
		MeshIndex: uint32(meshIndex),
		Transform: types.Translate4(types.XYZ(vals[0], vals[1], vals[2])).
			Mul4(rot.Mat4()).
			Mul4(types.Scale4(types.XYZ(vals[6], vals[7], vals[8]))),
	})
	return nil
}

func cameraVec(field func(*input.Camera) *types.Vec3) objHandler {
	return func(r *objReader, s statement) error {
		v, err := s.vec3()
		if err == nil {
			*field(r.out.Camera) = v
		}
		return err
	}
}

func cameraScalar(field func(*input.Camera) *float64) objHandler {
	return func(r *objReader, s statement) error {
		v, err := s.scalar()
		if err == nil {
			*field(r.out.Camera) = v
		}
		return err
	}
}

// camera_ortho [bool]; a bare keyword enables orthographic projection.
func (r *objReader) setOrtho(s statement) error {
	if len(s.args) == 0 {
		r.out.Camera.Ortho = true
		return nil
	}
	ortho, err := strconv.ParseBool(s.args[0])
	if err != nil {
		return fmt.Errorf("camera_ortho: %w", err)
	}
	r.out.Camera.Ortho = ortho
	return nil
}

// Light statements:
//
//	light_ambient r g b intensity
//	light_directional dX dY dZ r g b intensity
//	light_point pX pY pZ r g b intensity
//
// A directional light's vector points from the scene towards the light.
func addLight(kind scene.LightKind) objHandler {
	want := 7
	if kind == scene.AmbientLight {
		want = 4
	}

	return func(r *objReader, s statement) error {
		if err := s.exactly(want); err != nil {
			return err
		}
		vals, err := s.floats(want)
		if err != nil {
			return err
		}

		light := scene.Light{Kind: kind}
		if want == 7 {
			head := types.XYZ(vals[0], vals[1], vals[2])
			if kind == scene.PointLight {
				light.Position = head
			} else if light.Direction = head.Normalize(); light.Direction == (types.Vec3{}) {
				return errors.New("directional light needs a non-zero direction")
			}
			vals = vals[3:]
		}
		light.Color = types.XYZ(vals[0], vals[1], vals[2])
		light.Intensity = vals[3]

		r.out.Lights = append(r.out.Lights, light)
		return nil
	}
}
