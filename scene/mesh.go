package scene

import (
	"github.com/achilleasa/gridtrace/geometry"
	"github.com/achilleasa/gridtrace/types"
)

// A world-space triangle.
type Face struct {
	Vertices [3]types.Vec3
	Normals  [3]types.Vec3
	UVs      [3]types.Vec2
	HasUV    bool
}

func (f *Face) Bounds() geometry.AABB {
	return geometry.TriangleBounds(f.Vertices[0], f.Vertices[1], f.Vertices[2])
}

// Get the normalized vertex normal interpolated with barycentric weights.
// Falls back to the geometric normal if the interpolation degenerates.
func (f *Face) Normal(bary types.Vec3) types.Vec3 {
	n := f.Normals[0].Mul(bary[0]).
		Add(f.Normals[1].Mul(bary[1])).
		Add(f.Normals[2].Mul(bary[2])).
		Normalize()
	if n == (types.Vec3{}) {
		n = geometry.TriangleNormal(f.Vertices[0], f.Vertices[1], f.Vertices[2])
	}
	return n
}

// Get the UV coordinates interpolated with barycentric weights.
func (f *Face) UV(bary types.Vec3) types.Vec2 {
	return f.UVs[0].Mul(bary[0]).
		Add(f.UVs[1].Mul(bary[1])).
		Add(f.UVs[2].Mul(bary[2]))
}

// A list of faces sharing a material.
type Mesh struct {
	Name     string
	Faces    []Face
	Material *Material

	bbox geometry.AABB
}

// Create a mesh and calculate its bounding box. A nil material is replaced
// by the default material.
func NewMesh(name string, faces []Face, mat *Material) *Mesh {
	if mat == nil {
		mat = DefaultMaterial()
	}

	bbox := geometry.EmptyAABB()
	for i := range faces {
		bbox = bbox.UnionBox(faces[i].Bounds())
	}

	return &Mesh{
		Name:     name,
		Faces:    faces,
		Material: mat,
		bbox:     bbox,
	}
}

// Get the mesh bounding box. Empty meshes return an inverted box.
func (m *Mesh) BBox() geometry.AABB {
	return m.bbox
}
