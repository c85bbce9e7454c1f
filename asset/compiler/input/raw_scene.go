package input

import (
	"github.com/achilleasa/gridtrace/asset"
	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/types"
)

type Material struct {
	Name string

	Ambient   types.Vec3
	Diffuse   types.Vec3
	Specular  types.Vec3
	Shininess float64

	// Diffuse texture path.
	DiffuseTex string

	// Relative path for textures.
	AssetRelPath *asset.Resource

	// True if material is referenced by scene geometry.
	Used bool
}

// A triangle primitive
type Primitive struct {
	Vertices      [3]types.Vec3
	Normals       [3]types.Vec3
	UVs           [3]types.Vec2
	HasUV         bool
	MaterialIndex int
}

// A mesh is constructed by a list of primitive.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Create a new mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:       name,
		Primitives: make([]*Primitive, 0),
	}
}

// A mesh instance applies a transformation to a particular Mesh.
type MeshInstance struct {
	MeshIndex uint32
	Transform types.Mat4
}

// Camera settings.
type Camera struct {
	Eye         types.Vec3
	Look        types.Vec3
	Up          types.Vec3
	FocalLength float64
	FilmWidth   float64
	Ortho       bool
}

// The scene contains all elements that are processed by the scene compiler.
type Scene struct {
	Meshes        []*Mesh
	MeshInstances []*MeshInstance
	Materials     []*Material
	Lights        []scene.Light
	Camera        *Camera
}

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		Meshes:        make([]*Mesh, 0),
		MeshInstances: make([]*MeshInstance, 0),
		Materials:     make([]*Material, 0),
		Lights:        make([]scene.Light, 0),
		Camera: &Camera{
			Eye:         types.Vec3{0, 0, 0},
			Look:        types.Vec3{0, 0, -1},
			Up:          types.Vec3{0, 1, 0},
			FocalLength: 1.0,
			FilmWidth:   1.0,
		},
	}
}
