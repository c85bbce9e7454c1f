package scene

import (
	"github.com/achilleasa/gridtrace/geometry"
	"github.com/achilleasa/gridtrace/types"
)

// An immutable snapshot of everything needed to render a frame.
type Scene struct {
	Camera *Camera
	Meshes []*Mesh
	Lights []Light

	bbox geometry.AABB
}

// Create a scene and calculate the bounding box enclosing all mesh
// vertices. A scene without geometry gets a zero-sized box at the origin.
func New(meshes []*Mesh, lights []Light, camera *Camera) *Scene {
	if camera == nil {
		camera = NewCamera()
	}

	bbox := geometry.EmptyAABB()
	for _, mesh := range meshes {
		if len(mesh.Faces) == 0 {
			continue
		}
		bbox = bbox.UnionBox(mesh.BBox())
	}
	if bbox.IsEmpty() {
		bbox = geometry.AABB{Min: types.Vec3{}, Max: types.Vec3{}}
	}

	return &Scene{
		Camera: camera,
		Meshes: meshes,
		Lights: lights,
		bbox:   bbox,
	}
}

// Get the scene bounding box.
func (sc *Scene) BBox() geometry.AABB {
	return sc.bbox
}

// Get the total number of faces in the scene.
func (sc *Scene) FaceCount() int {
	count := 0
	for _, mesh := range sc.Meshes {
		count += len(mesh.Faces)
	}
	return count
}
