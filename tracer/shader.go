package tracer

import (
	"math"

	"github.com/achilleasa/gridtrace/geometry"
	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/types"
	"github.com/achilleasa/gridtrace/voxel"
)

const (
	// Default offset applied to shadow ray origins along the light direction.
	DefaultShadowRayEpsilon = 1e-4

	// Lights whose cosine term does not exceed this value contribute nothing
	// and do not cast a shadow ray.
	minDiffuse = 1e-6
)

// A Shader computes the color of ray hits using a local lighting model with
// hard shadows.
type Shader struct {
	scene *scene.Scene

	// Offset applied to shadow ray origins.
	ShadowRayEpsilon float64

	// Color returned for rays that miss the scene.
	Background types.Vec3
}

// Create a shader for a scene. A non-positive shadowEps is replaced by
// DefaultShadowRayEpsilon.
func NewShader(sc *scene.Scene, shadowEps float64, background types.Vec3) *Shader {
	if shadowEps <= 0 {
		shadowEps = DefaultShadowRayEpsilon
	}
	return &Shader{
		scene:            sc,
		ShadowRayEpsilon: shadowEps,
		Background:       background,
	}
}

// Trace a ray through the grid and shade the closest hit. Rays that miss
// the scene get the background color. The result is not clamped.
func (sh *Shader) Trace(w *voxel.Walker, r geometry.Ray) types.Vec3 {
	hit, ok := w.Trace(r, math.Inf(1))
	if !ok {
		return sh.Background
	}
	return sh.Shade(w, r, hit)
}

// Shade a hit. Shadow rays are traced using the supplied walker.
func (sh *Shader) Shade(w *voxel.Walker, r geometry.Ray, hit voxel.Hit) types.Vec3 {
	mesh := sh.scene.Meshes[hit.Mesh]
	face := &mesh.Faces[hit.Face]
	mat := mesh.Material

	// Surfaces are two-sided
	normal := face.Normal(hit.Bary)
	if normal.Dot(r.Dir) > 0 {
		normal = normal.Neg()
	}

	var uv types.Vec2
	if face.HasUV {
		uv = face.UV(hit.Bary)
	}
	albedo := mat.Albedo(uv, face.HasUV)

	var color types.Vec3
	for _, light := range sh.scene.Lights {
		radiance := light.Radiance()
		if light.Kind == scene.AmbientLight {
			color = color.Add(mat.Ambient.MulVec(radiance))
			continue
		}

		toLight, dist, ok := light.Toward(hit.Point)
		if !ok {
			continue
		}

		diffuse := toLight.Dot(normal)
		if diffuse <= minDiffuse || sh.occluded(w, hit.Point, toLight, dist) {
			continue
		}

		color = color.Add(albedo.MulVec(radiance).Mul(diffuse))
		if mat.Shininess > 0 {
			// Mirror the light's propagation direction about the normal
			// and compare it with the direction towards the viewer
			reflected := toLight.Neg().Reflect(normal)
			if k := -reflected.Dot(r.Dir); k > 0 {
				color = color.Add(mat.Specular.MulVec(radiance).Mul(math.Pow(k, mat.Shininess)))
			}
		}
	}

	return color
}

// Returns true if any geometry lies between p and a light dist units away
// in direction toLight.
func (sh *Shader) occluded(w *voxel.Walker, p, toLight types.Vec3, dist float64) bool {
	origin := p.Add(toLight.Mul(sh.ShadowRayEpsilon))
	maxDist := dist - sh.ShadowRayEpsilon
	if maxDist <= 0 {
		return false
	}
	_, hit := w.Trace(geometry.Ray{Origin: origin, Dir: toLight}, maxDist)
	return hit
}
