package geometry

import "github.com/achilleasa/gridtrace/types"

// Intersections closer than this distance to the ray origin are rejected.
// This keeps secondary rays from hitting the surface they were spawned from.
const RayEpsilon = 1e-6

// A ray with an origin and a (not necessarily normalized) direction.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// Get the point at parametric distance t along the ray.
func (r Ray) At(t float64) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
