package scene

import (
	"math"

	"github.com/achilleasa/gridtrace/types"
)

type LightKind uint8

const (
	AmbientLight LightKind = iota
	DirectionalLight
	PointLight
)

func (k LightKind) String() string {
	switch k {
	case AmbientLight:
		return "ambient"
	case DirectionalLight:
		return "directional"
	case PointLight:
		return "point"
	}
	return "unknown"
}

// A scene light.
type Light struct {
	Kind      LightKind
	Color     types.Vec3
	Intensity float64

	// Unit vector pointing from the scene towards the light (directional lights).
	Direction types.Vec3

	// World-space light position (point lights).
	Position types.Vec3
}

// Get the unit vector from p towards the light and the distance to the
// light. Directional lights are infinitely far away. Ambient lights have no
// direction and return false.
func (l Light) Toward(p types.Vec3) (types.Vec3, float64, bool) {
	switch l.Kind {
	case DirectionalLight:
		dir := l.Direction.Normalize()
		return dir, math.Inf(1), dir != (types.Vec3{})
	case PointLight:
		delta := l.Position.Sub(p)
		dist := delta.Len()
		if dist == 0 {
			return types.Vec3{}, 0, false
		}
		return delta.Mul(1 / dist), dist, true
	}
	return types.Vec3{}, 0, false
}

// Get the light color scaled by its intensity.
func (l Light) Radiance() types.Vec3 {
	return l.Color.Mul(l.Intensity)
}
