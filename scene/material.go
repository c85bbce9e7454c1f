package scene

import "github.com/achilleasa/gridtrace/types"

// A texture that can be sampled with UV coordinates.
type Texture interface {
	Sample(uv types.Vec2) types.Vec3
}

// Defines a scene material.
type Material struct {
	Name string

	// Ambient reflectance.
	Ambient types.Vec3

	// Diffuse color. Ignored for faces with UVs if a texture is set.
	Diffuse types.Vec3

	// Specular color and exponent. A zero exponent disables highlights.
	Specular  types.Vec3
	Shininess float64

	// Optional diffuse texture.
	Texture Texture
}

// Create a flat grey material.
func DefaultMaterial() *Material {
	return &Material{
		Name:    "default",
		Diffuse: types.Vec3{0.75, 0.75, 0.75},
	}
}

// Get the diffuse albedo at the given UV coordinates.
func (m *Material) Albedo(uv types.Vec2, hasUV bool) types.Vec3 {
	if m.Texture != nil && hasUV {
		return m.Texture.Sample(uv)
	}
	return m.Diffuse
}
