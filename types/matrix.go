package types

import "golang.org/x/image/math/f64"

// A 4x4 matrix stored in row-major order. Vectors are treated as columns so
// that M.Mul4(N) applies N first.
type Mat4 f64.Mat4

// Create a 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a translation matrix.
func Translate4(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, t[0],
		0, 1, 0, t[1],
		0, 0, 1, t[2],
		0, 0, 0, 1,
	}
}

// Create a scale matrix.
func Scale4(s Vec3) Mat4 {
	return Mat4{
		s[0], 0, 0, 0,
		0, s[1], 0, 0,
		0, 0, s[2], 0,
		0, 0, 0, 1,
	}
}

// Multiply two matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * m2[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Multiply matrix with a column vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// Transform a point (w = 1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// Transform a direction (w = 0). The translation part is ignored.
func (m Mat4) TransformDir(d Vec3) Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// Get the matrix for transforming normals: the inverse transpose of the
// upper 3x3 part. Singular matrices return the identity.
func (m Mat4) NormalMat() Mat4 {
	r0 := Vec3{m[0], m[1], m[2]}
	r1 := Vec3{m[4], m[5], m[6]}
	r2 := Vec3{m[8], m[9], m[10]}

	c0 := r1.Cross(r2)
	det := r0.Dot(c0)
	if det > -floatCmpEpsilon && det < floatCmpEpsilon {
		return Ident4()
	}

	invDet := 1.0 / det
	c0 = c0.Mul(invDet)
	c1 := r2.Cross(r0).Mul(invDet)
	c2 := r0.Cross(r1).Mul(invDet)
	return Mat4{
		c0[0], c0[1], c0[2], 0,
		c1[0], c1[1], c1[2], 0,
		c2[0], c2[1], c2[2], 0,
		0, 0, 0, 1,
	}
}
