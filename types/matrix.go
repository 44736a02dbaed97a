package types

import "math"

// A 4x4 matrix stored in row-major order. Points are treated as row vectors
// so translation lives in elements 12-14 and composition reads left to right:
// p * (A * B) applies A first.
type Mat4 [16]float32

// An affine transformation expressed as three basis vectors and a translation.
type Affine3 struct {
	Vx Vec3
	Vy Vec3
	Vz Vec3
	P  Vec3
}

// Create an identity matrix.
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
	m := Ident4()
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// Create a scale matrix.
func Scale4(s Vec3) Mat4 {
	m := Ident4()
	m[0], m[5], m[10] = s[0], s[1], s[2]
	return m
}

// Multiply two matrices.
func (m Mat4) Mul(m2 Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * m2[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// Transform a point (row vector, w=1).
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return Vec3{
		p[0]*m[0] + p[1]*m[4] + p[2]*m[8] + m[12],
		p[0]*m[1] + p[1]*m[5] + p[2]*m[9] + m[13],
		p[0]*m[2] + p[1]*m[6] + p[2]*m[10] + m[14],
	}
}

// Convert to an affine transformation. The projective column is discarded
// under the assumption that it equals [0, 0, 0, 1].
func (m Mat4) Affine() Affine3 {
	return Affine3{
		Vx: Vec3{m[0], m[1], m[2]},
		Vy: Vec3{m[4], m[5], m[6]},
		Vz: Vec3{m[8], m[9], m[10]},
		P:  Vec3{m[12], m[13], m[14]},
	}
}

// Check whether two matrices are equal within a small tolerance.
func (m Mat4) ApproxEqual(m2 Mat4) bool {
	for i := range m {
		if float32(math.Abs(float64(m[i]-m2[i]))) > floatCmpEpsilon {
			return false
		}
	}
	return true
}

// Check whether two affine transformations are equal within a small tolerance.
func (a Affine3) ApproxEqual(a2 Affine3) bool {
	return a.Vx.ApproxEqual(a2.Vx) && a.Vy.ApproxEqual(a2.Vy) &&
		a.Vz.ApproxEqual(a2.Vz) && a.P.ApproxEqual(a2.P)
}
