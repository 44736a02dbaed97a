package types

import (
	"math"

	"golang.org/x/image/math/f32"
)

const floatCmpEpsilon = 1e-6

type Vec2 f32.Vec2
type Vec3 f32.Vec3
type Vec4 f32.Vec4

// Define a 2 component vector.
func XY(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Define a 4 component vector.
func XYZW(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// Expand a 3 component vector to a Vec4.
func (v Vec3) Vec4(w float32) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

// Reduce a 4 component vector to a Vec3.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Get 3 component vector length.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

// Check whether two vectors are equal within a small tolerance.
func (v Vec3) ApproxEqual(v2 Vec3) bool {
	for i := 0; i < 3; i++ {
		if float32(math.Abs(float64(v[i]-v2[i]))) > floatCmpEpsilon {
			return false
		}
	}
	return true
}

// Check whether two vectors are equal within a small tolerance.
func (v Vec4) ApproxEqual(v2 Vec4) bool {
	for i := 0; i < 4; i++ {
		if float32(math.Abs(float64(v[i]-v2[i]))) > floatCmpEpsilon {
			return false
		}
	}
	return true
}
