// Package geom provides the vector and mesh queries used by the collision
// components: closest points between segments, points and triangles, line
// casts and capsule queries against static triangle meshes, and a small
// Wavefront OBJ loader.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the squared length below which a vector is treated as zero.
const Epsilon = 1e-12

// Up is the world up axis.
var Up = mgl32.Vec3{0, 1, 0}

// SafeNormalize returns v scaled to unit length, or fallback when v is too
// short to normalize.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l2 := v.Dot(v)
	if l2 <= Epsilon {
		return fallback
	}
	return v.Mul(1 / float32(math.Sqrt(float64(l2))))
}

// Horizontal drops the Y component of v.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], 0, v[2]}
}

// TransformPoint applies m to p as a position.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDir applies m to d as a direction, ignoring translation.
func TransformDir(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

func clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
