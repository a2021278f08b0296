package geom

import "github.com/go-gl/mathgl/mgl32"

// Triangle is a counter-clockwise wound triangle.
type Triangle struct {
	A, B, C mgl32.Vec3
}

// Normal is the unit face normal, or zero for a degenerate triangle.
func (t Triangle) Normal() mgl32.Vec3 {
	return SafeNormalize(t.B.Sub(t.A).Cross(t.C.Sub(t.A)), mgl32.Vec3{})
}

// Center is the centroid.
func (t Triangle) Center() mgl32.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3)
}

// Transform applies m to each vertex.
func (t Triangle) Transform(m mgl32.Mat4) Triangle {
	return Triangle{
		A: TransformPoint(m, t.A),
		B: TransformPoint(m, t.B),
		C: TransformPoint(m, t.C),
	}
}

// IntersectSegment reports where segment from-to crosses the triangle and
// the fraction along the segment. Both faces count.
func (t Triangle) IntersectSegment(from, to mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	dir := to.Sub(from)
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)

	h := dir.Cross(e2)
	a := e1.Dot(h)
	if abs32(a) < 1e-8 {
		return mgl32.Vec3{}, 0, false
	}

	f := 1 / a
	s := from.Sub(t.A)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return mgl32.Vec3{}, 0, false
	}

	q := s.Cross(e1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return mgl32.Vec3{}, 0, false
	}

	frac := f * e2.Dot(q)
	if frac < 0 || frac > 1 {
		return mgl32.Vec3{}, 0, false
	}
	return from.Add(dir.Mul(frac)), frac, true
}

// bounds returns the axis-aligned box around the triangle.
func (t Triangle) bounds() (lo, hi mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		lo[i] = min(t.A[i], t.B[i], t.C[i])
		hi[i] = max(t.A[i], t.B[i], t.C[i])
	}
	return lo, hi
}
