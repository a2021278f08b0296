package geom

import "github.com/go-gl/mathgl/mgl32"

// LookAtObject builds an object matrix placed at pos whose Z axis points at
// target. Unlike a view matrix it is not inverted, so it can be assigned to
// a transform directly.
func LookAtObject(pos, target mgl32.Vec3) mgl32.Mat4 {
	z := SafeNormalize(target.Sub(pos), mgl32.Vec3{0, 0, 1})
	x := SafeNormalize(Up.Cross(z), mgl32.Vec3{1, 0, 0})
	y := z.Cross(x)

	m := mgl32.Ident4()
	m.SetCol(0, x.Vec4(0))
	m.SetCol(1, y.Vec4(0))
	m.SetCol(2, z.Vec4(0))
	m.SetCol(3, pos.Vec4(1))
	return m
}

// ViewFromObject converts an object matrix whose Z axis is the viewing
// direction into a right-handed view matrix.
func ViewFromObject(m mgl32.Mat4) mgl32.Mat4 {
	eye := m.Col(3).Vec3()
	forward := m.Col(2).Vec3()
	return mgl32.LookAtV(eye, eye.Add(forward), m.Col(1).Vec3())
}
