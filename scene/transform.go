package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform holds an object's placement as a column-major matrix together
// with the matrix it had at the end of the previous frame.
type Transform struct {
	ComponentBase
	matrix    mgl32.Mat4
	oldMatrix mgl32.Mat4
}

func NewTransform() *Transform {
	return &Transform{
		matrix:    mgl32.Ident4(),
		oldMatrix: mgl32.Ident4(),
	}
}

func (t *Transform) Matrix() mgl32.Mat4 { return t.matrix }

func (t *Transform) SetMatrix(m mgl32.Mat4) *Transform {
	t.matrix = m
	return t
}

func (t *Transform) Translate() mgl32.Vec3 { return t.matrix.Col(3).Vec3() }

func (t *Transform) SetTranslate(v mgl32.Vec3) *Transform {
	t.matrix.SetCol(3, v.Vec4(1))
	return t
}

func (t *Transform) AddTranslate(v mgl32.Vec3) *Transform {
	return t.SetTranslate(t.Translate().Add(v))
}

func (t *Transform) AxisX() mgl32.Vec3 { return t.matrix.Col(0).Vec3() }
func (t *Transform) AxisY() mgl32.Vec3 { return t.matrix.Col(1).Vec3() }
func (t *Transform) AxisZ() mgl32.Vec3 { return t.matrix.Col(2).Vec3() }

// Scale returns the length of each basis axis.
func (t *Transform) Scale() mgl32.Vec3 {
	return mgl32.Vec3{t.AxisX().Len(), t.AxisY().Len(), t.AxisZ().Len()}
}

// SetScaleAxisXYZ rescales the basis axes, keeping rotation and translation.
func (t *Transform) SetScaleAxisXYZ(s mgl32.Vec3) *Transform {
	for i := 0; i < 3; i++ {
		axis := t.matrix.Col(i).Vec3()
		if l := axis.Len(); l > 0 {
			axis = axis.Mul(s[i] / l)
		} else {
			axis = mgl32.Vec3{}
			axis[i] = s[i]
		}
		t.matrix.SetCol(i, axis.Vec4(0))
	}
	return t
}

// SetRotationAxisXYZ replaces the rotation with Euler angles in degrees,
// applied X then Y then Z. Scale and translation are kept.
func (t *Transform) SetRotationAxisXYZ(deg mgl32.Vec3) *Transform {
	scale := t.Scale()
	pos := t.Translate()
	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(deg[2])).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(deg[1]))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(deg[0])))
	t.matrix = rot.Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
	t.matrix.SetCol(3, pos.Vec4(1))
	return t
}

// WorldMatrix is the matrix in world space. Transforms have no parent, so it
// equals Matrix.
func (t *Transform) WorldMatrix() mgl32.Mat4 { return t.matrix }

// OldWorldMatrix is WorldMatrix as of the previous PostUpdate.
func (t *Transform) OldWorldMatrix() mgl32.Mat4 { return t.oldMatrix }

func (t *Transform) PostUpdate() {
	t.oldMatrix = t.matrix
}

type transformState struct {
	Matrix mgl32.Mat4 `yaml:"matrix"`
}

func (t *Transform) SaveState() any {
	return transformState{Matrix: t.matrix}
}

func (t *Transform) LoadState(decode func(v any) error) error {
	var st transformState
	if err := decode(&st); err != nil {
		return err
	}
	t.matrix = st.Matrix
	t.oldMatrix = st.Matrix
	return nil
}
