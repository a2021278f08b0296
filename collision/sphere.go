package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

// Sphere is centered on the collider's local origin.
type Sphere struct {
	Collision
	radius float32
}

func NewSphere(radius float32) *Sphere {
	return &Sphere{
		Collision: newCollision(KindSphere),
		radius:    radius,
	}
}

func (s *Sphere) Radius() float32 { return s.radius }

func (s *Sphere) SetRadius(r float32) *Sphere {
	s.radius = r
	return s
}

func (s *Sphere) IsHit(other scene.Collider) scene.HitInfo {
	return isHit(s, other)
}

// center returns the world-space center and the scaled radius.
func (s *Sphere) center() (mgl32.Vec3, float32) {
	if s.attachNode >= 0 {
		return geom.TransformPoint(s.attachMatrix, s.localTranslate()), s.radius
	}
	pos := s.Owner().Matrix().Mul4(s.local).Col(3).Vec3()
	return pos, s.radius * s.ownerScale(0, 1, 2)
}

type sphereState struct {
	Collision collisionState `yaml:"collision"`
	Radius    float32        `yaml:"radius"`
}

func (s *Sphere) SaveState() any {
	return sphereState{Collision: s.state(), Radius: s.radius}
}

func (s *Sphere) LoadState(decode func(v any) error) error {
	var st sphereState
	if err := decode(&st); err != nil {
		return err
	}
	s.restore(st.Collision)
	s.radius = st.Radius
	return nil
}
