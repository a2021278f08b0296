package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

// Capsule is a swept sphere along the collider's local Y axis, starting at
// its local origin.
type Capsule struct {
	Collision
	radius float32
	height float32
}

func NewCapsule(radius, height float32) *Capsule {
	return &Capsule{
		Collision: newCollision(KindCapsule),
		radius:    radius,
		height:    height,
	}
}

func (c *Capsule) Radius() float32 { return c.radius }
func (c *Capsule) Height() float32 { return c.height }

func (c *Capsule) SetRadius(r float32) *Capsule {
	c.radius = r
	return c
}

func (c *Capsule) SetHeight(h float32) *Capsule {
	c.height = h
	return c
}

func (c *Capsule) IsHit(other scene.Collider) scene.HitInfo {
	return isHit(c, other)
}

// spine returns the world-space end points of the capsule axis and the
// scaled radius.
func (c *Capsule) spine() (p1, p2 mgl32.Vec3, r float32) {
	p1 = c.localTranslate()
	up := geom.SafeNormalize(c.local.Col(1).Vec3(), geom.Up)
	p2 = p1.Add(up.Mul(c.height))

	if c.attachNode >= 0 {
		p1 = geom.TransformPoint(c.attachMatrix, p1)
		p2 = geom.TransformPoint(c.attachMatrix, p2)
		p2 = p1.Add(geom.SafeNormalize(p2.Sub(p1), geom.Up).Mul(c.height))
		return p1, p2, c.radius
	}

	m := c.Owner().Matrix()
	p1 = geom.TransformPoint(m, p1)
	p2 = geom.TransformPoint(m, p2)
	return p1, p2, c.radius * c.ownerScale(0, 2)
}

// segment is the spine shrunk by the radius at both ends, so the capsule is
// every point within r of it.
func (c *Capsule) segment() (s1, s2 mgl32.Vec3, r float32) {
	p1, p2, r := c.spine()
	dir := geom.SafeNormalize(p2.Sub(p1), geom.Up)
	return p1.Add(dir.Mul(r)), p2.Sub(dir.Mul(r)), r
}

type capsuleState struct {
	Collision collisionState `yaml:"collision"`
	Radius    float32        `yaml:"radius"`
	Height    float32        `yaml:"height"`
}

func (c *Capsule) SaveState() any {
	return capsuleState{Collision: c.state(), Radius: c.radius, Height: c.height}
}

func (c *Capsule) LoadState(decode func(v any) error) error {
	var st capsuleState
	if err := decode(&st); err != nil {
		return err
	}
	c.restore(st.Collision)
	c.radius = st.Radius
	c.height = st.Height
	return nil
}
