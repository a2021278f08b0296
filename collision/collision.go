// Package collision implements the collider components: capsules, spheres
// and static triangle meshes, their pairwise hit tests and the mass-weighted
// push resolution dispatched by the scene's collision sweep.
package collision

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

// Kind is the collider shape.
type Kind uint8

const (
	KindNone Kind = iota
	KindLine
	KindTriangle
	KindSphere
	KindCapsule
	KindModel
)

var kindNames = [...]string{"NONE", "LINE", "TRIANGLE", "SPHERE", "CAPSULE", "MODEL"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Group is a bitset of collision categories.
type Group uint32

const (
	GroupWall Group = 1 << iota
	GroupGround
	GroupPlayer
	GroupEnemy
	GroupWeapon
	GroupItem
	GroupCamera
	GroupEtc

	GroupAll Group = 0xffffffff
)

var groupNames = [...]string{"WALL", "GROUND", "PLAYER", "ENEMY", "WEAPON", "ITEM", "CAMERA", "ETC"}

// GroupNames lists the named groups in bit order.
func GroupNames() []string { return groupNames[:] }

func (g Group) String() string {
	if g == GroupAll {
		return "ALL"
	}
	var parts []string
	for i, name := range groupNames {
		if g&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Bit is a collider flag.
type Bit uint8

const (
	BitInitialized Bit = iota
	BitDisableHit
	BitShowInGame
	BitIsGround
	BitUsePhysics
)

// ModelSource is implemented by the component that owns an object's mesh.
// Model colliders test against WorldMesh; attached colliders follow
// NodeMatrix.
type ModelSource interface {
	WorldMesh() *geom.Mesh
	NodeMatrix(node int) (mgl32.Mat4, bool)
}

// shape is implemented by every collider in this package.
type shape interface {
	scene.Collider
	base() *Collision
}

// Collision holds the state shared by all collider shapes. It is embedded by
// Capsule, Sphere and Model and is not used on its own.
type Collision struct {
	scene.ComponentBase

	kind    Kind
	group   Group
	hitMask Group
	flags   scene.Status[Bit]
	mass    float32
	id      uint32

	local    mgl32.Mat4
	oldLocal mgl32.Mat4

	attachNode   int
	attachMatrix mgl32.Mat4

	useGravity bool
	gravity    mgl32.Vec3
	nowGravity mgl32.Vec3
}

func newCollision(kind Kind) Collision {
	c := Collision{
		kind:         kind,
		group:        GroupEtc,
		hitMask:      GroupAll,
		mass:         1,
		local:        mgl32.Ident4(),
		oldLocal:     mgl32.Ident4(),
		attachNode:   -1,
		attachMatrix: mgl32.Ident4(),
	}
	c.Status().On(scene.ComponentSameType)
	return c
}

func (c *Collision) base() *Collision { return c }

func (c *Collision) Kind() Kind                { return c.kind }
func (c *Collision) Group() Group              { return c.group }
func (c *Collision) HitMask() Group            { return c.hitMask }
func (c *Collision) Mass() float32             { return c.mass }
func (c *Collision) ID() uint32                { return c.id }
func (c *Collision) Flags() *scene.Status[Bit] { return &c.flags }
func (c *Collision) AttachNode() int           { return c.attachNode }
func (c *Collision) IsUseGravity() bool        { return c.useGravity }
func (c *Collision) NowGravity() mgl32.Vec3    { return c.nowGravity }
func (c *Collision) LocalMatrix() mgl32.Mat4   { return c.local }
func (c *Collision) IsGround() bool            { return c.flags.Is(BitIsGround) }

func (c *Collision) SetGroup(g Group)        { c.group = g }
func (c *Collision) SetHitMask(g Group)      { c.hitMask = g }
func (c *Collision) SetMass(m float32)       { c.mass = m }
func (c *Collision) UseGravity(b bool)       { c.useGravity = b }
func (c *Collision) SetGravity(g mgl32.Vec3) { c.gravity = g }

// SetLocalMatrix places the collider relative to its owner.
func (c *Collision) SetLocalMatrix(m mgl32.Mat4) { c.local = m }

// SetLocalTranslate moves the collider relative to its owner.
func (c *Collision) SetLocalTranslate(v mgl32.Vec3) { c.local.SetCol(3, v.Vec4(1)) }

func (c *Collision) localTranslate() mgl32.Vec3 { return c.local.Col(3).Vec3() }

// AttachToModel makes the collider follow a node of the owner's model
// instead of the owner's transform. A negative node detaches it. Without a
// model on the owner the call is ignored.
func (c *Collision) AttachToModel(node int) {
	if node < 0 {
		c.attachNode = -1
		return
	}
	if _, ok := scene.GetComponent[ModelSource](c.Owner()); ok {
		c.attachNode = node
		c.attachMatrix = mgl32.Ident4()
	}
}

// Attached assigns the collider an identifier one above the highest used by
// the owner's other colliders.
func (c *Collision) Attached() {
	highest := -1
	for other := range scene.Components[shape](c.Owner()) {
		b := other.base()
		if b != c && int(b.id) > highest {
			highest = int(b.id)
		}
	}
	c.id = uint32(highest + 1)
}

func (c *Collision) Init() {
	c.ComponentBase.Init()
	c.flags.On(BitInitialized)
	if c.gravity == (mgl32.Vec3{}) {
		c.gravity = c.physics().Gravity
	}
}

func (c *Collision) Exit() {
	c.flags.Off(BitInitialized)
	c.ComponentBase.Exit()
}

// Update refreshes the attach node matrix and feeds accumulated gravity to
// the owner.
func (c *Collision) Update(dt float32) {
	c.ComponentBase.Update(dt)
	if c.attachNode >= 0 {
		c.attachMatrix = mgl32.Ident4()
		if src, ok := scene.GetComponent[ModelSource](c.Owner()); ok {
			if m, ok := src.NodeMatrix(c.attachNode); ok {
				c.attachMatrix = m
			}
		}
	}
	if c.useGravity {
		c.Owner().SetGravity(c.nowGravity)
		c.nowGravity = c.nowGravity.Add(c.gravity.Mul(dt))
	}
}

// PrePhysics clears the ground flag before the collision sweep sets it again.
func (c *Collision) PrePhysics() {
	c.flags.Off(BitIsGround)
}

func (c *Collision) PostUpdate() {
	c.oldLocal = c.local
}

// WorldMatrix is the collider's matrix in world space.
func (c *Collision) WorldMatrix() mgl32.Mat4 {
	if c.attachNode >= 0 {
		return c.attachMatrix.Mul4(c.local)
	}
	return c.Owner().Matrix().Mul4(c.local)
}

// OldWorldMatrix is WorldMatrix as of the previous frame.
func (c *Collision) OldWorldMatrix() mgl32.Mat4 {
	if c.attachNode >= 0 {
		return c.attachMatrix.Mul4(c.oldLocal)
	}
	return c.Owner().OldWorldMatrix().Mul4(c.oldLocal)
}

// IsGroupHit reports whether both colliders accept each other's group and
// neither is disabled.
func (c *Collision) IsGroupHit(other scene.Collider) bool {
	o, ok := other.(shape)
	if !ok {
		return false
	}
	ob := o.base()
	if c.flags.Is(BitDisableHit) || ob.flags.Is(BitDisableHit) {
		return false
	}
	if c.kind == KindNone || ob.kind == KindNone {
		return false
	}
	if c.group&ob.hitMask == 0 {
		return false
	}
	if ob.group&c.hitMask == 0 {
		return false
	}
	return true
}

// CalcPush splits push between c and other by mass. A negative mass is
// immovable. When both are immovable the push is split evenly and ok is
// false.
func (c *Collision) CalcPush(other scene.Collider, push mgl32.Vec3) (self, otherPush mgl32.Vec3, ok bool) {
	mass1 := c.mass
	mass2 := float32(1)
	if o, isShape := other.(shape); isShape {
		mass2 = o.base().mass
	}

	switch {
	case mass1 < 0 && mass2 < 0:
		return push.Mul(0.5), push.Mul(-0.5), false
	case mass1 < 0:
		return mgl32.Vec3{}, push.Mul(-1), true
	case mass2 < 0:
		return push, mgl32.Vec3{}, true
	}

	eps := c.physics().MassEpsilon
	mass1 += eps
	mass2 += eps
	all := mass1 + mass2
	return push.Mul(mass2 / all), push.Mul(-mass1 / all), true
}

// OnHit damps accumulated gravity against immovable colliders, then
// forwards the hit to the owner.
func (c *Collision) OnHit(hit scene.HitInfo) {
	if o, ok := hit.HitCollision.(shape); ok && o.base().mass < 0 {
		owner := c.Owner()
		vec := owner.Translate().Sub(owner.OldWorldMatrix().Col(3).Vec3())
		if vec.Len() <= 0 || c.nowGravity.Len() <= 0 {
			c.nowGravity = mgl32.Vec3{}
		} else {
			d := c.nowGravity.Normalize().Dot(vec.Normalize())
			c.nowGravity = c.nowGravity.Mul(1 - d*d*0.1)
		}
		if hit.Push.Dot(geom.Up) > 0 {
			c.flags.On(BitIsGround)
		}
	}
	c.Owner().Actor().OnHit(hit)
}

func (c *Collision) physics() scene.PhysicsConfig {
	if o := c.Owner(); o != nil && o.World() != nil {
		return o.World().Config().Physics
	}
	return scene.DefaultConfig().Physics
}

// ownerScale returns the average length of the owner's basis axes listed
// in axes.
func (c *Collision) ownerScale(axes ...int) float32 {
	m := c.Owner().Matrix()
	var sum float32
	for _, a := range axes {
		sum += m.Col(a).Vec3().Len()
	}
	return sum / float32(len(axes))
}

type collisionState struct {
	Group      Group      `yaml:"group"`
	HitMask    Group      `yaml:"hit_mask"`
	Flags      uint64     `yaml:"flags"`
	Mass       float32    `yaml:"mass"`
	ID         uint32     `yaml:"id"`
	Local      mgl32.Mat4 `yaml:"local"`
	AttachNode int        `yaml:"attach_node"`
	UseGravity bool       `yaml:"use_gravity"`
	Gravity    mgl32.Vec3 `yaml:"gravity"`
}

func (c *Collision) state() collisionState {
	return collisionState{
		Group:      c.group,
		HitMask:    c.hitMask,
		Flags:      c.flags.Raw(),
		Mass:       c.mass,
		ID:         c.id,
		Local:      c.local,
		AttachNode: c.attachNode,
		UseGravity: c.useGravity,
		Gravity:    c.gravity,
	}
}

func (c *Collision) restore(st collisionState) {
	c.group = st.Group
	c.hitMask = st.HitMask
	c.flags.SetRaw(st.Flags)
	c.mass = st.Mass
	c.id = st.ID
	c.local = st.Local
	c.oldLocal = st.Local
	c.attachNode = st.AttachNode
	c.attachMatrix = mgl32.Ident4()
	c.useGravity = st.UseGravity
	c.gravity = st.Gravity
}
