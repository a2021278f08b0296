package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

type SpringArmBit uint8

const (
	SpringArmInitialized SpringArmBit = iota
)

// SpringArm keeps its owner at an offset from a target object, in the
// target's frame, looking back at it. It runs last in PreUpdate and first in
// PostUpdate so the target has settled before the arm follows.
type SpringArm struct {
	scene.ComponentBase

	flags   scene.Status[SpringArmBit]
	target  scene.ObjectID
	pending string
	vector  mgl32.Vec3
	offset  mgl32.Vec3
}

func NewSpringArm() *SpringArm {
	return &SpringArm{
		vector: mgl32.Vec3{0, 3, 10},
		offset: mgl32.Vec3{0, 3, 0},
	}
}

func (s *SpringArm) Flags() *scene.Status[SpringArmBit] { return &s.flags }

// SetTarget follows o. A nil object clears the target.
func (s *SpringArm) SetTarget(o *scene.Object) *SpringArm {
	s.target = 0
	if o != nil {
		s.target = o.ID()
	}
	return s
}

// Target resolves the followed object, or nil once it is gone.
func (s *SpringArm) Target() *scene.Object {
	return resolve(s.Owner(), s.target)
}

// SetVector sets the arm position in the target's local frame.
func (s *SpringArm) SetVector(v mgl32.Vec3) *SpringArm {
	s.vector = v
	return s
}

// SetOffset shifts the look-at point, in the arm's own frame.
func (s *SpringArm) SetOffset(v mgl32.Vec3) *SpringArm {
	s.offset = v
	return s
}

func (s *SpringArm) Vector() mgl32.Vec3 { return s.vector }
func (s *SpringArm) Offset() mgl32.Vec3 { return s.offset }

func (s *SpringArm) Init() {
	s.ComponentBase.Init()
	w := s.Owner().World()
	w.SetPriority(s, scene.TimingPreUpdate, scene.PriorityLowest)
	w.SetPriority(s, scene.TimingPostUpdate, scene.PriorityHighest)
	s.flags.On(SpringArmInitialized)
}

func (s *SpringArm) Update(dt float32) {
	s.ComponentBase.Update(dt)
	if m, ok := s.PutOnMatrix(); ok {
		s.Owner().SetMatrix(m)
	}
}

// PostUpdate turns the owner toward the target, raised by the offset.
func (s *SpringArm) PostUpdate() {
	target := s.Target()
	if target == nil {
		return
	}
	pos := s.Owner().Translate()
	at := target.Translate()
	look := geom.LookAtObject(pos, at)
	ofs := geom.TransformDir(look, s.offset)
	s.Owner().SetMatrix(geom.LookAtObject(pos, at.Add(ofs)))
}

// PutOnMatrix is the matrix placing the owner on the arm, looking at the
// target. ok is false without a live target.
func (s *SpringArm) PutOnMatrix() (mgl32.Mat4, bool) {
	target := s.Target()
	if target == nil || target.Transform() == nil {
		return mgl32.Ident4(), false
	}
	pos := geom.TransformPoint(target.Matrix(), s.vector)
	return geom.LookAtObject(pos, target.Translate()), true
}

type springArmState struct {
	Flags  uint64     `yaml:"flags"`
	Target string     `yaml:"target,omitempty"`
	Vector mgl32.Vec3 `yaml:"vector"`
	Offset mgl32.Vec3 `yaml:"offset"`
}

// SaveState records the target by name; handles are not stable across a
// save/load cycle.
func (s *SpringArm) SaveState() any {
	return springArmState{
		Flags:  s.flags.Raw(),
		Target: targetName(s.Target()),
		Vector: s.vector,
		Offset: s.offset,
	}
}

func (s *SpringArm) LoadState(decode func(v any) error) error {
	var st springArmState
	if err := decode(&st); err != nil {
		return err
	}
	s.flags.SetRaw(st.Flags)
	s.target = 0
	s.pending = st.Target
	s.vector = st.Vector
	s.offset = st.Offset
	return nil
}

// InitSerialize rebinds a target restored by name.
func (s *SpringArm) InitSerialize() {
	s.ComponentBase.InitSerialize()
	if s.pending != "" {
		s.SetTarget(s.Owner().World().FindObject(s.pending))
		s.pending = ""
	}
}

// resolve looks up a target handle in the owner's world.
func resolve(owner *scene.Object, id scene.ObjectID) *scene.Object {
	if id == 0 || owner == nil || owner.World() == nil {
		return nil
	}
	o := owner.World().Lookup(id)
	if o == nil || !o.IsAlive() {
		return nil
	}
	return o
}

func targetName(o *scene.Object) string {
	if o == nil {
		return ""
	}
	return o.Name()
}
