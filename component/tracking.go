package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

type TrackingBit uint8

const (
	TrackingInitialized TrackingBit = iota
	TrackingLimitAxisY
	TrackingLimitAxisX
	TrackingObject
)

// TargetTracking turns one node of the owner's Model toward a target object
// or a fixed point. Yaw is limited by LimitLR (left, right) and pitch by
// LimitUD (up, down), in degrees.
type TargetTracking struct {
	scene.ComponentBase

	flags   scene.Status[TrackingBit]
	node    string
	index   int
	front   mgl32.Vec3
	lookAt  mgl32.Vec3
	limitLR mgl32.Vec2
	limitUD mgl32.Vec2

	target  scene.ObjectID
	pending string

	tracking   mgl32.Mat4
	yaw, pitch float32
}

func NewTargetTracking() *TargetTracking {
	t := &TargetTracking{
		index:    -1,
		front:    mgl32.Vec3{0, 0, 1},
		limitLR:  mgl32.Vec2{70, 70},
		limitUD:  mgl32.Vec2{50, 50},
		tracking: mgl32.Ident4(),
	}
	t.flags.On(TrackingLimitAxisY)
	t.flags.On(TrackingLimitAxisX)
	return t
}

func (t *TargetTracking) Flags() *scene.Status[TrackingBit] { return &t.flags }

// SetTarget tracks o. A nil object falls back to the look-at point.
func (t *TargetTracking) SetTarget(o *scene.Object) *TargetTracking {
	t.target = 0
	t.flags.Off(TrackingObject)
	if o != nil {
		t.target = o.ID()
		t.flags.On(TrackingObject)
	}
	return t
}

func (t *TargetTracking) Target() *scene.Object {
	return resolve(t.Owner(), t.target)
}

// SetTargetDirection tracks a fixed world position.
func (t *TargetTracking) SetTargetDirection(p mgl32.Vec3) *TargetTracking {
	t.lookAt = p
	return t
}

// SetTrackingNode selects the node by name; it is resolved against the model
// on the next PostUpdate.
func (t *TargetTracking) SetTrackingNode(name string) *TargetTracking {
	t.node = name
	t.index = -1
	if m, ok := scene.GetComponent[*Model](t.Owner()); ok {
		t.index = m.NodeIndex(name)
	}
	return t
}

func (t *TargetTracking) SetTrackingNodeIndex(i int) *TargetTracking {
	t.node = ""
	t.index = i
	return t
}

func (t *TargetTracking) SetLimitLR(left, right float32) *TargetTracking {
	t.limitLR = mgl32.Vec2{left, right}
	return t
}

func (t *TargetTracking) SetLimitUD(up, down float32) *TargetTracking {
	t.limitUD = mgl32.Vec2{up, down}
	return t
}

// SetFrontVector sets the node's forward axis in model space.
func (t *TargetTracking) SetFrontVector(v mgl32.Vec3) *TargetTracking {
	t.front = geom.SafeNormalize(v, mgl32.Vec3{0, 0, 1})
	return t
}

// Angles returns the last yaw and pitch in degrees.
func (t *TargetTracking) Angles() (yaw, pitch float32) { return t.yaw, t.pitch }

func (t *TargetTracking) TrackingMatrix() mgl32.Mat4 { return t.tracking }

func (t *TargetTracking) Init() {
	t.ComponentBase.Init()
	t.flags.On(TrackingInitialized)
}

// PreUpdate applies the rotation computed last frame to the node.
func (t *TargetTracking) PreUpdate() {
	if m, ok := scene.GetComponent[*Model](t.Owner()); ok && t.index >= 0 {
		m.SetNodeMatrix(t.index, t.tracking)
	}
}

func (t *TargetTracking) PostUpdate() {
	m, ok := scene.GetComponent[*Model](t.Owner())
	if !ok {
		return
	}
	if t.index < 0 && t.node != "" {
		t.index = m.NodeIndex(t.node)
	}
	base, ok := m.nodeBase(t.index)
	if !ok {
		return
	}

	at := t.lookAt
	if target := t.Target(); target != nil {
		at = target.Translate()
	}

	// Work in the node frame so yaw is about the model's up axis.
	local := geom.TransformPoint(base.Inv(), at)
	frontYaw := math.Atan2(float64(t.front[0]), float64(t.front[2]))
	yaw := mgl32.RadToDeg(float32(math.Atan2(float64(local[0]), float64(local[2])) - frontYaw))
	yaw = wrapDegrees(yaw)
	pitch := mgl32.RadToDeg(float32(math.Atan2(float64(local[1]), math.Hypot(float64(local[0]), float64(local[2])))))

	if t.flags.Is(TrackingLimitAxisY) {
		yaw = mgl32.Clamp(yaw, -t.limitLR[0], t.limitLR[1])
	}
	if t.flags.Is(TrackingLimitAxisX) {
		pitch = mgl32.Clamp(pitch, -t.limitUD[1], t.limitUD[0])
	}

	t.yaw, t.pitch = yaw, pitch
	t.tracking = mgl32.HomogRotate3DY(mgl32.DegToRad(yaw)).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-pitch)))
}

func wrapDegrees(d float32) float32 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

type trackingState struct {
	Flags   uint64     `yaml:"flags"`
	Node    string     `yaml:"node,omitempty"`
	Index   int        `yaml:"index"`
	Front   mgl32.Vec3 `yaml:"front"`
	LookAt  mgl32.Vec3 `yaml:"look_at"`
	LimitLR mgl32.Vec2 `yaml:"limit_lr"`
	LimitUD mgl32.Vec2 `yaml:"limit_ud"`
	Target  string     `yaml:"target,omitempty"`
}

func (t *TargetTracking) SaveState() any {
	return trackingState{
		Flags:   t.flags.Raw(),
		Node:    t.node,
		Index:   t.index,
		Front:   t.front,
		LookAt:  t.lookAt,
		LimitLR: t.limitLR,
		LimitUD: t.limitUD,
		Target:  targetName(t.Target()),
	}
}

func (t *TargetTracking) LoadState(decode func(v any) error) error {
	var st trackingState
	if err := decode(&st); err != nil {
		return err
	}
	t.flags.SetRaw(st.Flags)
	t.node = st.Node
	t.index = st.Index
	t.front = st.Front
	t.lookAt = st.LookAt
	t.limitLR = st.LimitLR
	t.limitUD = st.LimitUD
	t.target = 0
	t.pending = st.Target
	t.tracking = mgl32.Ident4()
	return nil
}

func (t *TargetTracking) InitSerialize() {
	t.ComponentBase.InitSerialize()
	if t.pending != "" {
		t.SetTarget(t.Owner().World().FindObject(t.pending))
		t.pending = ""
	}
}
