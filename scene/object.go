package scene

import (
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/go-gl/mathgl/mgl32"
)

// ObjectBit is an object lifecycle or behaviour flag.
type ObjectBit uint8

const (
	ObjectAlive ObjectBit = iota
	ObjectInitialized
	ObjectSerialized
	ObjectNoUpdate
	ObjectNoDraw
	ObjectDisablePause
	ObjectIsPause
	ObjectShowGUI
	ObjectLocated
	ObjectExited
	ObjectCalledGUI
)

// ObjectID is a stable handle for an object. World.Lookup resolves it while
// the object is registered.
type ObjectID uint64

// Actor is implemented by every type embedding Object. Overrides of Init,
// Exit, GUI and InitSerialize must call through to the embedded Object.
type Actor interface {
	ProcOwner
	lifecycle
	Base() *Object
	Init() bool
	Exit()
	GUI()
	InitSerialize()
	OnHit(hit HitInfo)
}

// Object is a named entity owning an ordered list of components. Gameplay
// types embed it and are created with CreateObject.
type Object struct {
	Procs

	world *World
	self  Actor
	id    ObjectID

	name        string
	nameDefault string
	nameGen     uint64

	status     Status[ObjectBit]
	components []Component
	transform  *Transform
	gravity    mgl32.Vec3

	updatePriority Priority
	drawPriority   Priority

	leaks []componentLeak
}

func (o *Object) Base() *Object { return o }

// Actor returns the outermost value the object was created as, so hooks
// dispatch to overrides.
func (o *Object) Actor() Actor {
	if o.self == nil {
		return o
	}
	return o.self
}

func (o *Object) ID() ObjectID               { return o.id }
func (o *Object) World() *World              { return o.world }
func (o *Object) Name() string               { return o.name }
func (o *Object) NameDefault() string        { return o.nameDefault }
func (o *Object) Status() *Status[ObjectBit] { return &o.status }
func (o *Object) IsAlive() bool              { return o.status.Is(ObjectAlive) }
func (o *Object) UpdatePriority() Priority   { return o.updatePriority }
func (o *Object) DrawPriority() Priority     { return o.drawPriority }
func (o *Object) Transform() *Transform      { return o.transform }
func (o *Object) Gravity() mgl32.Vec3        { return o.gravity }
func (o *Object) SetGravity(g mgl32.Vec3)    { o.gravity = g }

// SetName replaces the object's name. The requested name becomes the default
// name and is suffixed with _N while other objects hold it.
func (o *Object) SetName(name string) *Object {
	if o.world == nil {
		o.name = name
		o.nameDefault = name
		return o
	}
	if o.nameDefault != "" {
		o.world.names.release(o.nameDefault, o.nameGen)
	}
	o.nameDefault = name
	o.name, o.nameGen = o.world.names.reserve(name)
	return o
}

// Release marks the object dead. It exits and is unregistered at the end of
// the frame.
func (o *Object) Release() {
	o.status.Off(ObjectAlive)
}

func (o *Object) Init() bool {
	o.status.On(ObjectShowGUI)
	o.status.On(ObjectInitialized)
	o.status.Off(ObjectSerialized)
	return true
}

func (o *Object) Update(dt float32)     {}
func (o *Object) LateUpdate(dt float32) {}
func (o *Object) PreDraw()              {}
func (o *Object) Draw()                 {}
func (o *Object) LateDraw()             {}
func (o *Object) PostDraw()             {}

// PreUpdate pins the previous-frame matrix on the first frame so movement
// deltas start at zero.
func (o *Object) PreUpdate() {
	if !o.status.Is(ObjectLocated) && o.transform != nil {
		o.transform.PostUpdate()
	}
}

// PrePhysics applies the pending gravity offset.
func (o *Object) PrePhysics() {
	if o.gravity != (mgl32.Vec3{}) {
		o.AddTranslate(o.gravity)
		o.gravity = mgl32.Vec3{}
	}
}

func (o *Object) PostUpdate() {
	o.status.On(ObjectLocated)
}

func (o *Object) Exit() {
	o.status.Off(ObjectAlive)
	o.status.On(ObjectExited)
	o.closed = true
}

func (o *Object) GUI() {
	o.status.On(ObjectCalledGUI)
}

func (o *Object) InitSerialize() {
	o.status.On(ObjectSerialized)
}

// OnHit moves the object by the push vector of a collision.
func (o *Object) OnHit(hit HitInfo) {
	o.AddTranslate(hit.Push)
}

func (o *Object) Matrix() mgl32.Mat4 {
	if o.transform == nil {
		return mgl32.Ident4()
	}
	return o.transform.Matrix()
}

func (o *Object) SetMatrix(m mgl32.Mat4) *Object {
	if o.requireTransform("SetMatrix") {
		o.transform.SetMatrix(m)
	}
	return o
}

func (o *Object) Translate() mgl32.Vec3 {
	return o.Matrix().Col(3).Vec3()
}

func (o *Object) SetTranslate(v mgl32.Vec3) *Object {
	if o.requireTransform("SetTranslate") {
		o.transform.SetTranslate(v)
	}
	return o
}

func (o *Object) AddTranslate(v mgl32.Vec3) *Object {
	if o.requireTransform("AddTranslate") {
		o.transform.AddTranslate(v)
	}
	return o
}

func (o *Object) WorldMatrix() mgl32.Mat4 { return o.Matrix() }

func (o *Object) OldWorldMatrix() mgl32.Mat4 {
	if o.transform == nil {
		return mgl32.Ident4()
	}
	return o.transform.OldWorldMatrix()
}

func (o *Object) requireTransform(op string) bool {
	if o.transform != nil {
		return true
	}
	o.violation("%s on %q: object has no transform", op, o.name)
	return false
}

// exitComponent runs the component's Exit and stops its hooks at once.
func (o *Object) exitComponent(c Component) {
	if !c.Status().Is(ComponentExited) {
		c.Exit()
		if !c.Status().Is(ComponentExited) {
			o.violation("%s.Exit did not call through to ComponentBase.Exit", componentName(c))
		}
	}
	c.procs().closed = true
	c.procs().unbindAll()
}

// reclaimComponents drops exited components from the list and tracks them
// as potential leaks.
func (o *Object) reclaimComponents() {
	if !slices.ContainsFunc(o.components, isExited) {
		return
	}
	o.components = slices.DeleteFunc(o.components, func(c Component) bool {
		if !isExited(c) {
			return false
		}
		o.leaks = append(o.leaks, componentLeak{
			name: componentName(c),
			ref:  weak.Make(c.componentBase()),
		})
		if c == Component(o.transform) {
			o.transform = nil
		}
		return true
	})
}

func isExited(c Component) bool { return c.Status().Is(ComponentExited) }

// liveComponentLeaks lists reclaimed components that are still reachable.
func (o *Object) liveComponentLeaks() []string {
	var names []string
	for _, l := range o.leaks {
		if l.ref.Value() != nil {
			names = append(names, l.name)
		}
	}
	return names
}

// Components iterates live components in attachment order.
func (o *Object) Components() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		for _, c := range o.components {
			if isExited(c) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func actorName(a Actor) string {
	t := reflect.TypeOf(a)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
