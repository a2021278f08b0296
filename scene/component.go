package scene

import (
	"iter"
	"reflect"
	"weak"
)

// ComponentBit is a component lifecycle or behaviour flag.
type ComponentBit uint8

const (
	ComponentAlive ComponentBit = iota
	ComponentChangePrio
	ComponentShowGUI
	ComponentInitialized
	ComponentNoUpdate
	ComponentNoDraw
	ComponentDisablePause
	ComponentIsPause
	ComponentSameType
	ComponentExited
	ComponentSerialized
)

// Component is an attachable behaviour owned by exactly one Object.
// Implementations embed ComponentBase and override the hooks they need;
// overrides of Init, Exit and InitSerialize must call through to the
// embedded base.
type Component interface {
	ProcOwner
	lifecycle
	Owner() *Object
	Status() *Status[ComponentBit]
	Init()
	Exit()
	GUI()
	InitSerialize()
	componentBase() *ComponentBase
}

// Attacher is implemented by components that need their owner as soon as
// they are added, before Init runs.
type Attacher interface {
	Attached()
}

// StateSaver is implemented by objects and components whose fields survive a
// save/load cycle. decode fills v from the stored state.
type StateSaver interface {
	SaveState() any
	LoadState(decode func(v any) error) error
}

// ComponentBase carries the bookkeeping every component shares.
type ComponentBase struct {
	Procs
	owner  *Object
	status Status[ComponentBit]
	delta  float32
}

func (c *ComponentBase) componentBase() *ComponentBase { return c }

// Owner is the object the component is attached to, or nil once that object
// has been unregistered.
func (c *ComponentBase) Owner() *Object { return c.owner }

func (c *ComponentBase) Status() *Status[ComponentBit] { return &c.status }

// Delta is the frame delta cached by the last Update or LateUpdate.
func (c *ComponentBase) Delta() float32 { return c.delta }

func (c *ComponentBase) Init() {
	c.status.Off(ComponentSerialized)
	c.status.On(ComponentShowGUI)
	c.status.On(ComponentInitialized)
}

func (c *ComponentBase) Update(dt float32)     { c.delta = dt }
func (c *ComponentBase) LateUpdate(dt float32) { c.delta = dt }
func (c *ComponentBase) PreUpdate()            {}
func (c *ComponentBase) PrePhysics()           {}
func (c *ComponentBase) PostUpdate()           {}
func (c *ComponentBase) PreDraw()              {}
func (c *ComponentBase) Draw()                 {}
func (c *ComponentBase) LateDraw()             {}
func (c *ComponentBase) PostDraw()             {}
func (c *ComponentBase) GUI()                  {}

func (c *ComponentBase) Exit() {
	c.status.Off(ComponentAlive)
	c.status.On(ComponentExited)
	c.closed = true
}

func (c *ComponentBase) InitSerialize() {
	c.status.On(ComponentSerialized)
}

type componentLeak struct {
	name string
	ref  weak.Pointer[ComponentBase]
}

func componentName(c Component) string {
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// AddComponent attaches c to o and returns it. Unless c opts into
// ComponentSameType, an existing component of the same concrete type is
// returned instead and c is discarded.
func AddComponent[T Component](o *Object, c T) T {
	if !c.Status().Is(ComponentSameType) {
		ct := reflect.TypeOf(c)
		for _, existing := range o.components {
			if reflect.TypeOf(existing) == ct && !existing.Status().Is(ComponentExited) {
				return existing.(T)
			}
		}
	}

	base := c.componentBase()
	base.owner = o
	base.status.On(ComponentAlive)
	o.attach(c)
	return c
}

// RestoreComponent attaches a component rebuilt from a snapshot. Init runs
// only if the recorded status says it never did; InitSerialize always runs
// at the next PreUpdate.
func RestoreComponent(o *Object, c Component, status uint64) {
	base := c.componentBase()
	base.owner = o
	base.status.SetRaw(status)
	base.status.On(ComponentAlive)
	base.status.Off(ComponentExited)
	base.status.Off(ComponentSerialized)
	o.attach(c)
}

func (o *Object) attach(c Component) {
	o.components = append(o.components, c)
	if t, ok := c.(*Transform); ok && o.transform == nil {
		o.transform = t
	}
	if a, ok := c.(Attacher); ok {
		a.Attached()
	}
}

// GetComponent returns the first live component of o assignable to T. T may be
// a concrete pointer type or an interface.
func GetComponent[T any](o *Object) (T, bool) {
	for _, c := range o.components {
		if c.Status().Is(ComponentExited) {
			continue
		}
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Components iterates the live components of o assignable to T.
func Components[T any](o *Object) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, c := range o.components {
			if c.Status().Is(ComponentExited) {
				continue
			}
			if v, ok := c.(T); ok {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// RemoveComponent exits the first live component assignable to T. Its hooks
// stop immediately; storage is reclaimed at the end of the frame.
func RemoveComponent[T any](o *Object) bool {
	for _, c := range o.components {
		if c.Status().Is(ComponentExited) {
			continue
		}
		if _, ok := c.(T); ok {
			o.exitComponent(c)
			return true
		}
	}
	return false
}
