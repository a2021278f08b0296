package scene

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"time"
	"weak"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Config tunes a World.
type Config struct {
	// StrictContracts panics on contract violations. When false they are
	// only logged.
	StrictContracts bool
	// LeakCheck reports objects that stay reachable after the scene that
	// owned them has been released.
	LeakCheck bool
	Physics   PhysicsConfig
}

// PhysicsConfig holds the tuning values read by collision components.
type PhysicsConfig struct {
	// Climbable is the minimum |dot(normal, up)| for a surface to count as
	// ground.
	Climbable float32
	// Wall is the dot(normal, up) above which a surface is ignored by the
	// wall sweep.
	Wall float32
	// MoveProbe is the radius used to clip horizontal movement against
	// walls.
	MoveProbe    float32
	MassEpsilon  float32
	Gravity      mgl32.Vec3
	FallbackAxis mgl32.Vec3
}

func DefaultConfig() Config {
	return Config{
		StrictContracts: true,
		LeakCheck:       true,
		Physics: PhysicsConfig{
			Climbable:    0.5,
			Wall:         0.5,
			MoveProbe:    1.5,
			MassEpsilon:  0.001,
			Gravity:      mgl32.Vec3{0, -0.98, 0},
			FallbackAxis: mgl32.Vec3{0, 0, 1},
		},
	}
}

// ContractError is the panic value raised for programming-contract
// violations when StrictContracts is set.
type ContractError struct {
	Detail string
}

func (e *ContractError) Error() string {
	return "scene: contract violation: " + e.Detail
}

// Option configures a World.
type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

func WithConfig(cfg Config) Option {
	return func(w *World) { w.cfg = cfg }
}

// World owns the scene registry, the current scene, the phase buses and the
// object name and handle tables. All methods must be called from one
// goroutine.
type World struct {
	cfg   Config
	log   *zap.Logger
	buses buses
	cmds  commands
	names *nameRegistry

	scenes  map[reflect.Type]Scene
	current Scene
	next    Scene

	objects *intmap.Map[ObjectID, *Object]
	nextID  ObjectID

	paused bool
	step   bool
	time   float64

	tracked           []objectRef
	trackedComponents []componentRef
	leaks             []Leak

	frames    int64
	frameHits int
	lastHits  int
	stages    [stageCount]stageStatsInternal
}

type objectRef struct {
	name string
	ref  weak.Pointer[Object]
}

type componentRef struct {
	name  string
	owner weak.Pointer[Object]
	ref   weak.Pointer[ComponentBase]
}

// NewWorld creates an empty World with no current scene.
func NewWorld(opts ...Option) *World {
	w := &World{
		cfg:     DefaultConfig(),
		log:     zap.NewNop(),
		names:   newNameRegistry(),
		scenes:  make(map[reflect.Type]Scene),
		objects: intmap.New[ObjectID, *Object](256),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Config() Config      { return w.cfg }
func (w *World) Logger() *zap.Logger { return w.log }
func (w *World) Current() Scene      { return w.current }
func (w *World) Time() float64       { return w.time }
func (w *World) IsPause() bool       { return w.paused }

// SetPause stops scene time and update-class hooks of objects that do not
// opt out of pausing.
func (w *World) SetPause(pause bool) { w.paused = pause }

// Step lets one frame run while paused.
func (w *World) Step() { w.step = true }

// Defer queues fn to run after the current frame's reclamation.
func (w *World) Defer(fn func()) { w.cmds.Defer(fn) }

func (w *World) violation(format string, args ...any) {
	detail := fmt.Sprintf(format, args...)
	w.log.Error("contract violation", zap.String("detail", detail))
	if w.cfg.StrictContracts {
		panic(&ContractError{Detail: detail})
	}
}

// CreateOption configures CreateObject and Spawn.
type CreateOption func(*createOptions)

type createOptions struct {
	name           string
	noTransform    bool
	updatePriority Priority
	drawPriority   Priority
}

// WithName sets the requested object name.
func WithName(name string) CreateOption {
	return func(o *createOptions) { o.name = name }
}

// WithoutTransform suppresses the implicit Transform component.
func WithoutTransform() CreateOption {
	return func(o *createOptions) { o.noTransform = true }
}

// WithPriority sets the priorities of the object's update and draw hooks.
func WithPriority(update, draw Priority) CreateOption {
	return func(o *createOptions) {
		o.updatePriority = update
		o.drawPriority = draw
	}
}

// CreateObject allocates a T, adds it to the current scene and calls Init.
func CreateObject[T any, PT interface {
	*T
	Actor
}](w *World, opts ...CreateOption) PT {
	a := PT(new(T))
	w.Spawn(a, opts...)
	return a
}

// Spawn adds an already allocated actor to the current scene and calls its
// Init. An actor whose Init returns false is retried every frame.
func (w *World) Spawn(a Actor, opts ...CreateOption) Actor {
	var co createOptions
	for _, opt := range opts {
		opt(&co)
	}
	if co.name == "" {
		co.name = actorName(a)
	}

	o := w.adopt(a, co.name)
	if o == nil {
		return a
	}
	if !co.noTransform {
		AddComponent(o, NewTransform())
	}
	w.current.sceneBase().preRegister(o, co.updatePriority, co.drawPriority)

	if a.Init() && !o.status.Is(ObjectInitialized) {
		w.violation("%s.Init did not call through to Object.Init", actorName(a))
	}
	return a
}

// Restore adds an actor rebuilt from a snapshot without calling Init. Its
// InitSerialize runs at the next PreUpdate.
func (w *World) Restore(a Actor, name string, status uint64, update, draw Priority) {
	o := w.adopt(a, name)
	if o == nil {
		return
	}
	o.status.SetRaw(status)
	o.status.On(ObjectAlive)
	o.status.Off(ObjectExited)
	o.status.Off(ObjectSerialized)
	o.status.Off(ObjectLocated)
	w.current.sceneBase().preRegister(o, update, draw)
}

func (w *World) adopt(a Actor, name string) *Object {
	if w.current == nil {
		w.violation("creating %s with no current scene", actorName(a))
		return nil
	}
	o := a.Base()
	if o.world != nil {
		w.violation("object %q is already part of a world", o.name)
		return nil
	}

	o.world = w
	o.self = a
	w.nextID++
	o.id = w.nextID
	w.objects.Put(o.id, o)
	o.status.On(ObjectAlive)
	o.SetName(name)
	return o
}

// forget drops an unregistered object from the handle and name tables.
func (w *World) forget(o *Object) {
	w.objects.Del(o.id)
	w.names.release(o.nameDefault, o.nameGen)
	o.nameGen = 0
	o.closed = true
	if !w.cfg.LeakCheck {
		return
	}
	ref := weak.Make(o)
	w.tracked = append(w.tracked, objectRef{name: o.name, ref: ref})
	for _, l := range o.leaks {
		w.trackedComponents = append(w.trackedComponents, componentRef{
			name:  o.name + "/" + l.name,
			owner: ref,
			ref:   l.ref,
		})
	}
}

// Lookup resolves a handle to its object, or nil once the object has been
// unregistered.
func (w *World) Lookup(id ObjectID) *Object {
	o, ok := w.objects.Get(id)
	if !ok {
		return nil
	}
	return o
}

// ObjectCount is the number of objects holding a handle.
func (w *World) ObjectCount() int { return w.objects.Len() }

// Objects iterates the current scene's objects, registered ones first.
func (w *World) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		if w.current == nil {
			return
		}
		b := w.current.sceneBase()
		for _, o := range b.objects {
			if !yield(o) {
				return
			}
		}
		for _, o := range b.pending {
			if !yield(o) {
				return
			}
		}
	}
}

// FindObject returns the object currently named name.
func (w *World) FindObject(name string) *Object {
	for o := range w.Objects() {
		if o.name == name {
			return o
		}
	}
	return nil
}

// FindObjects iterates the current scene's actors of type T.
func FindObjects[T Actor](w *World) iter.Seq[T] {
	return func(yield func(T) bool) {
		for o := range w.Objects() {
			if a, ok := o.Actor().(T); ok {
				if !yield(a) {
					return
				}
			}
		}
	}
}

// ReleaseObject marks a dead; it exits at the end of the frame.
func (w *World) ReleaseObject(a Actor) {
	a.Base().Release()
}

// ReleaseObjectByName releases the object named name.
func (w *World) ReleaseObjectByName(name string) bool {
	if o := w.FindObject(name); o != nil {
		o.Release()
		return true
	}
	return false
}

// SetPriority moves target's built-in hook at t to a new priority. Bound
// subscriptions are rebuilt immediately; an object that is not registered yet
// keeps the priority when it registers.
func (w *World) SetPriority(target ProcOwner, t Timing, priority Priority) {
	p := target.procs()
	p.setSystemPriority(t, priority)
	if a, ok := target.(Actor); ok {
		switch t {
		case TimingUpdate:
			a.Base().updatePriority = priority
		case TimingDraw:
			a.Base().drawPriority = priority
		}
	}
	if p.world != nil {
		p.rebind(&w.buses)
	}
}

func (w *World) fire(t Timing, dt float32) {
	w.cmds.flushRebinds(&w.buses)
	w.buses.fire(t, dt)
}

// running returns the current scene once it has initialized.
func (w *World) running(op string) *SceneBase {
	if w.current == nil {
		w.violation("%s with no current scene", op)
		return nil
	}
	b := w.current.sceneBase()
	if !b.status.Is(SceneInitialized) {
		return nil
	}
	return b
}

// PreUpdate switches scenes when one is staged, initializes the current
// scene, registers new objects, runs pending Init and InitSerialize calls,
// rebinds dirty slots, applies pause and visibility gating and fires the
// PreUpdate phase.
func (w *World) PreUpdate() {
	defer w.measure(stagePreUpdate)()

	if w.next != nil {
		w.switchScene()
	}
	if w.current == nil {
		w.violation("PreUpdate with no current scene")
		return
	}

	cur := w.current
	b := cur.sceneBase()
	if !b.status.Is(SceneInitialized) {
		b.status.Set(SceneInitialized, cur.Init())
		if !b.status.Is(SceneInitialized) {
			return
		}
	}

	b.registerPending()

	if !b.status.Is(SceneSerialized) {
		cur.InitSerialize()
		if !b.status.Is(SceneSerialized) {
			w.violation("%s.InitSerialize did not call through to SceneBase.InitSerialize", sceneName(cur))
		}
	}

	for i := 0; i < len(b.objects); i++ {
		w.prepareObject(b.objects[i])
	}

	w.fire(TimingPreUpdate, 0)
}

func (w *World) prepareObject(o *Object) {
	if o.status.Is(ObjectExited) {
		return
	}
	self := o.Actor()
	paused := w.pausing(o.status.Is(ObjectIsPause), o.status.Is(ObjectDisablePause))

	if !paused {
		if !o.status.Is(ObjectInitialized) {
			if self.Init() && !o.status.Is(ObjectInitialized) {
				w.violation("%s.Init did not call through to Object.Init", actorName(self))
			}
		}
		if o.status.Is(ObjectInitialized) {
			w.serializeObject(o)
		}
	}

	o.Procs.rebind(&w.buses)
	ready := o.status.Is(ObjectInitialized)
	noDraw := o.status.Is(ObjectNoDraw)
	o.gate(!ready, paused || o.status.Is(ObjectNoUpdate), noDraw)

	for _, c := range o.components {
		p := c.procs()
		if p.world == nil || p.closed {
			continue
		}
		st := c.Status()
		p.rebind(&w.buses)
		p.gate(
			!ready || !st.Is(ComponentInitialized),
			paused || st.Is(ComponentNoUpdate) || w.pausing(st.Is(ComponentIsPause), st.Is(ComponentDisablePause)),
			noDraw || st.Is(ComponentNoDraw),
		)
	}
}

func (w *World) pausing(isPause, disablePause bool) bool {
	return isPause || (w.paused && !w.step && !disablePause)
}

// serializeObject runs the one-shot InitSerialize of o and the Init and
// InitSerialize of its components that have not had them yet.
func (w *World) serializeObject(o *Object) {
	self := o.Actor()
	if !o.status.Is(ObjectSerialized) {
		self.InitSerialize()
		if !o.status.Is(ObjectSerialized) {
			w.violation("%s.InitSerialize did not call through to Object.InitSerialize", actorName(self))
		}
		w.fixupSlots(&o.Procs, self, o.name)
	}

	for i := 0; i < len(o.components); i++ {
		c := o.components[i]
		st := c.Status()
		if st.Is(ComponentExited) {
			continue
		}
		if !st.Is(ComponentInitialized) {
			w.registerComponent(c)
			c.Init()
			if !st.Is(ComponentInitialized) {
				w.violation("%s.Init did not call through to ComponentBase.Init", componentName(c))
			}
		}
		if !st.Is(ComponentSerialized) {
			c.InitSerialize()
			if !st.Is(ComponentSerialized) {
				w.violation("%s.InitSerialize did not call through to ComponentBase.InitSerialize", componentName(c))
			}
			w.fixupSlots(c.procs(), c, o.name+"/"+componentName(c))
		}
	}
}

// registerComponent subscribes c's built-in hooks.
func (w *World) registerComponent(c Component) {
	p := c.procs()
	for _, t := range coreTimings {
		p.ensureSystem(c, t)
	}
	p.world = w
	p.rebind(&w.buses)
}

// fixupSlots restores built-in callbacks lost in a save/load cycle and
// reports any slot still left without one.
func (w *World) fixupSlots(p *Procs, h lifecycle, owner string) {
	for _, t := range coreTimings {
		p.ensureSystem(h, t)
	}
	if name, ok := p.unboundSlot(); ok {
		w.violation("process slot %q of %s has no callback after InitSerialize", name, owner)
	}
	p.world = w
	p.rebind(&w.buses)
}

// Update runs the scene's own Update and advances scene time unless paused,
// then fires the Update and LateUpdate phases.
func (w *World) Update(dt float32) {
	defer w.measure(stageUpdate)()

	b := w.running("Update")
	if b == nil {
		return
	}
	if !w.paused || w.step {
		w.current.Update(dt)
		w.time += float64(dt)
	}
	w.fire(TimingUpdate, dt)
	w.fire(TimingLateUpdate, dt)
}

// PrePhysics fires the PrePhysics phase, then runs the collision sweep.
func (w *World) PrePhysics() {
	defer w.measure(stagePrePhysics)()

	b := w.running("PrePhysics")
	if b == nil {
		return
	}
	w.fire(TimingPrePhysics, 0)

	done := w.measure(stageCollisions)
	w.checkCollisions(b.objects)
	done()
}

func (w *World) PostUpdate() {
	defer w.measure(stagePostUpdate)()

	if w.running("PostUpdate") == nil {
		return
	}
	w.fire(TimingPostUpdate, 0)
}

// Draw fires the draw phases, then exits and unregisters released objects
// and reclaims exited components.
func (w *World) Draw() {
	defer w.measure(stageDraw)()

	b := w.running("Draw")
	if b == nil {
		return
	}

	w.current.Draw()
	for _, t := range drawSequence {
		w.fire(t, 0)
	}

	for _, o := range b.objects {
		o.reclaimComponents()
	}
	for i := len(b.objects) - 1; i >= 0; i-- {
		o := b.objects[i]
		if !o.IsAlive() {
			w.exitObject(o)
		}
		if o.status.Is(ObjectExited) {
			b.unregister(o)
		}
	}

	w.cmds.flushDefers()
	w.frames++
	w.lastHits = w.frameHits
	w.frameHits = 0
	w.step = false
}

func (w *World) exitObject(o *Object) {
	if o.status.Is(ObjectExited) {
		return
	}
	self := o.Actor()
	self.Exit()
	if !o.status.Is(ObjectExited) {
		w.violation("%s.Exit did not call through to Object.Exit", actorName(self))
	}
}

// GUI calls the GUI hooks of the scene, its objects and their components.
func (w *World) GUI() {
	b := w.running("GUI")
	if b == nil {
		return
	}
	w.current.GUI()
	for _, o := range b.objects {
		if !o.status.Is(ObjectShowGUI) {
			continue
		}
		self := o.Actor()
		o.status.Off(ObjectCalledGUI)
		self.GUI()
		if !o.status.Is(ObjectCalledGUI) {
			w.violation("%s.GUI did not call through to Object.GUI", actorName(self))
		}
		for c := range o.Components() {
			if c.Status().Is(ComponentShowGUI) {
				c.GUI()
			}
		}
	}
}

// Frame runs one full frame.
func (w *World) Frame(dt float32) {
	w.PreUpdate()
	w.Update(dt)
	w.PrePhysics()
	w.PostUpdate()
	w.Draw()
}

// Run executes frames at the given interval until the context is cancelled.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			w.Frame(float32(dt))
		}
	}
}

// Exit tears down the current scene and every registered scene.
func (w *World) Exit() {
	if w.current != nil {
		w.current.Exit()
		w.current.sceneBase().exitAll()
	}
	w.current = nil
	w.next = nil
	clear(w.scenes)
	w.cmds.reset()
	w.names.reset()
	w.tracked = nil
	w.trackedComponents = nil
}
