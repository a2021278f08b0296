package scene

import (
	"iter"
	"reflect"
	"slices"
)

// SceneBit is a scene lifecycle flag.
type SceneBit uint8

const (
	SceneInitialized SceneBit = iota
	SceneSerialized
	SceneAliveInAnotherScene
)

// Scene is a game scene. Implementations embed SceneBase. Init may return
// false to be retried on the next frame.
type Scene interface {
	Init() bool
	Update(dt float32)
	Draw()
	Exit()
	GUI()
	InitSerialize()
	sceneBase() *SceneBase
}

// SceneBase owns a scene's objects and their registration state.
type SceneBase struct {
	world   *World
	status  Status[SceneBit]
	objects []*Object
	pending []*Object
}

func (s *SceneBase) sceneBase() *SceneBase { return s }

func (s *SceneBase) World() *World                 { return s.world }
func (s *SceneBase) Status() *Status[SceneBit]     { return &s.status }
func (s *SceneBase) Init() bool                    { return true }
func (s *SceneBase) Update(dt float32)             {}
func (s *SceneBase) Draw()                         {}
func (s *SceneBase) Exit()                         {}
func (s *SceneBase) GUI()                          {}
func (s *SceneBase) InitSerialize()                { s.status.On(SceneSerialized) }
func (s *SceneBase) ObjectCount() int              { return len(s.objects) }
func (s *SceneBase) PendingCount() int             { return len(s.pending) }
func (s *SceneBase) AliveInAnotherScene() bool     { return s.status.Is(SceneAliveInAnotherScene) }
func (s *SceneBase) SetAliveInAnotherScene(b bool) { s.status.Set(SceneAliveInAnotherScene, b) }

// Objects iterates the fully registered objects in registration order.
func (s *SceneBase) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, o := range s.objects {
			if !yield(o) {
				return
			}
		}
	}
}

// preRegister reserves the object's place without subscribing it to any
// phase. Subscription happens at the next PreUpdate.
func (s *SceneBase) preRegister(o *Object, update, draw Priority) {
	o.updatePriority = update
	o.drawPriority = draw
	s.pending = append(s.pending, o)
}

// registerPending subscribes every pre-registered object.
func (s *SceneBase) registerPending() {
	if len(s.pending) == 0 {
		return
	}
	pending := s.pending
	s.pending = nil
	for _, o := range pending {
		if o.status.Is(ObjectExited) {
			s.unregister(o)
			continue
		}
		s.register(o)
	}
}

func (s *SceneBase) register(o *Object) {
	self := o.Actor()
	for _, t := range coreTimings {
		existed := o.hasSystem(t)
		o.ensureSystem(self, t)
		if existed {
			continue
		}
		if t.IsDraw() {
			o.setSystemPriority(t, o.drawPriority)
		} else {
			o.setSystemPriority(t, o.updatePriority)
		}
	}
	o.Procs.world = s.world
	o.Procs.rebind(&s.world.buses)
	s.objects = append(s.objects, o)
}

// unregister tears an exited object down and removes it from the scene.
// Objects that never left pre-registration are handled too.
func (s *SceneBase) unregister(o *Object) {
	o.unbindAll()
	for _, c := range o.components {
		o.exitComponent(c)
		c.componentBase().owner = nil
	}
	o.reclaimComponents()
	o.Procs.world = nil

	if i := slices.Index(s.objects, o); i >= 0 {
		s.objects = slices.Delete(s.objects, i, i+1)
	}
	s.world.forget(o)
}

// exitAll exits and unregisters every object, pending ones included.
func (s *SceneBase) exitAll() {
	for _, o := range s.pending {
		s.world.exitObject(o)
		s.unregister(o)
	}
	s.pending = nil

	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		s.world.exitObject(o)
		s.unregister(o)
	}
	s.objects = nil
	s.status.Off(SceneInitialized)
	s.status.Off(SceneSerialized)
}

func sceneType(sc Scene) reflect.Type {
	return reflect.TypeOf(sc)
}

func sceneName(sc Scene) string {
	t := reflect.TypeOf(sc)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
