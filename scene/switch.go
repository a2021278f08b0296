package scene

import (
	"reflect"
	"runtime"

	"go.uber.org/zap"
)

// Leak describes an entity that stayed reachable after its scene was
// released.
type Leak struct {
	// Object is the object name. It is empty when only components leaked.
	Object string
	// Components lists leaked component types, prefixed with the owner name.
	Components []string
}

// GetScene returns the registered scene of type PT, creating and registering
// it on first use.
func GetScene[T any, PT interface {
	*T
	Scene
}](w *World) PT {
	if s, ok := w.scenes[reflect.TypeFor[PT]()]; ok {
		return s.(PT)
	}
	s := PT(new(T))
	w.registerScene(s)
	return s
}

// Change stages the scene of type PT, reusing a registered instance.
func Change[T any, PT interface {
	*T
	Scene
}](w *World) PT {
	s := GetScene[T, PT](w)
	w.SetNextScene(s)
	return s
}

// Change stages s as the next scene. A registered scene of the same type is
// used in place of s.
func (w *World) Change(s Scene) Scene {
	if existing, ok := w.scenes[sceneType(s)]; ok {
		s = existing
	} else {
		w.registerScene(s)
	}
	w.SetNextScene(s)
	return s
}

func (w *World) registerScene(s Scene) {
	key := sceneType(s)
	if existing, ok := w.scenes[key]; ok && existing != s {
		w.violation("a %s scene is already registered", sceneName(s))
		return
	}
	s.sceneBase().world = w
	w.scenes[key] = s
}

// ReleaseScene removes s from the registry. The current scene keeps running
// until the next switch.
func (w *World) ReleaseScene(s Scene) {
	key := sceneType(s)
	if w.scenes[key] == s {
		delete(w.scenes, key)
	}
}

// HasScene reports whether s is in the registry.
func (w *World) HasScene(s Scene) bool {
	return w.scenes[sceneType(s)] == s
}

// SceneCount is the number of registered scenes.
func (w *World) SceneCount() int { return len(w.scenes) }

// SetNextScene stages s. With no current scene s becomes current at once;
// otherwise the switch happens at the next PreUpdate. The current scene is
// released from the registry unless it is alive in another scene. Object
// names are reset.
func (w *World) SetNextScene(s Scene) {
	if existing, ok := w.scenes[sceneType(s)]; ok && existing != s {
		w.violation("a %s scene is already registered", sceneName(s))
		return
	}
	if s.sceneBase().world == nil {
		s.sceneBase().world = w
	}
	if w.current != nil && !w.current.sceneBase().AliveInAnotherScene() {
		w.ReleaseScene(w.current)
	}

	if w.current == nil {
		w.current = s
	} else {
		w.next = s
	}
	w.names.reset()
}

// switchScene exits the current scene, tears down its objects and makes the
// staged scene current.
func (w *World) switchScene() {
	old := w.current
	released := !w.HasScene(old)

	old.Exit()
	old.sceneBase().exitAll()

	w.current, w.next = w.next, nil
	w.paused = false
	w.step = false
	w.time = 0

	w.log.Info("scene changed",
		zap.String("from", sceneName(old)),
		zap.String("to", sceneName(w.current)))

	if released && w.cfg.LeakCheck {
		w.collectLeaks()
	}
	w.tracked = nil
	w.trackedComponents = nil
}

// collectLeaks reports objects and components that are still reachable
// after teardown.
func (w *World) collectLeaks() {
	runtime.GC()

	w.leaks = w.leaks[:0]
	for _, t := range w.tracked {
		o := t.ref.Value()
		if o == nil {
			continue
		}
		leak := Leak{Object: t.name}
		for _, name := range o.liveComponentLeaks() {
			leak.Components = append(leak.Components, t.name+"/"+name)
		}
		w.leaks = append(w.leaks, leak)
	}
	for _, c := range w.trackedComponents {
		if c.owner.Value() != nil {
			continue
		}
		if c.ref.Value() != nil {
			w.leaks = append(w.leaks, Leak{Components: []string{c.name}})
		}
	}

	for _, l := range w.leaks {
		w.log.Warn("leaked after scene release",
			zap.String("object", l.Object),
			zap.Strings("components", l.Components))
	}
}

// Leaks returns the diagnostics of the last leak check.
func (w *World) Leaks() []Leak {
	return append([]Leak(nil), w.leaks...)
}
