package persist

import (
	"reflect"

	"github.com/plus3/scenery/collision"
	"github.com/plus3/scenery/component"
	"github.com/plus3/scenery/scene"
)

// Registry maps the type names stored in a snapshot to factories. Every
// actor and component type in a saved world must be registered.
type Registry struct {
	actors     map[string]func() scene.Actor
	components map[string]func() scene.Component
	names      map[reflect.Type]string
}

func NewRegistry() *Registry {
	return &Registry{
		actors:     make(map[string]func() scene.Actor),
		components: make(map[string]func() scene.Component),
		names:      make(map[reflect.Type]string),
	}
}

// DefaultRegistry knows the plain Object and every component this module
// ships.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Actor("object", func() scene.Actor { return &scene.Object{} })
	r.Component("transform", func() scene.Component { return scene.NewTransform() })
	r.Component("collision.capsule", func() scene.Component { return collision.NewCapsule(1, 3) })
	r.Component("collision.sphere", func() scene.Component { return collision.NewSphere(1) })
	r.Component("collision.model", func() scene.Component { return collision.NewModel() })
	r.Component("model", func() scene.Component { return component.NewModel(nil) })
	r.Component("camera", func() scene.Component { return component.NewCamera() })
	r.Component("spring_arm", func() scene.Component { return component.NewSpringArm() })
	r.Component("target_tracking", func() scene.Component { return component.NewTargetTracking() })
	return r
}

// Actor registers an actor factory under name.
func (r *Registry) Actor(name string, fn func() scene.Actor) {
	r.actors[name] = fn
	r.names[reflect.TypeOf(fn())] = name
}

// Component registers a component factory under name.
func (r *Registry) Component(name string, fn func() scene.Component) {
	r.components[name] = fn
	r.names[reflect.TypeOf(fn())] = name
}

func (r *Registry) nameOf(v any) (string, bool) {
	name, ok := r.names[reflect.TypeOf(v)]
	return name, ok
}
