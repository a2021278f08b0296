package scene_test

import (
	"github.com/plus3/scenery/scene"
)

type arena struct {
	scene.SceneBase
	inits int
}

func (a *arena) Init() bool {
	a.inits++
	return true
}

type lobby struct {
	scene.SceneBase
	exited bool
}

func (l *lobby) Exit() { l.exited = true }

// newWorld returns a world whose current scene is an arena.
func newWorld(opts ...scene.Option) (*scene.World, *arena) {
	w := scene.NewWorld(opts...)
	a := scene.Change[arena](w)
	return w, a
}

// tracer records every hook it receives into a shared log.
type tracer struct {
	scene.Object
	tag string
	log *[]string
}

func (p *tracer) record(event string) {
	if p.log != nil {
		*p.log = append(*p.log, p.tag+":"+event)
	}
}

func (p *tracer) Update(dt float32) { p.record("update") }
func (p *tracer) Draw()             { p.record("draw") }

func spawnTracer(w *scene.World, tag string, log *[]string, opts ...scene.CreateOption) *tracer {
	opts = append([]scene.CreateOption{scene.WithName(tag)}, opts...)
	p := scene.CreateObject[tracer](w, opts...)
	p.tag = tag
	p.log = log
	return p
}

// counter is a component counting its update and draw hooks.
type counter struct {
	scene.ComponentBase
	updates int
	draws   int
}

func (c *counter) Update(dt float32) {
	c.ComponentBase.Update(dt)
	c.updates++
}

func (c *counter) Draw() { c.draws++ }

func catchContract(fn func()) (err *scene.ContractError) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*scene.ContractError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}
