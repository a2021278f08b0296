package main

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/collision"
	"github.com/plus3/scenery/component"
	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

// arenaHalf is the half extent of the square the bouncers stay in.
const arenaHalf = 50

type arena struct {
	scene.SceneBase
}

type drain struct {
	scene.SceneBase
}

// bouncer walks in a straight line, turns back at the arena edge and counts
// the hits it takes.
type bouncer struct {
	scene.Object
	velocity mgl32.Vec3
	hits     int
}

func (b *bouncer) Update(dt float32) {
	b.AddTranslate(b.velocity.Mul(dt))
	p := b.Translate()
	for _, axis := range [...]int{0, 2} {
		if (p[axis] < -arenaHalf && b.velocity[axis] < 0) || (p[axis] > arenaHalf && b.velocity[axis] > 0) {
			b.velocity[axis] = -b.velocity[axis]
		}
	}
}

func (b *bouncer) OnHit(hit scene.HitInfo) {
	b.Object.OnHit(hit)
	b.hits++
}

type bouncerState struct {
	Velocity mgl32.Vec3 `yaml:"velocity"`
	Hits     int        `yaml:"hits"`
}

func (b *bouncer) SaveState() any { return bouncerState{Velocity: b.velocity, Hits: b.hits} }

func (b *bouncer) LoadState(decode func(v any) error) error {
	var st bouncerState
	if err := decode(&st); err != nil {
		return err
	}
	b.velocity, b.hits = st.Velocity, st.Hits
	return nil
}

func spawnGround(w *scene.World) {
	ground := scene.CreateObject[scene.Object](w, scene.WithName("ground"))
	scene.AddComponent(ground, component.NewModel(geom.Plane(arenaHalf*2, 0)))
	scene.AddComponent(ground, collision.NewModel())
}

// spawnBouncer places a capsule or sphere bouncer at a random spot. Every
// third one falls under gravity onto the ground.
func spawnBouncer(w *scene.World, rng *rand.Rand, i int) *bouncer {
	b := scene.CreateObject[bouncer](w, scene.WithName("bouncer"))
	b.SetTranslate(mgl32.Vec3{
		(rng.Float32()*2 - 1) * arenaHalf,
		rng.Float32() * 2,
		(rng.Float32()*2 - 1) * arenaHalf,
	})
	b.velocity = mgl32.Vec3{rng.Float32()*8 - 4, 0, rng.Float32()*8 - 4}

	var body interface {
		SetGroup(collision.Group)
		SetMass(float32)
		UseGravity(bool)
	}
	if i%2 == 0 {
		body = scene.AddComponent(&b.Object, collision.NewCapsule(0.5, 2))
	} else {
		body = scene.AddComponent(&b.Object, collision.NewSphere(0.5))
	}
	body.SetGroup(collision.GroupEnemy)
	body.SetMass(1 + rng.Float32())
	body.UseGravity(i%3 == 0)
	return b
}
