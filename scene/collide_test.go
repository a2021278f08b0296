package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenery/scene"
)

// box is a collider that always overlaps anything in its group and splits
// the push evenly.
type box struct {
	scene.ComponentBase
	group string
	hits  []scene.HitInfo
}

func (b *box) IsGroupHit(other scene.Collider) bool {
	o, ok := other.(*box)
	return ok && o.group == b.group
}

func (b *box) IsHit(other scene.Collider) scene.HitInfo {
	return scene.HitInfo{Hit: true, Push: mgl32.Vec3{1, 0, 0}, Position: mgl32.Vec3{0, 1, 0}}
}

func (b *box) CalcPush(other scene.Collider, push mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3, bool) {
	return push.Mul(0.5), push.Mul(-0.5), true
}

func (b *box) OnHit(hit scene.HitInfo) {
	b.hits = append(b.hits, hit)
	b.Owner().Actor().OnHit(hit)
}

func spawnBox(w *scene.World, name, group string) (*scene.Object, *box) {
	o := scene.CreateObject[scene.Object](w, scene.WithName(name))
	b := scene.AddComponent(o, &box{group: group})
	b.Status().On(scene.ComponentSameType)
	return o, b
}

func TestCollisionSweep(t *testing.T) {
	t.Run("both sides receive the hit", func(t *testing.T) {
		w, _ := newWorld()
		oa, a := spawnBox(w, "a", "g")
		ob, b := spawnBox(w, "b", "g")

		w.Frame(0.1)

		require.Len(t, a.hits, 1)
		require.Len(t, b.hits, 1)
		assert.Same(t, a, a.hits[0].Collision)
		assert.Same(t, b, a.hits[0].HitCollision)
		assert.Same(t, b, b.hits[0].Collision)
		assert.Same(t, a, b.hits[0].HitCollision)
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, b.hits[0].Position)

		assert.Equal(t, mgl32.Vec3{0.5, 0, 0}, oa.Translate())
		assert.Equal(t, mgl32.Vec3{-0.5, 0, 0}, ob.Translate())
		assert.Equal(t, 1, w.Stats().LastHits)
	})

	t.Run("group filter", func(t *testing.T) {
		w, _ := newWorld()
		_, a := spawnBox(w, "a", "g")
		_, b := spawnBox(w, "b", "h")

		w.Frame(0.1)

		assert.Empty(t, a.hits)
		assert.Empty(t, b.hits)
	})

	t.Run("colliders on one object never meet", func(t *testing.T) {
		w, _ := newWorld()
		o, a := spawnBox(w, "a", "g")
		extra := &box{group: "g"}
		extra.Status().On(scene.ComponentSameType)
		scene.AddComponent(o, extra)

		w.Frame(0.1)

		assert.Empty(t, a.hits)
		assert.Empty(t, extra.hits)
	})

	t.Run("every pair once", func(t *testing.T) {
		w, _ := newWorld()
		_, a := spawnBox(w, "a", "g")
		_, b := spawnBox(w, "b", "g")
		_, c := spawnBox(w, "c", "g")

		w.Frame(0.1)

		assert.Len(t, a.hits, 2)
		assert.Len(t, b.hits, 2)
		assert.Len(t, c.hits, 2)
		assert.Equal(t, 3, w.Stats().LastHits)
	})

	t.Run("uninitialized objects are skipped", func(t *testing.T) {
		w, _ := newWorld()
		_, a := spawnBox(w, "a", "g")
		s := scene.CreateObject[slowLoader](w)
		b := scene.AddComponent(s.Base(), &box{group: "g"})

		w.Frame(0.1)

		assert.Empty(t, a.hits)
		assert.Empty(t, b.hits)
	})
}
