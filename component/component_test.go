package component_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenery/collision"
	"github.com/plus3/scenery/component"
	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

type stage struct {
	scene.SceneBase
}

func newWorld() *scene.World {
	w := scene.NewWorld()
	scene.Change[stage](w)
	return w
}

func spawn(w *scene.World, name string, pos mgl32.Vec3) *scene.Object {
	o := scene.CreateObject[scene.Object](w, scene.WithName(name))
	o.SetTranslate(pos)
	return o
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-3), "want %v, got %v", want, got)
}

func TestModel(t *testing.T) {
	w := newWorld()
	o := spawn(w, "crate", mgl32.Vec3{5, 0, 0})
	m := scene.AddComponent(o, component.NewModel(geom.Box(mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{1, 3, 1})))

	t.Run("world mesh follows the owner", func(t *testing.T) {
		first := m.WorldMesh()
		lo, hi := first.Bounds()
		assertVec(t, mgl32.Vec3{4, 1, -1}, lo)
		assertVec(t, mgl32.Vec3{6, 3, 1}, hi)
		assert.Same(t, first, m.WorldMesh(), "unchanged matrix reuses the cache")

		o.SetTranslate(mgl32.Vec3{0, 0, 0})
		lo, _ = m.WorldMesh().Bounds()
		assertVec(t, mgl32.Vec3{-1, 1, -1}, lo)
	})

	t.Run("nodes", func(t *testing.T) {
		assert.Equal(t, []string{"box"}, m.NodesName())
		assert.Equal(t, 0, m.NodeIndex("box"))
		assert.Equal(t, -1, m.NodeIndex("missing"))

		node, ok := m.NodePosition("box")
		require.True(t, ok)
		assertVec(t, mgl32.Vec3{0, 2, 0}, node.Col(3).Vec3())

		_, ok = m.NodeMatrix(3)
		assert.False(t, ok)

		m.SetNodeMatrix(0, mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
		node, _ = m.NodeMatrix(0)
		assertVec(t, mgl32.Vec3{1, 0, 0}, node.Col(2).Vec3())
		assertVec(t, mgl32.Vec3{0, 2, 0}, node.Col(3).Vec3())

		m.SetNodeMatrix(0, mgl32.Ident4())
		node, _ = m.NodeMatrix(0)
		assertVec(t, mgl32.Vec3{0, 0, 1}, node.Col(2).Vec3())
	})
}

func TestModelAsGround(t *testing.T) {
	w := newWorld()
	level := spawn(w, "level", mgl32.Vec3{})
	scene.AddComponent(level, component.NewModel(geom.Plane(20, 0)))
	scene.AddComponent(level, collision.NewModel())

	player := spawn(w, "player", mgl32.Vec3{1, 0.5, 2})
	body := scene.AddComponent(player, collision.NewCapsule(0.5, 2))
	body.UseGravity(true)

	for i := 0; i < 60; i++ {
		w.Frame(1.0 / 60)
	}

	assertVec(t, mgl32.Vec3{1, 0, 2}, player.Translate())
	assert.True(t, body.IsGround())
}

func TestSpringArm(t *testing.T) {
	w := newWorld()
	target := spawn(w, "target", mgl32.Vec3{})
	cam := spawn(w, "cam", mgl32.Vec3{})
	arm := scene.AddComponent(cam, component.NewSpringArm())
	arm.SetTarget(target).SetOffset(mgl32.Vec3{})

	w.Frame(0.1)

	t.Run("runs last in PreUpdate and first in PostUpdate", func(t *testing.T) {
		priorities := map[scene.Timing]scene.Priority{}
		for info := range arm.ProcInfos() {
			priorities[info.Timing] = info.Priority
		}
		assert.Equal(t, scene.PriorityLowest, priorities[scene.TimingPreUpdate])
		assert.Equal(t, scene.PriorityHighest, priorities[scene.TimingPostUpdate])
		assert.True(t, arm.Flags().Is(component.SpringArmInitialized))
	})

	t.Run("sits on the arm looking at the target", func(t *testing.T) {
		assertVec(t, mgl32.Vec3{0, 3, 10}, cam.Translate())
		assertVec(t, mgl32.Vec3{0, -3, -10}.Normalize(), cam.Matrix().Col(2).Vec3())
	})

	t.Run("arm is in the target's frame", func(t *testing.T) {
		target.SetTranslate(mgl32.Vec3{5, 0, 0})
		w.Frame(0.1)
		assertVec(t, mgl32.Vec3{5, 3, 10}, cam.Translate())
	})

	t.Run("offset raises the look-at point", func(t *testing.T) {
		arm.SetOffset(mgl32.Vec3{0, 3, 0})
		w.Frame(0.1)
		assert.Greater(t, cam.Matrix().Col(2).Y(), float32(-3.0/10.44))
	})

	t.Run("target gone leaves the owner in place", func(t *testing.T) {
		w.ReleaseObject(target)
		w.Frame(0.1)
		at := cam.Translate()
		w.Frame(0.1)
		assert.Nil(t, arm.Target())
		assertVec(t, at, cam.Translate())
	})
}

func TestTargetTracking(t *testing.T) {
	setup := func(t *testing.T, at mgl32.Vec3) (*component.Model, *component.TargetTracking) {
		t.Helper()
		w := newWorld()
		o := spawn(w, "turret", mgl32.Vec3{})
		m := scene.AddComponent(o, component.NewModel(geom.Box(mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{1, 3, 1})))
		tr := scene.AddComponent(o, component.NewTargetTracking())
		tr.SetTrackingNode("box").SetTargetDirection(at)
		w.Frame(0.1)
		w.Frame(0.1)
		return m, tr
	}

	t.Run("straight ahead", func(t *testing.T) {
		_, tr := setup(t, mgl32.Vec3{0, 2, 10})
		yaw, pitch := tr.Angles()
		assert.InDelta(t, 0, yaw, 1e-3)
		assert.InDelta(t, 0, pitch, 1e-3)
	})

	t.Run("pitch turns the node", func(t *testing.T) {
		m, tr := setup(t, mgl32.Vec3{0, 12, 10})
		_, pitch := tr.Angles()
		assert.InDelta(t, 45, pitch, 1e-2)

		node, ok := m.NodeMatrix(0)
		require.True(t, ok)
		assertVec(t, mgl32.Vec3{0, 0.7071, 0.7071}, node.Col(2).Vec3())
	})

	t.Run("yaw is limited", func(t *testing.T) {
		_, tr := setup(t, mgl32.Vec3{10, 2, 0})
		yaw, _ := tr.Angles()
		assert.InDelta(t, 70, yaw, 1e-3)
	})

	t.Run("limits can be lifted", func(t *testing.T) {
		w := newWorld()
		o := spawn(w, "turret", mgl32.Vec3{})
		scene.AddComponent(o, component.NewModel(geom.Box(mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{1, 3, 1})))
		tr := scene.AddComponent(o, component.NewTargetTracking())
		tr.SetTrackingNodeIndex(0).SetTargetDirection(mgl32.Vec3{10, 2, 0})
		tr.Flags().Off(component.TrackingLimitAxisY)
		w.Frame(0.1)

		yaw, _ := tr.Angles()
		assert.InDelta(t, 90, yaw, 1e-3)
	})

	t.Run("follows a target object", func(t *testing.T) {
		w := newWorld()
		o := spawn(w, "turret", mgl32.Vec3{})
		scene.AddComponent(o, component.NewModel(geom.Box(mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{1, 3, 1})))
		tr := scene.AddComponent(o, component.NewTargetTracking())
		tr.SetTrackingNode("box").SetTarget(spawn(w, "mark", mgl32.Vec3{-10, 2, 10}))
		w.Frame(0.1)

		yaw, _ := tr.Angles()
		assert.InDelta(t, -45, yaw, 1e-3)
	})
}

func TestCamera(t *testing.T) {
	w := newWorld()
	first := spawn(w, "cam1", mgl32.Vec3{0, 0, -10})
	c1 := scene.AddComponent(first, component.NewCamera())
	c2 := scene.AddComponent(spawn(w, "cam2", mgl32.Vec3{0, 5, 0}), component.NewCamera())
	w.Frame(0.1)

	t.Run("first camera becomes current", func(t *testing.T) {
		assert.True(t, c1.IsCurrent())
		assert.False(t, c2.IsCurrent())
		assert.Same(t, c1, component.CurrentCamera(w))
	})

	t.Run("projection", func(t *testing.T) {
		c1.SetAspect(800.0 / 600.0)
		c1.LookAt(mgl32.Vec3{})

		p, ok := c1.WorldToScreen(mgl32.Vec3{}, 800, 600)
		assert.True(t, ok)
		assert.InDelta(t, 400, p.X(), 1e-2)
		assert.InDelta(t, 300, p.Y(), 1e-2)

		right, _ := c1.WorldToScreen(mgl32.Vec3{-1, 0, 0}, 800, 600)
		assert.Greater(t, right.X(), float32(400), "camera looking down +Z sees -X on the right")

		_, ok = c1.WorldToScreen(mgl32.Vec3{0, 0, -20}, 800, 600)
		assert.False(t, ok, "behind the camera")

		origin, dir, err := c1.Ray(400, 300, 800, 600)
		require.NoError(t, err)
		assertVec(t, mgl32.Vec3{0, 0, 1}, dir)
		assert.InDelta(t, -10, origin.Z(), 0.2)
	})

	t.Run("switch by name", func(t *testing.T) {
		assert.Same(t, c2, component.SetCurrentCamera(w, "cam2"))
		assert.False(t, c1.IsCurrent())
		assert.Same(t, c2, component.SetCurrentCamera(w, "nobody"))
	})
}
