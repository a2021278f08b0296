package scene_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenery/scene"
)

func TestDispatchOrder(t *testing.T) {
	t.Run("ascending priority", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		spawnTracer(w, "low", &log, scene.WithPriority(scene.PriorityLowest, scene.PriorityLowest))
		spawnTracer(w, "normal", &log, scene.WithPriority(scene.PriorityNormal, scene.PriorityNormal))
		spawnTracer(w, "high", &log, scene.WithPriority(scene.PriorityHighest, scene.PriorityHighest))

		w.Frame(1.0 / 60)

		assert.Equal(t, []string{
			"high:update", "normal:update", "low:update",
			"high:draw", "normal:draw", "low:draw",
		}, log)
	})

	t.Run("ties keep registration order", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		spawnTracer(w, "a", &log)
		spawnTracer(w, "b", &log)
		spawnTracer(w, "c", &log)

		w.PreUpdate()
		w.Update(0.1)

		assert.Equal(t, []string{"a:update", "b:update", "c:update"}, log)
	})

	t.Run("update and draw priorities are independent", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		spawnTracer(w, "a", &log, scene.WithPriority(scene.PriorityLow, scene.PriorityHigh))
		spawnTracer(w, "b", &log, scene.WithPriority(scene.PriorityHigh, scene.PriorityLow))

		w.Frame(0.1)

		assert.Equal(t, []string{"b:update", "a:update", "a:draw", "b:draw"}, log)
	})
}

func TestDirtySlotRebinding(t *testing.T) {
	w, _ := newWorld()
	var log []string
	a := spawnTracer(w, "a", &log)
	spawnTracer(w, "b", &log)

	tick := func(dt float32) { log = append(log, "a:tick") }
	a.SetUpdateProc("tick", tick, scene.TimingUpdate, scene.PriorityHighest)

	w.Frame(0.1)
	assert.Equal(t, []string{"a:tick", "a:update", "b:update"}, log[:3])

	log = nil
	a.SetUpdateProc("tick", tick, scene.TimingUpdate, scene.PriorityLowest)

	w.Frame(0.1)
	assert.Equal(t, []string{"a:update", "b:update", "a:tick"}, log[:3])

	info, ok := a.Proc("tick")
	require.True(t, ok)
	assert.Equal(t, scene.PriorityLowest, info.Priority)
	assert.True(t, info.Bound)
}

// latecomer asks to update last from its own Init.
type latecomer struct {
	tracer
}

func (l *latecomer) Init() bool {
	l.World().SetPriority(l, scene.TimingUpdate, scene.PriorityLowest)
	return l.Object.Init()
}

func TestSetPriority(t *testing.T) {
	t.Run("registered object", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		a := spawnTracer(w, "a", &log)
		spawnTracer(w, "b", &log)
		w.Frame(0.1)

		log = nil
		w.SetPriority(a, scene.TimingUpdate, scene.PriorityLowest)
		w.Update(0.1)

		assert.Equal(t, []string{"b:update", "a:update"}, log)
	})

	t.Run("called from Init", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		l := scene.CreateObject[latecomer](w, scene.WithName("late"))
		l.tag = "late"
		l.log = &log
		spawnTracer(w, "normal", &log)

		w.PreUpdate()
		w.Update(0.1)

		assert.Equal(t, []string{"normal:update", "late:update"}, log)
		assert.Equal(t, scene.PriorityLowest, l.UpdatePriority())
	})

	t.Run("called before the first frame", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		a := spawnTracer(w, "a", &log)
		spawnTracer(w, "b", &log)
		w.SetPriority(a, scene.TimingUpdate, scene.PriorityLowest)

		w.PreUpdate()
		w.Update(0.1)
		w.PreUpdate()
		w.Update(0.1)

		assert.Equal(t, []string{"b:update", "a:update", "b:update", "a:update"}, log)
	})

	t.Run("restored slot priority survives registration", func(t *testing.T) {
		src, _ := newWorld()
		saved := spawnTracer(src, "r", nil)
		src.Frame(0.1)
		src.SetPriority(saved, scene.TimingUpdate, scene.PriorityLowest)

		w, _ := newWorld()
		var log []string
		r := &tracer{tag: "r", log: &log}
		for info := range saved.ProcInfos() {
			r.RestoreProc(info)
		}
		initialized := uint64(1)<<scene.ObjectInitialized | uint64(1)<<scene.ObjectShowGUI
		w.Restore(r, "r", initialized, scene.PriorityNormal, scene.PriorityNormal)
		spawnTracer(w, "b", &log)

		w.PreUpdate()
		w.Update(0.1)

		assert.Equal(t, []string{"b:update", "r:update"}, log)
	})
}

func TestExit(t *testing.T) {
	t.Run("no hooks after exit in the same frame", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		victim := spawnTracer(w, "victim", &log, scene.WithPriority(scene.PriorityLowest, scene.PriorityLowest))
		killer := spawnTracer(w, "killer", &log, scene.WithPriority(scene.PriorityHighest, scene.PriorityHighest))
		killer.SetUpdateProc("kill", func(float32) { victim.Exit() }, scene.TimingUpdate, scene.PriorityHighest)

		w.Frame(0.1)

		assert.NotContains(t, log, "victim:update")
		assert.NotContains(t, log, "victim:draw")
		assert.Contains(t, log, "killer:draw")
		assert.Nil(t, w.FindObject("victim"))
	})

	t.Run("idempotent", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		w.Frame(0.1)

		o.Exit()
		status := o.Status().Raw()
		assert.NotPanics(t, func() { o.Exit() })
		assert.Equal(t, status, o.Status().Raw())
		assert.False(t, o.IsAlive())
	})

	t.Run("release unregisters at end of frame", func(t *testing.T) {
		w, a := newWorld()
		var log []string
		p := spawnTracer(w, "p", &log)
		w.Frame(0.1)
		id := p.ID()
		require.Same(t, p.Base(), w.Lookup(id))

		w.ReleaseObject(p)
		w.Frame(0.1)

		assert.Nil(t, w.Lookup(id))
		assert.Equal(t, 0, a.ObjectCount())
		assert.Equal(t, 0, w.ObjectCount())
	})
}

func TestGating(t *testing.T) {
	t.Run("pause stops update but not draw", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		spawnTracer(w, "p", &log)
		w.SetPause(true)

		w.Frame(0.5)

		assert.Equal(t, []string{"p:draw"}, log)
		assert.Zero(t, w.Time())
	})

	t.Run("step runs one paused frame", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		spawnTracer(w, "p", &log)
		w.SetPause(true)

		w.Step()
		w.Frame(0.5)
		w.Frame(0.5)

		assert.Equal(t, []string{"p:update", "p:draw", "p:draw"}, log)
		assert.InDelta(t, 0.5, w.Time(), 1e-9)
	})

	t.Run("disable pause keeps updating", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		p := spawnTracer(w, "p", &log)
		p.Status().On(scene.ObjectDisablePause)
		w.SetPause(true)

		w.Frame(0.5)

		assert.Equal(t, []string{"p:update", "p:draw"}, log)
	})

	t.Run("no draw", func(t *testing.T) {
		w, _ := newWorld()
		var log []string
		p := spawnTracer(w, "p", &log)
		p.Status().On(scene.ObjectNoDraw)

		w.Frame(0.5)
		assert.Equal(t, []string{"p:update"}, log)

		p.Status().Off(scene.ObjectNoDraw)
		log = nil
		w.Frame(0.5)
		assert.Equal(t, []string{"p:update", "p:draw"}, log)
	})

	t.Run("component no update", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		c := scene.AddComponent(o, &counter{})
		c.Status().On(scene.ComponentNoUpdate)

		w.Frame(0.5)

		assert.Equal(t, 0, c.updates)
		assert.Equal(t, 1, c.draws)
	})
}

type slowLoader struct {
	scene.Object
	tries   int
	updates int
}

func (s *slowLoader) Init() bool {
	s.tries++
	if s.tries < 3 {
		return false
	}
	return s.Object.Init()
}

func (s *slowLoader) Update(dt float32) { s.updates++ }

func TestInitRetry(t *testing.T) {
	w, _ := newWorld()
	s := scene.CreateObject[slowLoader](w)

	w.Frame(0.1)
	assert.Equal(t, 2, s.tries)
	assert.Equal(t, 0, s.updates)
	assert.False(t, s.Status().Is(scene.ObjectInitialized))

	w.Frame(0.1)
	assert.Equal(t, 3, s.tries)
	assert.Equal(t, 1, s.updates)
	assert.True(t, s.Status().Is(scene.ObjectInitialized))
	assert.True(t, s.Status().Is(scene.ObjectSerialized))

	w.Frame(0.1)
	assert.Equal(t, 3, s.tries)
}

type forgetfulInit struct{ scene.Object }

func (f *forgetfulInit) Init() bool { return true }

type forgetfulGUI struct{ scene.Object }

func (f *forgetfulGUI) GUI() {}

func TestContracts(t *testing.T) {
	t.Run("init must call through", func(t *testing.T) {
		w, _ := newWorld()
		err := catchContract(func() { scene.CreateObject[forgetfulInit](w) })
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "forgetfulInit.Init")
	})

	t.Run("gui must call through", func(t *testing.T) {
		w, _ := newWorld()
		scene.CreateObject[forgetfulGUI](w)
		w.Frame(0.1)

		err := catchContract(w.GUI)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "forgetfulGUI.GUI")
	})

	t.Run("creating without a scene", func(t *testing.T) {
		w := scene.NewWorld()
		err := catchContract(func() { scene.CreateObject[scene.Object](w) })
		require.NotNil(t, err)
	})

	t.Run("dispatch without a scene", func(t *testing.T) {
		w := scene.NewWorld()
		assert.NotNil(t, catchContract(w.PreUpdate))
		assert.NotNil(t, catchContract(func() { w.Update(0.1) }))
	})

	t.Run("void proc at a delta timing", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		w.Frame(0.1)

		err := catchContract(func() { o.SetProc("bad", func() {}, scene.TimingUpdate, scene.PriorityNormal) })
		require.NotNil(t, err)
	})

	t.Run("lenient mode logs and continues", func(t *testing.T) {
		cfg := scene.DefaultConfig()
		cfg.StrictContracts = false
		w, _ := newWorld(scene.WithConfig(cfg))

		assert.NotPanics(t, func() { scene.CreateObject[forgetfulInit](w) })
		assert.NotPanics(t, func() { w.Frame(0.1) })
	})
}

func TestComponents(t *testing.T) {
	t.Run("implicit transform", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		require.NotNil(t, o.Transform())

		bare := scene.CreateObject[scene.Object](w, scene.WithoutTransform())
		assert.Nil(t, bare.Transform())
		assert.Equal(t, mgl32.Ident4(), bare.Matrix())
	})

	t.Run("same type is shared unless opted out", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		c1 := scene.AddComponent(o.Base(), &counter{})
		c2 := scene.AddComponent(o.Base(), &counter{})
		assert.Same(t, c1, c2)

		c3 := &counter{}
		c3.Status().On(scene.ComponentSameType)
		assert.NotSame(t, c1, scene.AddComponent(o.Base(), c3))

		n := 0
		for range scene.Components[*counter](o.Base()) {
			n++
		}
		assert.Equal(t, 2, n)
	})

	t.Run("hooks run after init", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		c := scene.AddComponent(o.Base(), &counter{})

		w.Frame(0.25)

		assert.True(t, c.Status().Is(scene.ComponentInitialized))
		assert.True(t, c.Status().Is(scene.ComponentSerialized))
		assert.Equal(t, 1, c.updates)
		assert.Equal(t, 1, c.draws)
		assert.InDelta(t, 0.25, c.Delta(), 1e-6)
	})

	t.Run("remove stops hooks at once", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		c := scene.AddComponent(o.Base(), &counter{})
		w.Frame(0.1)

		require.True(t, scene.RemoveComponent[*counter](o.Base()))
		w.Frame(0.1)

		assert.Equal(t, 1, c.updates)
		assert.True(t, c.Status().Is(scene.ComponentExited))
		_, ok := scene.GetComponent[*counter](o.Base())
		assert.False(t, ok)
		assert.False(t, scene.RemoveComponent[*counter](o.Base()))
	})
}

func TestTransform(t *testing.T) {
	t.Run("first frame pins old matrix", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		o.SetTranslate(mgl32.Vec3{1, 2, 3})

		w.PreUpdate()

		assert.Equal(t, o.Matrix(), o.OldWorldMatrix())
	})

	t.Run("old matrix lags one frame", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		w.Frame(0.1)

		o.SetTranslate(mgl32.Vec3{5, 0, 0})
		w.PreUpdate()

		assert.Equal(t, mgl32.Vec3{}, o.OldWorldMatrix().Col(3).Vec3())
		assert.Equal(t, mgl32.Vec3{5, 0, 0}, o.Translate())
	})

	t.Run("gravity is applied once", func(t *testing.T) {
		w, _ := newWorld()
		o := scene.CreateObject[scene.Object](w)
		o.SetGravity(mgl32.Vec3{0, -1, 0})

		w.Frame(0.1)
		w.Frame(0.1)

		assert.Equal(t, mgl32.Vec3{0, -1, 0}, o.Translate())
		assert.Equal(t, mgl32.Vec3{}, o.Gravity())
	})

	t.Run("scale and rotation", func(t *testing.T) {
		tr := scene.NewTransform()
		tr.SetTranslate(mgl32.Vec3{1, 2, 3})
		tr.SetScaleAxisXYZ(mgl32.Vec3{2, 3, 4})
		tr.SetRotationAxisXYZ(mgl32.Vec3{0, 90, 0})

		s := tr.Scale()
		assert.InDelta(t, 2, s[0], 1e-5)
		assert.InDelta(t, 3, s[1], 1e-5)
		assert.InDelta(t, 4, s[2], 1e-5)
		assert.Equal(t, mgl32.Vec3{1, 2, 3}, tr.Translate())
		assert.InDelta(t, -2, tr.AxisX()[2], 1e-5)
	})
}

func TestDefer(t *testing.T) {
	w, _ := newWorld()
	var log []string
	spawnTracer(w, "p", &log)

	w.Defer(func() { log = append(log, "deferred") })
	w.Frame(0.1)

	assert.Equal(t, []string{"p:update", "p:draw", "deferred"}, log)
}

func TestStats(t *testing.T) {
	w, _ := newWorld()
	spawnTracer(w, "a", nil)
	spawnTracer(w, "b", nil)

	w.Frame(0.1)
	w.Frame(0.1)

	stats := w.Stats()
	assert.Equal(t, int64(2), stats.Frames)
	assert.Equal(t, 2, stats.Objects)
	require.Len(t, stats.Stages, 6)
	assert.Equal(t, "PreUpdate", stats.Stages[0].Name)
	assert.Equal(t, int64(2), stats.Stages[0].ExecutionCount)
	assert.GreaterOrEqual(t, stats.Stages[0].MaxDuration, stats.Stages[0].MinDuration)
	// two objects and their transforms
	assert.Equal(t, 4, stats.Subscribers["Update"])
	assert.Equal(t, 0, stats.Subscribers["Shadow"])
}

func TestRun(t *testing.T) {
	w, _ := newWorld()
	o := scene.CreateObject[scene.Object](w)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	w.Run(ctx, 5*time.Millisecond)

	assert.Greater(t, w.Stats().Frames, int64(0))
	assert.True(t, o.Status().Is(scene.ObjectInitialized))
}

func TestFindObjects(t *testing.T) {
	w, _ := newWorld()
	spawnTracer(w, "a", nil)
	spawnTracer(w, "b", nil)
	scene.CreateObject[scene.Object](w, scene.WithName("plain"))

	n := 0
	for range scene.FindObjects[*tracer](w) {
		n++
	}
	assert.Equal(t, 2, n)
	assert.NotNil(t, w.FindObject("plain"))

	assert.True(t, w.ReleaseObjectByName("plain"))
	assert.False(t, w.ReleaseObjectByName("missing"))
}
