package debugui_test

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenery/collision"
	"github.com/plus3/scenery/debugui"
	"github.com/plus3/scenery/scene"
)

type stage struct {
	scene.SceneBase
}

type crate struct {
	scene.Object
}

func newWorld() *scene.World {
	w := scene.NewWorld()
	scene.Change[stage](w)
	return w
}

func TestObjectBrowser(t *testing.T) {
	w := newWorld()
	a := scene.CreateObject[scene.Object](w, scene.WithName("zeta"))
	b := scene.CreateObject[crate](w, scene.WithName("alpha"))
	scene.AddComponent(&b.Object, collision.NewSphere(1))
	w.Frame(0.1)

	ob := debugui.NewObjectBrowser(10)
	ob.Refresh(w)

	t.Run("lists every object by id", func(t *testing.T) {
		all := ob.Filtered()
		require.Len(t, all, 2)
		assert.Equal(t, a.ID(), all[0].ID)
		assert.Equal(t, "scene.Object", all[0].Type)
		assert.Equal(t, "debugui_test.crate", all[1].Type)
		assert.Equal(t, []string{"scene.Transform", "collision.Sphere"}, all[1].Components)
	})

	t.Run("sorts by name", func(t *testing.T) {
		ob.SortBy(1, true)
		assert.Equal(t, "alpha", ob.Filtered()[0].Name)
		ob.SortBy(1, false)
		assert.Equal(t, "zeta", ob.Filtered()[0].Name)
		ob.SortBy(0, true)
	})

	t.Run("filters on component types", func(t *testing.T) {
		ob.SetFilter("SPHERE")
		got := ob.Filtered()
		require.Len(t, got, 1)
		assert.Equal(t, "alpha", got[0].Name)
		ob.SetFilter("")
		assert.Len(t, ob.Filtered(), 2)
	})

	t.Run("selection clears once the object is gone", func(t *testing.T) {
		ob.Select(b.ID())
		w.ReleaseObject(b)
		w.Frame(0.1)
		ob.Refresh(w)
		assert.Zero(t, ob.Selected())
		assert.Len(t, ob.Filtered(), 1)
	})
}

func TestPerformanceStats(t *testing.T) {
	ps := debugui.NewPerformanceStats(3)
	assert.Zero(t, ps.AverageFrameTime())
	assert.Empty(t, ps.Samples())

	ps.Record(0.010)
	ps.Record(0.020)
	assert.InDelta(t, 15, ps.AverageFrameTime(), 1e-4)

	ps.Record(0.030)
	ps.Record(0.040)
	samples := ps.Samples()
	require.Len(t, samples, 3)
	assert.InDelta(t, 20, samples[0], 1e-4, "oldest sample dropped")
	assert.InDelta(t, 40, samples[2], 1e-4)
	assert.InDelta(t, 30, ps.AverageFrameTime(), 1e-4)
}

func TestStateLayouts(t *testing.T) {
	type Base struct {
		Enabled bool `yaml:"enabled"`
	}
	type state struct {
		Base   `yaml:",inline"`
		Target string     `yaml:"target,omitempty"`
		Offset mgl32.Vec3 `yaml:"offset"`
		Speed  float32
		Cache  []int `yaml:"-"`
		hidden int
	}

	l := debugui.NewStateLayouts()
	fields := l.Of(reflect.TypeOf(state{}))

	var labels []string
	for _, f := range fields {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"enabled", "target", "offset", "speed"}, labels)

	v := reflect.ValueOf(state{Base: Base{Enabled: true}, Target: "crate"})
	assert.Equal(t, true, v.FieldByIndex(fields[0].Index).Interface())
	assert.Equal(t, "crate", v.FieldByIndex(fields[1].Index).Interface())

	again := l.Of(reflect.TypeOf(state{}))
	require.NotEmpty(t, again)
	assert.Same(t, &fields[0], &again[0], "second lookup is served from the cache")

	assert.Empty(t, l.Of(reflect.TypeOf(0)))
}

func TestPanel(t *testing.T) {
	w := newWorld()
	p := debugui.Spawn(w)
	assert.True(t, p.Status().Is(scene.ObjectDisablePause))
	assert.Nil(t, p.Transform())
	assert.True(t, p.Transient())

	w.SetPause(true)
	w.Frame(0.016)
	w.Frame(0.016)
	assert.Len(t, p.Performance().Samples(), 2, "keeps recording while paused")
	assert.NotNil(t, p.Browser())
}
