package geom_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenery/geom"
)

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestSafeNormalize(t *testing.T) {
	fallback := mgl32.Vec3{0, 0, 1}
	assertVec(t, fallback, geom.SafeNormalize(mgl32.Vec3{}, fallback))
	assertVec(t, mgl32.Vec3{1, 0, 0}, geom.SafeNormalize(mgl32.Vec3{3, 0, 0}, fallback))
}

func TestClosestSegmentSegment(t *testing.T) {
	t.Run("parallel", func(t *testing.T) {
		a, b := geom.ClosestSegmentSegment(
			mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1.5, 0},
			mgl32.Vec3{0, 0.5, 0.9}, mgl32.Vec3{0, 1.5, 0.9},
		)
		assert.InDelta(t, 0.9, a.Sub(b).Len(), 1e-5)
	})

	t.Run("crossing", func(t *testing.T) {
		a, b := geom.ClosestSegmentSegment(
			mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{1, 0, 0},
			mgl32.Vec3{0, -1, 1}, mgl32.Vec3{0, 1, 1},
		)
		assertVec(t, mgl32.Vec3{0, 0, 0}, a)
		assertVec(t, mgl32.Vec3{0, 0, 1}, b)
	})

	t.Run("endpoints", func(t *testing.T) {
		a, b := geom.ClosestSegmentSegment(
			mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0},
			mgl32.Vec3{3, 0, 0}, mgl32.Vec3{5, 0, 0},
		)
		assertVec(t, mgl32.Vec3{1, 0, 0}, a)
		assertVec(t, mgl32.Vec3{3, 0, 0}, b)
	})

	t.Run("degenerate", func(t *testing.T) {
		p := mgl32.Vec3{1, 2, 3}
		a, b := geom.ClosestSegmentSegment(p, p, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 4, 0})
		assertVec(t, p, a)
		assertVec(t, mgl32.Vec3{0, 2, 0}, b)
	})
}

func TestClosestPoint(t *testing.T) {
	assertVec(t, mgl32.Vec3{0, 1, 0},
		geom.ClosestPointSegment(mgl32.Vec3{3, 1, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 4, 0}))

	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{1, 0, 0}
	c := mgl32.Vec3{0, 0, 1}
	assertVec(t, mgl32.Vec3{0.2, 0, 0.2}, geom.ClosestPointTriangle(mgl32.Vec3{0.2, 5, 0.2}, a, b, c))
	assertVec(t, a, geom.ClosestPointTriangle(mgl32.Vec3{-1, 0, -1}, a, b, c))
	assertVec(t, b, geom.ClosestPointTriangle(mgl32.Vec3{2, 0, -1}, a, b, c))
	assertVec(t, mgl32.Vec3{0.5, 0, 0.5}, geom.ClosestPointTriangle(mgl32.Vec3{2, 0, 2}, a, b, c))
}

func TestTriangle(t *testing.T) {
	tri := geom.Triangle{A: mgl32.Vec3{0, 0, 0}, B: mgl32.Vec3{0, 0, 1}, C: mgl32.Vec3{1, 0, 0}}
	assertVec(t, mgl32.Vec3{0, 1, 0}, tri.Normal())

	pos, frac, ok := tri.IntersectSegment(mgl32.Vec3{0.2, 1, 0.2}, mgl32.Vec3{0.2, -1, 0.2})
	require.True(t, ok)
	assertVec(t, mgl32.Vec3{0.2, 0, 0.2}, pos)
	assert.InDelta(t, 0.5, frac, 1e-5)

	_, _, ok = tri.IntersectSegment(mgl32.Vec3{0.2, 1, 0.2}, mgl32.Vec3{0.2, 0.5, 0.2})
	assert.False(t, ok)

	s, tp := geom.ClosestSegmentTriangle(mgl32.Vec3{0.2, 2, 0.2}, mgl32.Vec3{0.2, 1, 0.2}, tri)
	assertVec(t, mgl32.Vec3{0.2, 1, 0.2}, s)
	assertVec(t, mgl32.Vec3{0.2, 0, 0.2}, tp)
}

func TestMesh(t *testing.T) {
	t.Run("line cast picks the nearest hit", func(t *testing.T) {
		m := geom.Merge(geom.Plane(10, 0), geom.Plane(10, 2))
		hit, ok := m.LineCast(mgl32.Vec3{1, 5, 2}, mgl32.Vec3{1, -5, 2})
		require.True(t, ok)
		assertVec(t, mgl32.Vec3{1, 2, 2}, hit.Position)
		assertVec(t, mgl32.Vec3{0, 1, 0}, hit.Normal)
		assert.InDelta(t, 0.3, hit.Fraction, 1e-5)

		_, ok = m.LineCast(mgl32.Vec3{1, 5, 2}, mgl32.Vec3{1, 3, 2})
		assert.False(t, ok)
	})

	t.Run("capsule query", func(t *testing.T) {
		m := geom.Box(mgl32.Vec3{1, -5, -5}, mgl32.Vec3{2, 5, 5})
		near := m.CapsuleQuery(mgl32.Vec3{0.7, 0, 0}, mgl32.Vec3{0.7, 1, 0}, 0.5)
		assert.NotEmpty(t, near)
		for _, tri := range near {
			assertVec(t, mgl32.Vec3{-1, 0, 0}, tri.Normal())
		}

		far := m.CapsuleQuery(mgl32.Vec3{-3, 0, 0}, mgl32.Vec3{-3, 1, 0}, 0.5)
		assert.Empty(t, far)
	})

	t.Run("movement stops at walls", func(t *testing.T) {
		m := geom.Box(mgl32.Vec3{1, -5, -5}, mgl32.Vec3{2, 5, 5})
		move := m.CheckMovement(mgl32.Vec3{}, mgl32.Vec3{2, 0, 0}, 0.5, 0.5)
		assertVec(t, mgl32.Vec3{0.5, 0, 0}, move)
	})

	t.Run("movement slides along walls", func(t *testing.T) {
		m := geom.Box(mgl32.Vec3{1, -5, -5}, mgl32.Vec3{2, 5, 5})
		move := m.CheckMovement(mgl32.Vec3{}, mgl32.Vec3{2, 0, 1}, 0.5, 0.5)
		assertVec(t, mgl32.Vec3{0.5, 0, 1}, move)
	})

	t.Run("free movement is untouched", func(t *testing.T) {
		m := geom.Plane(10, 0)
		move := m.CheckMovement(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{3, -0.2, 0}, 0.5, 0.5)
		assertVec(t, mgl32.Vec3{3, -0.2, 0}, move)
	})

	t.Run("transform and bounds", func(t *testing.T) {
		m := geom.Box(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}).Transform(mgl32.Translate3D(5, 0, 0))
		lo, hi := m.Bounds()
		assertVec(t, mgl32.Vec3{4, -1, -1}, lo)
		assertVec(t, mgl32.Vec3{6, 1, 1}, hi)
		assertVec(t, mgl32.Vec3{5, 0, 0}, m.GroupCenter(0))
	})
}

func TestLookAtObject(t *testing.T) {
	m := geom.LookAtObject(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0})
	assertVec(t, mgl32.Vec3{1, 0, 0}, m.Col(2).Vec3())
	assertVec(t, mgl32.Vec3{0, 1, 0}, m.Col(1).Vec3())
	assertVec(t, mgl32.Vec3{0, 0, -1}, m.Col(0).Vec3())

	straightUp := geom.LookAtObject(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 5, 3})
	assertVec(t, mgl32.Vec3{0, 1, 0}, straightUp.Col(2).Vec3())
	assertVec(t, mgl32.Vec3{1, 2, 3}, straightUp.Col(3).Vec3())
}

const cube = `# unit quad and triangle
o floor
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
f 1 4/1 3//1 2/1/1
o marker
v 0 1 0
f -1 1 2
`

func TestLoadOBJ(t *testing.T) {
	m, err := geom.LoadOBJ(strings.NewReader(cube))
	require.NoError(t, err)
	require.Len(t, m.Triangles, 3)
	require.Len(t, m.Groups, 2)

	assert.Equal(t, geom.Group{Name: "floor", First: 0, Count: 2}, m.Groups[0])
	assert.Equal(t, geom.Group{Name: "marker", First: 2, Count: 1}, m.Groups[1])
	assertVec(t, mgl32.Vec3{0, 1, 0}, m.Triangles[0].Normal())

	i, ok := m.GroupIndex("marker")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	for _, bad := range []string{
		"v 1 2\n",
		"v 1 2 x\n",
		"v 0 0 0\nf 1 2 3\n",
		"v 0 0 0\nv 1 0 0\nf 1 2\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
	} {
		_, err := geom.LoadOBJ(strings.NewReader(bad))
		assert.True(t, errors.Is(err, geom.ErrMalformedOBJ), "input %q: %v", bad, err)
	}
}
