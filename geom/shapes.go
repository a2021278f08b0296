package geom

import "github.com/go-gl/mathgl/mgl32"

// Plane returns a horizontal square of the given half extent at height y,
// facing up.
func Plane(half, y float32) *Mesh {
	a := mgl32.Vec3{-half, y, -half}
	b := mgl32.Vec3{-half, y, half}
	c := mgl32.Vec3{half, y, half}
	d := mgl32.Vec3{half, y, -half}
	return &Mesh{
		Triangles: []Triangle{{a, b, c}, {a, c, d}},
		Groups:    []Group{{Name: "plane", First: 0, Count: 2}},
	}
}

// Box returns the six outward-facing sides of the box lo-hi.
func Box(lo, hi mgl32.Vec3) *Mesh {
	v := [8]mgl32.Vec3{
		{lo[0], lo[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], hi[1], lo[2]},
		{lo[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]},
		{hi[0], lo[1], hi[2]},
		{hi[0], hi[1], hi[2]},
		{lo[0], hi[1], hi[2]},
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
	}
	m := &Mesh{Groups: []Group{{Name: "box", First: 0, Count: 12}}}
	for _, q := range quads {
		m.Triangles = append(m.Triangles,
			Triangle{v[q[0]], v[q[1]], v[q[2]]},
			Triangle{v[q[0]], v[q[2]], v[q[3]]},
		)
	}
	return m
}

// Merge concatenates meshes, keeping their groups.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range meshes {
		base := len(out.Triangles)
		out.Triangles = append(out.Triangles, m.Triangles...)
		for _, g := range m.Groups {
			g.First += base
			out.Groups = append(out.Groups, g)
		}
	}
	return out
}
