package geom

import "github.com/go-gl/mathgl/mgl32"

// Group is a named run of triangles within a Mesh.
type Group struct {
	Name  string
	First int
	Count int
}

// Mesh is a static triangle soup with optional named groups.
type Mesh struct {
	Triangles []Triangle
	Groups    []Group
}

// Hit is the nearest intersection of a line cast.
type Hit struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Triangle int
	Fraction float32
}

// Transform returns a copy of the mesh with every vertex moved by m.
func (m *Mesh) Transform(mat mgl32.Mat4) *Mesh {
	out := &Mesh{
		Triangles: make([]Triangle, len(m.Triangles)),
		Groups:    append([]Group(nil), m.Groups...),
	}
	for i, t := range m.Triangles {
		out.Triangles[i] = t.Transform(mat)
	}
	return out
}

// Bounds returns the axis-aligned box around the mesh.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	for i, t := range m.Triangles {
		tlo, thi := t.bounds()
		if i == 0 {
			lo, hi = tlo, thi
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], tlo[k])
			hi[k] = max(hi[k], thi[k])
		}
	}
	return lo, hi
}

// GroupIndex returns the index of the group called name.
func (m *Mesh) GroupIndex(name string) (int, bool) {
	for i, g := range m.Groups {
		if g.Name == name {
			return i, true
		}
	}
	return -1, false
}

// GroupCenter is the centroid of a group's triangles.
func (m *Mesh) GroupCenter(i int) mgl32.Vec3 {
	g := m.Groups[i]
	var sum mgl32.Vec3
	if g.Count == 0 {
		return sum
	}
	for _, t := range m.Triangles[g.First : g.First+g.Count] {
		sum = sum.Add(t.Center())
	}
	return sum.Mul(1 / float32(g.Count))
}

// LineCast returns the intersection nearest to from along the segment
// from-to.
func (m *Mesh) LineCast(from, to mgl32.Vec3) (Hit, bool) {
	best := Hit{Triangle: -1}
	for i, t := range m.Triangles {
		pos, frac, ok := t.IntersectSegment(from, to)
		if !ok {
			continue
		}
		if best.Triangle < 0 || frac < best.Fraction {
			best = Hit{Position: pos, Normal: t.Normal(), Triangle: i, Fraction: frac}
		}
	}
	return best, best.Triangle >= 0
}

// CapsuleQuery returns the triangles within radius of segment p1p2.
func (m *Mesh) CapsuleQuery(p1, p2 mgl32.Vec3, radius float32) []Triangle {
	lo, hi := p1, p2
	for k := 0; k < 3; k++ {
		lo[k] = min(p1[k], p2[k]) - radius
		hi[k] = max(p1[k], p2[k]) + radius
	}

	var out []Triangle
	r2 := radius * radius
	for _, t := range m.Triangles {
		tlo, thi := t.bounds()
		if !overlaps(lo, hi, tlo, thi) {
			continue
		}
		s, tp := ClosestSegmentTriangle(p1, p2, t)
		if d := s.Sub(tp); d.Dot(d) <= r2 {
			out = append(out, t)
		}
	}
	return out
}

// CheckMovement clips a horizontal move starting at from so that a vertical
// probe of the given radius slides along walls instead of entering them.
// Triangles whose |normal.Y| exceeds wall are floors or ceilings and ignored.
// The returned move keeps move's Y.
func (m *Mesh) CheckMovement(from, move mgl32.Vec3, radius, wall float32) mgl32.Vec3 {
	if Horizontal(move).Len() == 0 {
		return move
	}
	pos := from.Add(Horizontal(move))

	for iter := 0; iter < 4; iter++ {
		pushed := false
		for _, t := range m.Triangles {
			n := t.Normal()
			if abs32(n[1]) > wall {
				continue
			}
			side := SafeNormalize(Horizontal(n), mgl32.Vec3{})
			if hit, _, ok := t.IntersectSegment(from, pos); ok {
				if Horizontal(from.Sub(hit)).Dot(side) < 0 {
					side = side.Mul(-1)
				}
				pos = pos.Add(side.Mul(hit.Sub(pos).Dot(side) + radius))
				pushed = true
				continue
			}

			cp := ClosestPointTriangle(pos, t.A, t.B, t.C)
			if abs32(cp[1]-pos[1]) > radius {
				continue
			}
			d := Horizontal(pos.Sub(cp))
			l := d.Len()
			if l >= radius {
				continue
			}
			if Horizontal(from.Sub(cp)).Dot(side) < 0 {
				side = side.Mul(-1)
			}
			pos = pos.Add(SafeNormalize(d, side).Mul(radius - l))
			pushed = true
		}
		if !pushed {
			break
		}
	}

	out := pos.Sub(from)
	out[1] = move[1]
	return out
}

func overlaps(alo, ahi, blo, bhi mgl32.Vec3) bool {
	for k := 0; k < 3; k++ {
		if ahi[k] < blo[k] || bhi[k] < alo[k] {
			return false
		}
	}
	return true
}
