package geom

import "github.com/go-gl/mathgl/mgl32"

// ClosestPointSegment returns the point of segment ab closest to p.
func ClosestPointSegment(p, a, b mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 <= Epsilon {
		return a
	}
	t := clamp01(p.Sub(a).Dot(ab) / l2)
	return a.Add(ab.Mul(t))
}

// ClosestSegmentSegment returns the closest points between segments p1q1 and
// p2q2, the first lying on p1q1.
func ClosestSegmentSegment(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float32
	switch {
	case a <= Epsilon && e <= Epsilon:
		return p1, p2
	case a <= Epsilon:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= Epsilon {
			s = clamp01(-c / a)
			break
		}
		b := d1.Dot(d2)
		if denom := a*e - b*b; denom != 0 {
			s = clamp01((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// ClosestPointTriangle returns the point of triangle abc closest to p.
func ClosestPointTriangle(p, a, b, c mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// ClosestSegmentTriangle returns the closest points between segment pq and
// triangle t, the first lying on the segment. A segment crossing the
// triangle yields the crossing point for both.
func ClosestSegmentTriangle(p, q mgl32.Vec3, t Triangle) (mgl32.Vec3, mgl32.Vec3) {
	if hit, _, ok := t.IntersectSegment(p, q); ok {
		return hit, hit
	}

	best := float32(-1)
	var segPos, triPos mgl32.Vec3
	try := func(s, tp mgl32.Vec3) {
		d := s.Sub(tp)
		if l2 := d.Dot(d); best < 0 || l2 < best {
			best = l2
			segPos, triPos = s, tp
		}
	}

	try(p, ClosestPointTriangle(p, t.A, t.B, t.C))
	try(q, ClosestPointTriangle(q, t.A, t.B, t.C))
	for _, e := range [3][2]mgl32.Vec3{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}} {
		s, tp := ClosestSegmentSegment(p, q, e[0], e[1])
		try(s, tp)
	}
	return segPos, triPos
}
