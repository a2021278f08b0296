package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

// isHit runs the narrow-phase test for self against other. The returned push
// always moves self out of other.
func isHit(self shape, other scene.Collider) scene.HitInfo {
	o, ok := other.(shape)
	if !ok {
		return scene.HitInfo{}
	}

	var hit scene.HitInfo
	switch a := self.(type) {
	case *Capsule:
		switch b := o.(type) {
		case *Capsule:
			hit = capsuleCapsule(a, b)
		case *Sphere:
			hit = capsuleSphere(a, b)
		case *Model:
			hit = capsuleModel(a, b)
		}
	case *Sphere:
		switch b := o.(type) {
		case *Capsule:
			hit = negate(capsuleSphere(b, a))
		case *Sphere:
			hit = sphereSphere(a, b)
		case *Model:
			hit = sphereModel(a, b)
		}
	case *Model:
		switch b := o.(type) {
		case *Capsule:
			hit = negate(capsuleModel(b, a))
		case *Sphere:
			hit = negate(sphereModel(b, a))
		}
	}

	if hit.Hit {
		hit.Collision = self
		hit.HitCollision = other
	}
	return hit
}

func negate(hit scene.HitInfo) scene.HitInfo {
	hit.Push = hit.Push.Mul(-1)
	return hit
}

// separate builds the hit for two round shapes whose closest core points are
// p (self) and q (other).
func separate(self *Collision, p, q mgl32.Vec3, radius float32) scene.HitInfo {
	d := q.Sub(p)
	l := d.Len()
	if l >= radius {
		return scene.HitInfo{}
	}
	dir := geom.SafeNormalize(d, self.physics().FallbackAxis)
	return scene.HitInfo{
		Hit:      true,
		Push:     dir.Mul(l - radius),
		Position: p.Add(q).Mul(0.5),
	}
}

func capsuleCapsule(a, b *Capsule) scene.HitInfo {
	a1, a2, ra := a.segment()
	b1, b2, rb := b.segment()
	p, q := geom.ClosestSegmentSegment(a1, a2, b1, b2)
	return separate(&a.Collision, p, q, ra+rb)
}

func capsuleSphere(a *Capsule, b *Sphere) scene.HitInfo {
	a1, a2, ra := a.segment()
	center, rb := b.center()
	p := geom.ClosestPointSegment(center, a1, a2)
	return separate(&a.Collision, p, center, ra+rb)
}

func sphereSphere(a, b *Sphere) scene.HitInfo {
	pa, ra := a.center()
	pb, rb := b.center()
	return separate(&a.Collision, pa, pb, ra+rb)
}

func capsuleModel(a *Capsule, b *Model) scene.HitInfo {
	mesh := b.mesh()
	if mesh == nil {
		return scene.HitInfo{}
	}
	_, _, r := a.spine()
	top := geom.TransformPoint(a.OldWorldMatrix(), a.localTranslate().Add(mgl32.Vec3{0, a.height, 0}))
	return resolveAgainstMesh(&a.Collision, mesh, r, func(opos, cpos mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
		return top, cpos
	})
}

func sphereModel(a *Sphere, b *Model) scene.HitInfo {
	mesh := b.mesh()
	if mesh == nil {
		return scene.HitInfo{}
	}
	_, r := a.center()
	return resolveAgainstMesh(&a.Collision, mesh, r, func(opos, cpos mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
		return opos, cpos.Sub(mgl32.Vec3{0, r, 0})
	})
}

// resolveAgainstMesh moves a round collider out of a static mesh. A
// gravity-driven collider first has its horizontal motion clipped against
// walls. Its base is then snapped to climbable ground under the vertical
// probe from top to the current position, and finally pushed out of the
// steep faces the probe capsule touches. ends maps the previous and current
// collider origins to the probe top and the collider base.
func resolveAgainstMesh(c *Collision, mesh *geom.Mesh, r float32,
	ends func(opos, cpos mgl32.Vec3) (top, base mgl32.Vec3),
) scene.HitInfo {
	phys := c.physics()
	owner := c.Owner()
	lt := c.localTranslate()
	opos := geom.TransformPoint(c.OldWorldMatrix(), lt)
	cpos := geom.TransformPoint(c.WorldMatrix(), lt)

	if c.useGravity && c.attachNode < 0 {
		move := cpos.Sub(opos)
		clipped := mesh.CheckMovement(opos, geom.Horizontal(move), phys.MoveProbe, phys.Wall)
		clipped[1] = move[1]
		cpos = opos.Add(clipped)
		rot := owner.Matrix()
		rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
		owner.SetTranslate(cpos.Sub(geom.TransformPoint(rot, lt)))
	}
	if c.attachNode >= 0 {
		opos = cpos
	}

	top, base := ends(opos, cpos)
	hit := scene.HitInfo{}
	pos := base

	if g, ok := mesh.LineCast(top, base); ok && abs32(g.Normal.Dot(geom.Up)) > phys.Climbable {
		pos = g.Position
		hit.Hit = true
	}

	vecUp := geom.SafeNormalize(top.Sub(base), geom.Up)
	p2 := pos.Add(vecUp.Mul(r))
	p1 := top.Sub(vecUp.Mul(r))

	var vh mgl32.Vec3
	for _, tri := range mesh.CapsuleQuery(p1, p2, r) {
		if tri.Normal().Dot(geom.Up) > phys.Wall {
			continue
		}
		_, add := geom.ClosestSegmentTriangle(p1, p2, tri)
		add[1] = pos[1]
		d := pos.Sub(add)
		if l := r - d.Len(); l > 0 {
			vh = vh.Add(d.Mul(l))
			hit.Hit = true
		}
	}

	if !hit.Hit {
		return scene.HitInfo{}
	}
	pos = pos.Add(vh)
	hit.Push = pos.Sub(base)
	hit.Position = pos
	return hit
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
