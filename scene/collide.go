package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// HitInfo is the result of a collider pair test, handed to OnHit on both
// sides. It is not retained after dispatch.
type HitInfo struct {
	Hit          bool
	Collision    Collider
	Push         mgl32.Vec3
	Position     mgl32.Vec3
	HitCollision Collider
}

// Collider is a component taking part in the pairwise collision sweep.
type Collider interface {
	Component
	IsGroupHit(other Collider) bool
	IsHit(other Collider) HitInfo
	CalcPush(other Collider, push mgl32.Vec3) (self, otherPush mgl32.Vec3, ok bool)
	OnHit(hit HitInfo)
}

// checkCollisions tests every collider of every object against the colliders
// of every later object and dispatches OnHit to both sides of each hit.
func (w *World) checkCollisions(objects []*Object) {
	colliders := make([][]Collider, len(objects))
	for i, o := range objects {
		if !o.status.Is(ObjectInitialized) || o.status.Is(ObjectExited) {
			continue
		}
		for c := range Components[Collider](o) {
			if c.Status().Is(ComponentInitialized) {
				colliders[i] = append(colliders[i], c)
			}
		}
	}

	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			for _, c1 := range colliders[i] {
				for _, c2 := range colliders[j] {
					w.collidePair(c1, c2)
				}
			}
		}
	}
}

func (w *World) collidePair(c1, c2 Collider) {
	if !c1.IsGroupHit(c2) {
		return
	}
	hit := c1.IsHit(c2)
	if !hit.Hit {
		return
	}

	push1, push2, ok := c1.CalcPush(c2, hit.Push)
	if !ok {
		w.log.Debug("immovable colliders overlap",
			zap.String("a", c1.Owner().Name()),
			zap.String("b", c2.Owner().Name()))
	}

	c1.OnHit(HitInfo{
		Hit:          true,
		Collision:    c1,
		Push:         push1,
		Position:     hit.Position,
		HitCollision: c2,
	})
	c2.OnHit(HitInfo{
		Hit:          true,
		Collision:    c2,
		Push:         push2,
		Position:     hit.Position,
		HitCollision: c1,
	})
	w.frameHits++
}
