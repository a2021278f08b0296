package collision

import (
	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

// Model collides against the world-space mesh of the owner's ModelSource.
// It is immovable by default; meshes never collide with each other.
type Model struct {
	Collision
}

func NewModel() *Model {
	m := &Model{Collision: newCollision(KindModel)}
	m.mass = -1
	return m
}

func (m *Model) IsHit(other scene.Collider) scene.HitInfo {
	return isHit(m, other)
}

// mesh returns the owner's world-space mesh, or nil when the owner has no
// model.
func (m *Model) mesh() *geom.Mesh {
	src, ok := scene.GetComponent[ModelSource](m.Owner())
	if !ok {
		return nil
	}
	return src.WorldMesh()
}

func (m *Model) SaveState() any {
	return m.state()
}

func (m *Model) LoadState(decode func(v any) error) error {
	var st collisionState
	if err := decode(&st); err != nil {
		return err
	}
	m.restore(st)
	return nil
}
