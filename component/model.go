// Package component provides the stock components attached to scene
// objects: static models with named nodes, cameras, spring arms and target
// tracking.
package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

// Model is a static triangle mesh drawn at the owner's transform. Each mesh
// group is a node; a node's matrix sits at the group center and can carry a
// local override set by other components.
type Model struct {
	scene.ComponentBase

	path      string
	mesh      *geom.Mesh
	matrix    mgl32.Mat4
	overrides map[int]mgl32.Mat4

	worldMesh *geom.Mesh
	worldFor  mgl32.Mat4
}

// NewModel wraps an in-memory mesh.
func NewModel(mesh *geom.Mesh) *Model {
	return &Model{
		mesh:      mesh,
		matrix:    mgl32.Ident4(),
		overrides: make(map[int]mgl32.Mat4),
	}
}

// LoadModel reads a Wavefront OBJ file.
func LoadModel(path string) (*Model, error) {
	mesh, err := geom.LoadOBJFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	m := NewModel(mesh)
	m.path = path
	return m, nil
}

func (m *Model) Path() string     { return m.path }
func (m *Model) Mesh() *geom.Mesh { return m.mesh }
func (m *Model) IsValid() bool    { return m.mesh != nil }

// Matrix is the model's placement relative to its owner.
func (m *Model) Matrix() mgl32.Mat4 { return m.matrix }

func (m *Model) SetMatrix(mat mgl32.Mat4) *Model {
	m.matrix = mat
	return m
}

func (m *Model) WorldMatrix() mgl32.Mat4 {
	return m.Owner().Matrix().Mul4(m.matrix)
}

func (m *Model) OldWorldMatrix() mgl32.Mat4 {
	return m.Owner().OldWorldMatrix().Mul4(m.matrix)
}

// WorldMesh returns the mesh in world space. The transformed copy is cached
// until the world matrix changes.
func (m *Model) WorldMesh() *geom.Mesh {
	if m.mesh == nil {
		return nil
	}
	world := m.WorldMatrix()
	if m.worldMesh == nil || world != m.worldFor {
		m.worldMesh = m.mesh.Transform(world)
		m.worldFor = world
	}
	return m.worldMesh
}

func (m *Model) NodesName() []string {
	if m.mesh == nil {
		return nil
	}
	names := make([]string, len(m.mesh.Groups))
	for i, g := range m.mesh.Groups {
		names[i] = g.Name
	}
	return names
}

// NodeIndex returns the index of the named node, or -1.
func (m *Model) NodeIndex(name string) int {
	if m.mesh == nil {
		return -1
	}
	if i, ok := m.mesh.GroupIndex(name); ok {
		return i
	}
	return -1
}

// NodeMatrix returns the world matrix of a node: the model's world matrix
// moved to the node's center, with the node override applied on top.
func (m *Model) NodeMatrix(node int) (mgl32.Mat4, bool) {
	base, ok := m.nodeBase(node)
	if !ok {
		return mgl32.Ident4(), false
	}
	if o, ok := m.overrides[node]; ok {
		base = base.Mul4(o)
	}
	return base, true
}

// NodePosition is NodeMatrix by node name.
func (m *Model) NodePosition(name string) (mgl32.Mat4, bool) {
	return m.NodeMatrix(m.NodeIndex(name))
}

// SetNodeMatrix replaces the local override of a node.
func (m *Model) SetNodeMatrix(node int, mat mgl32.Mat4) {
	if m.mesh == nil || node < 0 || node >= len(m.mesh.Groups) {
		return
	}
	if mat == mgl32.Ident4() {
		delete(m.overrides, node)
		return
	}
	m.overrides[node] = mat
}

func (m *Model) nodeBase(node int) (mgl32.Mat4, bool) {
	if m.mesh == nil || node < 0 || node >= len(m.mesh.Groups) {
		return mgl32.Mat4{}, false
	}
	c := m.mesh.GroupCenter(node)
	return m.WorldMatrix().Mul4(mgl32.Translate3D(c[0], c[1], c[2])), true
}

type modelState struct {
	Path   string     `yaml:"path,omitempty"`
	Mesh   *geom.Mesh `yaml:"mesh,omitempty"`
	Matrix mgl32.Mat4 `yaml:"matrix"`
}

// SaveState records the file path of a loaded model, or the whole mesh of an
// in-memory one.
func (m *Model) SaveState() any {
	st := modelState{Path: m.path, Matrix: m.matrix}
	if m.path == "" {
		st.Mesh = m.mesh
	}
	return st
}

func (m *Model) LoadState(decode func(v any) error) error {
	var st modelState
	if err := decode(&st); err != nil {
		return err
	}
	m.path = st.Path
	m.mesh = st.Mesh
	m.matrix = st.Matrix
	m.overrides = make(map[int]mgl32.Mat4)
	m.worldMesh = nil
	if st.Path != "" {
		mesh, err := geom.LoadOBJFile(st.Path)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		m.mesh = mesh
	}
	return nil
}
