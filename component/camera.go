package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/scene"
)

type CameraBit uint8

const (
	CameraInitialized CameraBit = iota
	CameraCurrent
	CameraDebug
)

// Camera is a perspective camera looking down its owner's Z axis. At most
// one camera per world is current; the first one initialized takes the role
// if none has it.
type Camera struct {
	scene.ComponentBase

	flags  scene.Status[CameraBit]
	fovY   float32
	aspect float32
	near   float32
	far    float32
}

func NewCamera() *Camera {
	return &Camera{
		fovY:   45,
		aspect: 16.0 / 9.0,
		near:   0.1,
		far:    1000,
	}
}

func (c *Camera) Flags() *scene.Status[CameraBit] { return &c.flags }
func (c *Camera) IsCurrent() bool                 { return c.flags.Is(CameraCurrent) }

// SetPerspective sets the vertical field of view in degrees and the clip
// planes.
func (c *Camera) SetPerspective(fovY, near, far float32) *Camera {
	c.fovY, c.near, c.far = fovY, near, far
	return c
}

func (c *Camera) SetAspect(aspect float32) *Camera {
	c.aspect = aspect
	return c
}

func (c *Camera) Init() {
	c.ComponentBase.Init()
	c.flags.On(CameraInitialized)
	if CurrentCamera(c.Owner().World()) == nil {
		c.SetCurrent()
	}
}

func (c *Camera) Exit() {
	c.flags.Off(CameraCurrent)
	c.ComponentBase.Exit()
}

// SetCurrent makes c the world's current camera.
func (c *Camera) SetCurrent() {
	for o := range c.Owner().World().Objects() {
		for other := range scene.Components[*Camera](o) {
			other.flags.Off(CameraCurrent)
		}
	}
	c.flags.On(CameraCurrent)
}

// LookAt turns the owner toward target, keeping its position.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Owner().SetMatrix(geom.LookAtObject(c.Owner().Translate(), target))
}

func (c *Camera) View() mgl32.Mat4 {
	return geom.ViewFromObject(c.Owner().Matrix())
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fovY), c.aspect, c.near, c.far)
}

// Ray returns the world-space ray under a screen position, with y growing
// downward.
func (c *Camera) Ray(x, y float32, width, height int) (origin, dir mgl32.Vec3, err error) {
	view, proj := c.View(), c.Projection()
	win := mgl32.Vec3{x, float32(height) - y, 0}
	origin, err = mgl32.UnProject(win, view, proj, 0, 0, width, height)
	if err != nil {
		return origin, dir, err
	}
	win[2] = 1
	far, err := mgl32.UnProject(win, view, proj, 0, 0, width, height)
	if err != nil {
		return origin, dir, err
	}
	return origin, geom.SafeNormalize(far.Sub(origin), c.Owner().Matrix().Col(2).Vec3()), nil
}

// WorldToScreen projects p to screen coordinates with y growing downward.
// ok is false when p is outside the clip depth range.
func (c *Camera) WorldToScreen(p mgl32.Vec3, width, height int) (mgl32.Vec2, bool) {
	win := mgl32.Project(p, c.View(), c.Projection(), 0, 0, width, height)
	return mgl32.Vec2{win[0], float32(height) - win[1]}, win[2] >= 0 && win[2] <= 1
}

// CurrentCamera returns the current camera of w's scene, or nil.
func CurrentCamera(w *scene.World) *Camera {
	for o := range w.Objects() {
		for c := range scene.Components[*Camera](o) {
			if c.IsCurrent() {
				return c
			}
		}
	}
	return nil
}

// SetCurrentCamera makes the camera of the named object current and returns
// the resulting current camera.
func SetCurrentCamera(w *scene.World, name string) *Camera {
	if o := w.FindObject(name); o != nil {
		if c, ok := scene.GetComponent[*Camera](o); ok {
			c.SetCurrent()
		}
	}
	return CurrentCamera(w)
}

type cameraState struct {
	Flags  uint64  `yaml:"flags"`
	FovY   float32 `yaml:"fov_y"`
	Aspect float32 `yaml:"aspect"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

func (c *Camera) SaveState() any {
	return cameraState{Flags: c.flags.Raw(), FovY: c.fovY, Aspect: c.aspect, Near: c.near, Far: c.far}
}

func (c *Camera) LoadState(decode func(v any) error) error {
	var st cameraState
	if err := decode(&st); err != nil {
		return err
	}
	c.flags.SetRaw(st.Flags)
	c.fovY, c.aspect, c.near, c.far = st.FovY, st.Aspect, st.Near, st.Far
	return nil
}
