// Package debugui renders Dear ImGui inspector windows for a scene.World.
// The windows live on a Panel object spawned into the current scene; its GUI
// hook draws them whenever the host calls World.GUI.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/scenery/scene"
)

// InputState tracks whether ImGui is consuming mouse or keyboard input.
// Hosts use it to keep gameplay input from leaking through the windows.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Panel is the object carrying the inspector windows. It ignores pause so
// the performance history keeps recording while the world is stopped.
type Panel struct {
	scene.Object

	browser   *ObjectBrowser
	inspector *Inspector
	perf      *PerformanceStats
	leaks     *LeakView
	input     InputState
}

// Spawn adds a Panel to w's current scene.
func Spawn(w *scene.World) *Panel {
	return scene.CreateObject[Panel](w, scene.WithName("debugui"), scene.WithoutTransform())
}

func (p *Panel) Init() bool {
	p.browser = NewObjectBrowser(100)
	p.inspector = NewInspector()
	p.perf = NewPerformanceStats(120)
	p.leaks = &LeakView{}
	p.Status().On(scene.ObjectDisablePause)
	p.Status().On(scene.ObjectNoDraw)
	return p.Object.Init()
}

// Transient keeps the panel out of saved snapshots.
func (p *Panel) Transient() bool { return true }

func (p *Panel) Update(dt float32) {
	p.perf.Record(dt)
}

func (p *Panel) GUI() {
	p.Object.GUI()

	io := imgui.CurrentIO()
	p.input.WantCaptureMouse = io.WantCaptureMouse()
	p.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	w := p.World()
	p.browser.Render(w)
	p.inspector.Render(w, p.browser.Selected())
	p.perf.Render(w)
	p.leaks.Render(w)
}

// Input returns the capture state seen by the last GUI pass.
func (p *Panel) Input() InputState { return p.input }

func (p *Panel) Browser() *ObjectBrowser        { return p.browser }
func (p *Panel) Performance() *PerformanceStats { return p.perf }
