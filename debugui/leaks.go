package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/scenery/scene"
)

// LeakView lists what the last scene switch found still reachable.
type LeakView struct{}

func (lv *LeakView) Render(w *scene.World) {
	if !imgui.BeginV("Leaks", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	leaks := w.Leaks()
	if len(leaks) == 0 {
		imgui.Text("No leaks reported")
		imgui.End()
		return
	}

	warn := imgui.NewVec4(1.0, 0.6, 0.2, 1.0)
	for _, l := range leaks {
		name := l.Object
		if name == "" {
			name = "(orphan components)"
		}
		if imgui.TreeNodeStr(name) {
			for _, c := range l.Components {
				imgui.TextColored(warn, c)
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}
