package debugui

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/scene"
)

var objectBits = []struct {
	name string
	bit  scene.ObjectBit
}{
	{"NoUpdate", scene.ObjectNoUpdate},
	{"NoDraw", scene.ObjectNoDraw},
	{"IsPause", scene.ObjectIsPause},
	{"DisablePause", scene.ObjectDisablePause},
	{"ShowGUI", scene.ObjectShowGUI},
}

var componentBits = []struct {
	name string
	bit  scene.ComponentBit
}{
	{"NoUpdate", scene.ComponentNoUpdate},
	{"NoDraw", scene.ComponentNoDraw},
	{"IsPause", scene.ComponentIsPause},
	{"DisablePause", scene.ComponentDisablePause},
}

type procLister interface {
	ProcInfos() iter.Seq[scene.ProcInfo]
}

// Inspector shows one object: its flags, transform, process slots and the
// saved state of each component.
type Inspector struct {
	selected scene.ObjectID
}

func NewInspector() *Inspector {
	return &Inspector{}
}

func (in *Inspector) Render(w *scene.World, selected scene.ObjectID) {
	if !imgui.BeginV("Object Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	in.selected = selected
	if in.selected == 0 {
		imgui.Text("No object selected")
		imgui.End()
		return
	}

	o := w.Lookup(in.selected)
	if o == nil {
		imgui.Text(fmt.Sprintf("Object %d is gone", in.selected))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Name: %s", o.Name()))
	imgui.Text(fmt.Sprintf("ID: %d  Type: %s", o.ID(), typeName(o.Actor())))
	imgui.Text(fmt.Sprintf("Priority: update %s, draw %s", o.UpdatePriority(), o.DrawPriority()))
	if imgui.Button("Release") {
		w.ReleaseObject(o.Actor())
	}
	imgui.Separator()

	for _, b := range objectBits {
		v := o.Status().Is(b.bit)
		if imgui.Checkbox(b.name+"##object", &v) {
			o.Status().Set(b.bit, v)
		}
	}

	if o.Transform() != nil && imgui.TreeNodeStr("Transform") {
		pos := [3]float32(o.Translate())
		if imgui.DragFloat3("Translate", &pos) {
			o.SetTranslate(mgl32.Vec3(pos))
		}
		scale := o.Transform().Scale()
		imgui.Text(fmt.Sprintf("Scale: %.3f %.3f %.3f", scale[0], scale[1], scale[2]))
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Processes") {
		renderProcs(o.ProcInfos())
		imgui.TreePop()
	}

	imgui.Separator()
	for i, c := range collectComponents(o) {
		if !imgui.TreeNodeStr(fmt.Sprintf("%s##%d", typeName(c), i)) {
			continue
		}
		for _, b := range componentBits {
			v := c.Status().Is(b.bit)
			if imgui.Checkbox(fmt.Sprintf("%s##%d", b.name, i), &v) {
				c.Status().Set(b.bit, v)
			}
		}
		if s, ok := c.(scene.StateSaver); ok {
			renderValue("State", reflect.ValueOf(s.SaveState()))
		}
		if p, ok := c.(procLister); ok && imgui.TreeNodeStr(fmt.Sprintf("Processes##%d", i)) {
			renderProcs(p.ProcInfos())
			imgui.TreePop()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func collectComponents(o *scene.Object) []scene.Component {
	var out []scene.Component
	for c := range o.Components() {
		out = append(out, c)
	}
	return out
}

func renderProcs(infos iter.Seq[scene.ProcInfo]) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV("Procs", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}
	imgui.TableSetupColumn("Name")
	imgui.TableSetupColumn("Timing")
	imgui.TableSetupColumn("Priority")
	imgui.TableSetupColumn("Bound")
	imgui.TableHeadersRow()

	for info := range infos {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(info.Name)
		imgui.TableNextColumn()
		imgui.Text(info.Timing.String())
		imgui.TableNextColumn()
		imgui.Text(info.Priority.String())
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%t", info.Bound))
	}
	imgui.EndTable()
}

// renderValue shows a state value read-only. Edits go through the owning
// object, never through the snapshot.
func renderValue(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}
	if val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, f := range stateLayouts.Of(val.Type()) {
				renderValue(f.Label, val.FieldByIndex(f.Index))
			}
			imgui.TreePop()
		}

	case reflect.Float32, reflect.Float64:
		imgui.Text(fmt.Sprintf("%s: %.4f", name, val.Float()))

	case reflect.Array:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
