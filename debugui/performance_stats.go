package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/scenery/scene"
)

// PerformanceStats keeps a ring of frame times and shows them next to the
// world's per-stage timings, subscriber counts and pause controls.
type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	recorded      int
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Record adds one frame time in seconds.
func (ps *PerformanceStats) Record(dt float32) {
	ps.frameHistory[ps.frameIndex] = dt * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
	ps.recorded = min(ps.recorded+1, ps.historyFrames)
}

// AverageFrameTime returns the mean of the recorded frame times in
// milliseconds, or 0 before the first frame.
func (ps *PerformanceStats) AverageFrameTime() float32 {
	if ps.recorded == 0 {
		return 0
	}
	var sum float32
	for _, ft := range ps.Samples() {
		sum += ft
	}
	return sum / float32(ps.recorded)
}

// Samples returns the recorded frame times, oldest first.
func (ps *PerformanceStats) Samples() []float32 {
	out := make([]float32, 0, ps.recorded)
	start := (ps.frameIndex - ps.recorded + ps.historyFrames) % ps.historyFrames
	for i := 0; i < ps.recorded; i++ {
		out = append(out, ps.frameHistory[(start+i)%ps.historyFrames])
	}
	return out
}

func (ps *PerformanceStats) Render(w *scene.World) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := w.Stats()

	paused := w.IsPause()
	if imgui.Checkbox("Paused", &paused) {
		w.SetPause(paused)
	}
	if paused {
		imgui.SameLine()
		if imgui.Button("Step") {
			w.Step()
		}
	}
	imgui.Separator()

	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Objects: %d (%d pending)", stats.Objects, stats.Pending))
	imgui.Text(fmt.Sprintf("Hits last frame: %d", stats.LastHits))

	avg := ps.AverageFrameTime()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	if samples := ps.Samples(); len(samples) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))
	}

	if imgui.TreeNodeStr("Stages") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("StageTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Stage")
			imgui.TableSetupColumn("Avg (ms)")
			imgui.TableSetupColumn("Min (ms)")
			imgui.TableSetupColumn("Max (ms)")
			imgui.TableHeadersRow()

			for _, st := range stats.Stages {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(st.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.3f", float64(st.AvgDuration.Microseconds())/1000.0))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.3f", float64(st.MinDuration.Microseconds())/1000.0))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.3f", float64(st.MaxDuration.Microseconds())/1000.0))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Subscribers") {
		names := make([]string, 0, len(stats.Subscribers))
		for name := range stats.Subscribers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			imgui.BulletText(fmt.Sprintf("%s: %d", name, stats.Subscribers[name]))
		}
		imgui.TreePop()
	}

	imgui.End()
}
