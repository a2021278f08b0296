package scene

import "fmt"

// Timing identifies a dispatch phase. The declaration order is the phase order.
type Timing uint8

const (
	TimingPreUpdate Timing = iota
	TimingUpdate
	TimingLateUpdate
	TimingPrePhysics
	TimingPostUpdate
	TimingPreDraw
	TimingDraw
	TimingLateDraw
	TimingPostDraw
	TimingShadow
	TimingGbuffer
	TimingLight
	TimingHDR

	timingCount
)

var timingNames = [timingCount]string{
	"PreUpdate",
	"Update",
	"LateUpdate",
	"PrePhysics",
	"PostUpdate",
	"PreDraw",
	"Draw",
	"LateDraw",
	"PostDraw",
	"Shadow",
	"Gbuffer",
	"Light",
	"HDR",
}

// coreTimings are the phases every registered object and initialized
// component subscribes to.
var coreTimings = [...]Timing{
	TimingPreUpdate,
	TimingUpdate,
	TimingLateUpdate,
	TimingPrePhysics,
	TimingPostUpdate,
	TimingPreDraw,
	TimingDraw,
	TimingLateDraw,
	TimingPostDraw,
}

// drawSequence is the firing order used by World.Draw. Render hooks run
// between PreDraw and Draw.
var drawSequence = [...]Timing{
	TimingPreDraw,
	TimingShadow,
	TimingGbuffer,
	TimingLight,
	TimingHDR,
	TimingDraw,
	TimingLateDraw,
	TimingPostDraw,
}

func (t Timing) String() string {
	if t < timingCount {
		return timingNames[t]
	}
	return fmt.Sprintf("Timing(%d)", uint8(t))
}

// ParseTiming is the inverse of String.
func ParseTiming(s string) (Timing, error) {
	for i, name := range timingNames {
		if name == s {
			return Timing(i), nil
		}
	}
	return 0, fmt.Errorf("unknown timing %q", s)
}

// Valid reports whether t names a known phase.
func (t Timing) Valid() bool { return t < timingCount }

// HasDelta reports whether callbacks at t receive the frame delta.
func (t Timing) HasDelta() bool {
	return t == TimingUpdate || t == TimingLateUpdate
}

// IsUpdate reports whether t is gated by pause and the no-update flag.
func (t Timing) IsUpdate() bool {
	switch t {
	case TimingPreUpdate, TimingUpdate, TimingLateUpdate, TimingPostUpdate:
		return true
	}
	return false
}

// IsDraw reports whether t is gated by the no-draw flag.
func (t Timing) IsDraw() bool {
	switch t {
	case TimingPreDraw, TimingDraw, TimingLateDraw, TimingPostDraw:
		return true
	}
	return false
}

// systemProcName is the slot name used for the built-in hook at t.
func systemProcName(t Timing) string {
	return "__system_" + t.String()
}
