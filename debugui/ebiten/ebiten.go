// Package ebiten hosts a scene.World inside an Ebiten game loop, with an
// optional Dear ImGui overlay.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/scenery/scene"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the ImGui backend and its window. The ini file is
// disabled so window layout is not written next to the binary.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: b}
}

// Host implements ebiten.Game. Update runs the update half of a world frame
// and the GUI hooks; Draw runs the draw half with the target image exposed
// through Screen. An Update that follows another without a Draw in between
// closes the skipped frame first so reclamation still happens once per
// frame.
type Host struct {
	World   *scene.World
	Backend *ImguiBackend

	// OnUpdate runs before each frame. A non-nil error, ebiten.Termination
	// included, stops the game.
	OnUpdate func() error
	// OnDraw runs after the world's draw phases, before the ImGui overlay.
	OnDraw func(screen *ebiten.Image)

	screen  *ebiten.Image
	width   int
	height  int
	pending bool
}

// NewHost hosts w. backend may be nil; the GUI hooks then run without an
// ImGui frame, so no debugui.Panel should be spawned.
func NewHost(w *scene.World, backend *ImguiBackend) *Host {
	return &Host{World: w, Backend: backend}
}

func (h *Host) Update() error {
	if h.OnUpdate != nil {
		if err := h.OnUpdate(); err != nil {
			return err
		}
	}

	if h.pending {
		h.World.Draw()
	}

	if h.Backend != nil {
		h.Backend.BeginFrame()
	}

	dt := float32(1.0 / float64(ebiten.TPS()))
	h.World.PreUpdate()
	h.World.Update(dt)
	h.World.PrePhysics()
	h.World.PostUpdate()
	h.World.GUI()
	h.pending = true

	if h.Backend != nil {
		h.Backend.EndFrame()
	}
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	if h.pending {
		h.screen = screen
		h.World.Draw()
		h.screen = nil
		h.pending = false
	}
	if h.OnDraw != nil {
		h.OnDraw(screen)
	}
	if h.Backend != nil {
		h.Backend.Draw(screen)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.Backend != nil {
		h.Backend.Layout(outsideWidth, outsideHeight)
	}
	h.width, h.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Screen returns the image being drawn, or nil outside the draw phases.
func (h *Host) Screen() *ebiten.Image { return h.screen }

// Size returns the last layout size.
func (h *Host) Size() (width, height int) { return h.width, h.height }

// Run starts the game loop. Without a backend the window is configured here.
func (h *Host) Run(title string, width, height int) error {
	if h.Backend == nil {
		ebiten.SetWindowSize(width, height)
		ebiten.SetWindowTitle(title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(h)
}
