package ebiten_test

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/plus3/scenery/debugui"
	debugui_ebiten "github.com/plus3/scenery/debugui/ebiten"
	"github.com/plus3/scenery/scene"
)

type playground struct {
	scene.SceneBase
}

func Example() {
	world := scene.NewWorld(scene.WithLogger(zap.NewExample()))
	scene.Change[playground](world)

	// The inspector windows need the ImGui backend.
	backend := debugui_ebiten.NewImguiBackend("Scene Inspector", 1280, 720)
	debugui.Spawn(world)

	host := debugui_ebiten.NewHost(world, backend)
	host.OnUpdate = func() error {
		if ebiten.IsKeyPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		return nil
	}
	host.OnDraw = func(screen *ebiten.Image) {
		ebitenutil.DebugPrint(screen, "Esc to quit")
	}

	if err := host.Run("Scene Inspector", 1280, 720); err != nil {
		panic(err)
	}
}
