// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-planes/pkg/input"
	"github.com/opd-ai/go-planes/pkg/logging"
	"github.com/opd-ai/go-planes/pkg/state"
)

// Action button names.
const (
	ButtonStart   = "start"
	ButtonPause   = "pause"
	ButtonReset   = "reset"
	ButtonBiome   = "biome"
	ButtonWeather = "weather"
	ButtonQuit    = "quit"
)

const flightButtonPrefix = "flight:"

// flightKeys maps each logical flight key to its engo key. Shifted letters
// share the letter key.
var flightKeys = map[input.Key]engo.Key{
	input.KeyArrowUp:    engo.KeyArrowUp,
	input.KeyArrowDown:  engo.KeyArrowDown,
	input.KeyArrowLeft:  engo.KeyArrowLeft,
	input.KeyArrowRight: engo.KeyArrowRight,
	input.KeyW:          engo.KeyW,
	input.KeyA:          engo.KeyA,
	input.KeyS:          engo.KeyS,
	input.KeyD:          engo.KeyD,
	input.KeyShiftW:     engo.KeyW,
	input.KeyShiftA:     engo.KeyA,
	input.KeyShiftS:     engo.KeyS,
	input.KeyShiftD:     engo.KeyD,
}

// Button is the part of engo.Button the input system reads.
type Button interface {
	Down() bool
	JustPressed() bool
}

// ButtonReader looks up a registered button by name.
type ButtonReader func(name string) Button

func engoButton(name string) Button {
	return engo.Input.Button(name)
}

// Controller is what the keyboard can ask of the game.
type Controller interface {
	Phase() state.Phase
	TogglePause() error
	RequestReset() error
	CycleBiome() state.Biome
	CycleWeather() state.Weather
}

// InputSystem reads the keyboard once per frame. It is the flight key
// source and dispatches the one-shot actions.
type InputSystem struct {
	game    Controller
	buttons ButtonReader
	exit    func()
	logger  *logging.Logger
}

// NewInputSystem creates a new input system
func NewInputSystem(game Controller, logger *logging.Logger) *InputSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InputSystem{
		game:    game,
		buttons: engoButton,
		exit:    engo.Exit,
		logger:  logger,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update dispatches the actions pressed this frame.
func (is *InputSystem) Update(dt float32) {
	ctx := context.Background()
	pressed := func(name string) bool {
		return is.buttons(name).JustPressed()
	}

	if pressed(ButtonQuit) {
		is.exit()
		return
	}

	switch {
	case pressed(ButtonStart):
		// Start only means something on the results screen.
		if is.game.Phase() == state.PhaseFinished {
			is.report(ctx, "reset", is.game.RequestReset())
		}
	case pressed(ButtonReset):
		is.report(ctx, "reset", is.game.RequestReset())
	case pressed(ButtonPause):
		is.report(ctx, "pause", is.game.TogglePause())
	}

	if pressed(ButtonBiome) {
		is.logger.Debug(ctx, "biome changed", "biome", is.game.CycleBiome().String())
	}
	if pressed(ButtonWeather) {
		is.logger.Debug(ctx, "weather changed", "weather", is.game.CycleWeather().String())
	}
}

func (is *InputSystem) report(ctx context.Context, action string, err error) {
	if err != nil {
		is.logger.Debug(ctx, "action ignored", "action", action, "reason", err.Error())
	}
}

// IsDown implements input.KeySource.
func (is *InputSystem) IsDown(key input.Key) bool {
	if _, ok := flightKeys[key]; !ok {
		return false
	}
	return is.buttons(flightButtonPrefix + string(key)).Down()
}

// SetupInputBindings sets up the key bindings for the game
func SetupInputBindings() {
	for key, code := range flightKeys {
		engo.Input.RegisterButton(flightButtonPrefix+string(key), code)
	}

	engo.Input.RegisterButton(ButtonStart, engo.KeyEnter, engo.KeySpace)
	engo.Input.RegisterButton(ButtonPause, engo.KeyP, engo.KeyEscape)
	engo.Input.RegisterButton(ButtonReset, engo.KeyR)
	engo.Input.RegisterButton(ButtonBiome, engo.KeyB)
	engo.Input.RegisterButton(ButtonWeather, engo.KeyN)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyQ)
}
