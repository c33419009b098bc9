// cmd/planes/terminal.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-planes/pkg/engine"
	"github.com/opd-ai/go-planes/pkg/input"
	"github.com/opd-ai/go-planes/pkg/logging"
	"github.com/opd-ai/go-planes/pkg/render"
	"github.com/opd-ai/go-planes/pkg/state"
)

const (
	// terminalFrame is the redraw interval of the terminal driver.
	terminalFrame = time.Second / 30
	// holdWindow covers the gap before a terminal starts auto-repeating.
	holdWindow = 300 * time.Millisecond
)

// action is a one-shot key command.
type action int

const (
	actionNone action = iota
	actionStart
	actionPause
	actionReset
	actionBiome
	actionWeather
	actionQuit
)

// arrowKeys maps tcell's special keys to flight keys.
var arrowKeys = map[tcell.Key]input.Key{
	tcell.KeyUp:    input.KeyArrowUp,
	tcell.KeyDown:  input.KeyArrowDown,
	tcell.KeyLeft:  input.KeyArrowLeft,
	tcell.KeyRight: input.KeyArrowRight,
}

// translateKey splits a key event into a held flight key or a command.
func translateKey(ev *tcell.EventKey) (input.Key, action) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return "", actionStart
	case tcell.KeyEscape:
		return "", actionPause
	case tcell.KeyCtrlC:
		return "", actionQuit
	case tcell.KeyRune:
	default:
		return arrowKeys[ev.Key()], actionNone
	}

	switch r := ev.Rune(); r {
	case ' ':
		return "", actionStart
	case 'p', 'P':
		return "", actionPause
	case 'r', 'R':
		return "", actionReset
	case 'b', 'B':
		return "", actionBiome
	case 'n', 'N':
		return "", actionWeather
	case 'q', 'Q':
		return "", actionQuit
	default:
		return input.Key(string(r)), actionNone
	}
}

// apply runs a command against the game. It reports whether to quit.
func apply(ctx context.Context, game *engine.Game, a action, logger *logging.Logger) bool {
	var err error
	switch a {
	case actionQuit:
		return true
	case actionStart:
		if game.Phase() == state.PhaseFinished {
			err = game.RequestReset()
		}
	case actionPause:
		err = game.TogglePause()
	case actionReset:
		err = game.RequestReset()
	case actionBiome:
		game.CycleBiome()
	case actionWeather:
		game.CycleWeather()
	}
	if err != nil {
		logger.Debug(ctx, "action ignored", "error", err.Error())
	}
	return false
}

// runTerminal draws the race in the terminal until the player quits.
func runTerminal(ctx context.Context, session *engine.Session, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	keys := input.NewHoldSource(holdWindow)
	actions := make(chan action, 16)
	go pollKeys(screen, keys, actions)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	out := render.NewTerminalRenderer(screen.Size())
	ticker := time.NewTicker(terminalFrame)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			return nil
		case a := <-actions:
			if apply(ctx, session.Game, a, logger) {
				return nil
			}
		case <-ticker.C:
			gs, err := session.Tick(keys)
			if err != nil {
				logger.Warn(ctx, "frame rolled back", "error", err.Error())
			}

			out.Resize(screen.Size())
			out.SetView(gs.Camera)
			out.SetHUD(session.HUD(gs))
			out.SetSpeedLines(session.SpeedLines.Lines(), session.SpeedLines.Opacity())
			session.Game.Render(out)
			out.Draw(screen)
		}
	}
}

// pollKeys forwards terminal events until the screen is finalised.
func pollKeys(screen tcell.Screen, keys *input.HoldSource, actions chan<- action) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			key, a := translateKey(ev)
			if key != "" {
				keys.Press(key)
			}
			if a != actionNone {
				actions <- a
			}
		}
	}
}
