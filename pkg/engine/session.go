package engine

import (
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-planes/pkg/hud"
	"github.com/opd-ai/go-planes/pkg/input"
)

// FrameListener is called with the committed state after every frame.
type FrameListener func(*GameState)

// Session runs everything a driver does around the simulation each frame:
// it samples input, steps the game, runs the intro countdown that starts
// the race and animates the speed lines.
type Session struct {
	Game       *Game
	Countdown  *hud.Countdown
	SpeedLines *hud.SpeedLines

	sampler   *input.Sampler
	listeners []FrameListener
}

// NewSession wraps g. A nil rng seeds the speed lines randomly.
func NewSession(g *Game, rng *rand.Rand) *Session {
	return &Session{
		Game:       g,
		Countdown:  hud.NewCountdown(g.Config.Race.CountdownTicks, g.Config.Race.CountdownInterval),
		SpeedLines: hud.NewSpeedLines(hud.DefaultSpeedLineParams(), rng),
		sampler:    input.NewSampler(input.DefaultKeyMap()),
	}
}

// OnFrame registers a listener.
func (s *Session) OnFrame(fn FrameListener) {
	s.listeners = append(s.listeners, fn)
}

// Step advances one frame of dt seconds reading keys. The returned state
// is valid even when the frame was rolled back.
func (s *Session) Step(dt float64, keys input.KeySource) (*GameState, error) {
	err := s.Game.Update(dt, s.sampler.Sample(keys))
	s.overlays(s.clamp(dt))
	return s.finish(), err
}

// Tick is Step with the wall-clock delta.
func (s *Session) Tick(keys input.KeySource) (*GameState, error) {
	dt := s.Game.calculateDeltaTime()
	return s.Step(dt, keys)
}

// clamp bounds dt for the overlays the same way the game does.
func (s *Session) clamp(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	return math.Min(dt, s.Game.FrameBudget())
}

func (s *Session) overlays(dt float64) {
	snap := s.Game.Store.Snapshot()
	if s.Countdown.Advance(snap.Status, dt) {
		if err := s.Game.BeginRace(); err != nil {
			s.Game.logger.Warn(s.Game.ctx, "countdown could not start the race", "error", err.Error())
		}
		snap = s.Game.Store.Snapshot()
	}
	s.SpeedLines.Update(snap.Status, snap.Torque, dt)
}

func (s *Session) finish() *GameState {
	gs := s.Game.GetGameState()
	for _, fn := range s.listeners {
		fn(gs)
	}
	return gs
}

// HUD builds the overlay for gs.
func (s *Session) HUD(gs *GameState) hud.Model {
	return hud.Build(gs.Record, gs.RaceDistance, s.Countdown)
}
