// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-planes/pkg/ai"
	"github.com/opd-ai/go-planes/pkg/camera"
	"github.com/opd-ai/go-planes/pkg/config"
	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/event"
	"github.com/opd-ai/go-planes/pkg/input"
	"github.com/opd-ai/go-planes/pkg/logging"
	"github.com/opd-ai/go-planes/pkg/physics"
	"github.com/opd-ai/go-planes/pkg/state"
)

// ErrFrameAborted is returned when a frame was rolled back.
var ErrFrameAborted = errors.New("frame aborted")

// MaxSubsteps bounds how many MaxFrameDelta steps one long frame is split
// into. Time beyond that is dropped.
const MaxSubsteps = 10

// RaceStats is the progress of the current race.
type RaceStats struct {
	Distance     float64
	Elapsed      float64 // seconds of playing time
	TopSpeed     float64
	AverageSpeed float64
}

func (r *RaceStats) advance(step physics.FlightStep, dt float64) {
	r.Distance += step.DistanceDelta
	r.Elapsed += dt
	if step.Speed > r.TopSpeed {
		r.TopSpeed = step.Speed
	}
	if r.Elapsed > 0 {
		r.AverageSpeed = r.Distance / r.Elapsed
	}
}

// Option customises a Game.
type Option func(*Game)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithEventBus shares an existing bus.
func WithEventBus(bus *event.Bus) Option {
	return func(g *Game) { g.EventBus = bus }
}

// WithRand seeds the camera shake.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithMeter records metrics on meter instead of the global provider.
func WithMeter(meter metric.Meter) Option {
	return func(g *Game) { g.meter = meter }
}

// WithClock replaces the wall clock used by Tick.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// Game owns the simulation: the player, the escorts, the camera rig and
// the writer side of the shared store.
type Game struct {
	Config      *config.GameConfig
	Player      *entity.Aircraft
	Wingmen     []*ai.Wingman
	Camera      *camera.Rig
	Store       *state.Store
	EventBus    *event.Bus
	EntityLock  sync.RWMutex
	CurrentTick uint64
	LastUpdate  time.Time
	ElapsedTime float64 // simulated seconds, frozen while paused

	phase     *PhaseController
	telemetry *state.Telemetry
	flight    physics.FlightParams
	race      RaceStats
	runID     string
	baseCtx   context.Context
	ctx       context.Context
	pending   []event.Event

	logger  *logging.Logger
	meter   metric.Meter
	metrics *gameMetrics
	rng     *rand.Rand
	now     func() time.Time
}

// NewGame creates a game in the intro phase. It fails when cfg does not
// validate.
func NewGame(cfg *config.GameConfig, opts ...Option) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, telemetry, writer := state.New()
	store.SetBiome(cfg.Biome())
	store.SetWeather(cfg.Weather())

	game := &Game{
		Config:    cfg,
		Player:    entity.NewAircraft("Maverick"),
		Store:     store,
		telemetry: telemetry,
		flight:    cfg.FlightParams(),
		baseCtx:   context.Background(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(game)
	}
	if game.logger == nil {
		game.logger = logging.Discard()
	}
	if game.EventBus == nil {
		game.EventBus = event.NewEventBus()
	}

	game.ctx = game.baseCtx
	game.metrics = newGameMetrics(game.meter)
	game.Camera = camera.NewRig(cfg.CameraParams(), game.rng)
	for _, p := range cfg.EscortProfiles() {
		game.Wingmen = append(game.Wingmen, ai.NewWingman(p))
	}

	game.phase = NewPhaseController(store, writer, nil)
	game.phase.publish = game.enqueue
	game.LastUpdate = game.now()

	return game, nil
}

// enqueue defers an event until the frame lock is released, so handlers
// may read the game.
func (g *Game) enqueue(e event.Event) {
	g.pending = append(g.pending, e)
}

// unlockAndFlush releases EntityLock and delivers queued events.
func (g *Game) unlockAndFlush() {
	events := g.pending
	g.pending = nil
	g.EntityLock.Unlock()

	for _, e := range events {
		g.EventBus.Publish(e)
	}
}

// Phase returns the current race phase.
func (g *Game) Phase() state.Phase {
	return g.phase.Phase()
}

// PhysicsActive reports whether flight integration runs this frame.
func (g *Game) PhysicsActive() bool {
	return g.phase.PhysicsActive()
}

// RunID returns the id of the current race, or "" before the first start.
func (g *Game) RunID() string {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.runID
}

// Stats returns the frame counters.
func (g *Game) Stats() FrameStats {
	return g.metrics.snapshot()
}

// BeginRace starts the race when the intro countdown completes.
func (g *Game) BeginRace() error {
	g.EntityLock.Lock()
	defer g.unlockAndFlush()

	if err := g.phase.BeginRace(); err != nil {
		return err
	}

	g.race = RaceStats{}
	g.runID = logging.GenerateRunID()
	g.ctx = logging.WithRunID(g.baseCtx, g.runID)
	g.enqueue(event.NewRaceEvent(event.RaceStarted, g, g.runID))
	g.logger.Info(g.ctx, "race started",
		"distance", g.Config.Race.Distance,
		"biome", g.Store.Snapshot().Biome.String())
	return nil
}

// Pause freezes the race.
func (g *Game) Pause() error {
	g.EntityLock.Lock()
	defer g.unlockAndFlush()
	return g.phase.Pause()
}

// Resume continues a paused race. The wall clock restarts so the pause
// does not arrive as one long frame.
func (g *Game) Resume() error {
	g.EntityLock.Lock()
	defer g.unlockAndFlush()

	if err := g.phase.Resume(); err != nil {
		return err
	}
	g.LastUpdate = g.now()
	return nil
}

// TogglePause pauses a running race or resumes a paused one.
func (g *Game) TogglePause() error {
	if g.Phase() == state.PhasePaused {
		return g.Resume()
	}
	return g.Pause()
}

// RequestReset returns to the intro: the record is cleared and every
// entity goes back to its start position.
func (g *Game) RequestReset() error {
	g.EntityLock.Lock()
	defer g.unlockAndFlush()

	if err := g.phase.Reset(); err != nil {
		return err
	}

	g.Player.Reset()
	for _, w := range g.Wingmen {
		w.Reset()
	}
	g.Camera.Reset()
	g.race = RaceStats{}
	g.ElapsedTime = 0
	g.runID = ""
	g.ctx = g.baseCtx
	g.logger.Info(g.ctx, "race reset")
	return nil
}

// CycleBiome switches to the next biome.
func (g *Game) CycleBiome() state.Biome {
	b := g.Store.Snapshot().Biome.Next()
	g.Store.SetBiome(b)
	g.publishScenery()
	return b
}

// CycleWeather switches to the next weather.
func (g *Game) CycleWeather() state.Weather {
	w := g.Store.Snapshot().Weather.Next()
	g.Store.SetWeather(w)
	g.publishScenery()
	return w
}

func (g *Game) publishScenery() {
	snap := g.Store.Snapshot()
	g.EventBus.Publish(event.NewSceneryEvent(g, snap.Biome.String(), snap.Weather.String()))
}

// Tick measures the wall time since the previous frame and updates.
func (g *Game) Tick(axes input.Axes) error {
	return g.Update(g.calculateDeltaTime(), axes)
}

// calculateDeltaTime calculates the time since the last update. Capping is
// left to Update so that it is counted.
func (g *Game) calculateDeltaTime() float64 {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	now := g.now()
	deltaTime := now.Sub(g.LastUpdate).Seconds()
	g.LastUpdate = now
	return deltaTime
}

// Update advances the simulation by dt seconds with the given input.
// Frames longer than MaxFrameDelta run as equal substeps. Each substep
// either commits fully or is rolled back; a rolled back substep ends the
// frame with an error wrapping ErrFrameAborted and the game stays usable.
func (g *Game) Update(dt float64, axes input.Axes) error {
	g.EntityLock.Lock()
	defer g.unlockAndFlush()

	dt, ok := g.sanitizeDelta(dt)
	if !ok {
		return nil
	}

	steps := max(1, int(math.Ceil(dt/g.Config.Race.MaxFrameDelta)))
	sub := dt / float64(steps)
	for range steps {
		if err := g.runFrame(sub, axes); err != nil {
			return err
		}
	}
	return nil
}

// FrameBudget is the longest delta one Update simulates.
func (g *Game) FrameBudget() float64 {
	return g.Config.Race.MaxFrameDelta * MaxSubsteps
}

// sanitizeDelta rejects deltas that would poison the integrators and caps
// frames beyond the budget.
func (g *Game) sanitizeDelta(dt float64) (float64, bool) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		g.dropFrame(ReasonInvalidDelta, dt)
		g.logger.Warn(g.ctx, "skipping frame", "reason", ReasonInvalidDelta, "dt", dt)
		return 0, false
	}
	if limit := g.FrameBudget(); dt > limit {
		g.dropFrame(ReasonClampedDelta, dt)
		g.logger.Debug(g.ctx, "clamping frame", "dt", dt, "limit", limit)
		return limit, true
	}
	return dt, true
}

func (g *Game) dropFrame(reason string, dt float64) {
	g.metrics.drop(g.ctx, reason)
	g.enqueue(event.NewFrameEvent(g, reason, dt))
}

// frameSnapshot holds everything a frame may change before it commits.
type frameSnapshot struct {
	transform  physics.Transform
	kinematics physics.Kinematics
	escorts    []physics.Transform
	camera     camera.State
	race       RaceStats
	elapsed    float64
}

func (g *Game) capture() frameSnapshot {
	s := frameSnapshot{
		transform:  g.Player.Transform,
		kinematics: g.Player.Kinematics,
		camera:     g.Camera.State(),
		race:       g.race,
		elapsed:    g.ElapsedTime,
	}
	for _, w := range g.Wingmen {
		s.escorts = append(s.escorts, w.Escort.Transform)
	}
	return s
}

func (g *Game) restore(s frameSnapshot) {
	g.Player.Transform = s.transform
	g.Player.Kinematics = s.kinematics
	g.Camera.Restore(s.camera)
	g.race = s.race
	g.ElapsedTime = s.elapsed
	for i, w := range g.Wingmen {
		w.Escort.Transform = s.escorts[i]
	}
}

func (g *Game) finite() bool {
	if !g.Player.Transform.IsFinite() || !g.Player.Kinematics.IsFinite() {
		return false
	}
	for _, w := range g.Wingmen {
		if !w.Escort.Transform.IsFinite() {
			return false
		}
	}
	return g.Camera.Pose().IsFinite() && physics.IsFinite(g.race.Distance)
}

func (g *Game) runFrame(dt float64, axes input.Axes) (err error) {
	if g.Player == nil || g.Camera == nil {
		g.dropFrame(ReasonMissingTransform, dt)
		g.logger.Warn(g.ctx, "skipping frame", "reason", ReasonMissingTransform)
		return nil
	}
	if dt == 0 {
		g.metrics.frame(g.ctx, 0)
		return nil
	}

	saved := g.capture()
	defer func() {
		if r := recover(); r != nil {
			g.restore(saved)
			g.dropFrame(ReasonPanic, dt)
			err = fmt.Errorf("%w: %v", ErrFrameAborted, r)
			g.logger.Error(g.ctx, "frame rolled back", err, "tick", g.CurrentTick)
		}
	}()

	step := g.step(dt, axes)

	if !g.finite() {
		g.restore(saved)
		g.dropFrame(ReasonNonFinite, dt)
		err = fmt.Errorf("%w: non-finite state at tick %d", ErrFrameAborted, g.CurrentTick)
		g.logger.Error(g.ctx, "frame rolled back", err, "tick", g.CurrentTick)
		return err
	}

	g.commit(step)
	g.CurrentTick++
	g.metrics.frame(g.ctx, dt)
	return nil
}

// step runs the branch for the current phase against the entities only.
// Nothing outside the snapshot is touched until commit.
func (g *Game) step(dt float64, axes input.Axes) physics.FlightStep {
	phase := g.phase.Phase()
	player := g.Player

	switch phase {
	case state.PhaseIntro:
		g.ElapsedTime += dt
		step := g.flight.Cruise(&player.Kinematics, g.Config.Race.IntroSpeed)
		physics.IdleSway(&player.Transform, g.ElapsedTime)
		for _, w := range g.Wingmen {
			w.Formation(g.ElapsedTime)
		}
		g.updateCamera(phase, dt)
		return step

	case state.PhasePlaying:
		g.ElapsedTime += dt
		controls := axes.Controls(g.Config.Flight.InvertPitch)
		step := g.flight.Integrate(&player.Transform, &player.Kinematics, controls, dt)
		g.race.advance(step, dt)
		for _, w := range g.Wingmen {
			if !w.Update(&player.Transform, step.Speed, g.ElapsedTime, dt) {
				g.dropFrame(ReasonMissingTransform, dt)
			}
		}
		g.updateCamera(phase, dt)
		return step

	case state.PhaseFinished:
		g.ElapsedTime += dt
		g.flight.Climbout(&player.Transform, dt)
		g.updateCamera(phase, dt)
	default:
		g.updateCamera(phase, dt)
	}

	speed := player.Kinematics.Speed
	return physics.FlightStep{Speed: speed, Torque: g.flight.Torque(speed)}
}

func (g *Game) updateCamera(phase state.Phase, dt float64) {
	if !g.Camera.Update(phase, &g.Player.Transform, &g.Player.Kinematics, g.ElapsedTime, dt) {
		g.dropFrame(ReasonMissingTransform, dt)
	}
}

// commit publishes the frame's telemetry and finishes the race when the
// distance is reached.
func (g *Game) commit(step physics.FlightStep) {
	g.telemetry.Publish(step.Speed, step.Torque, g.race.Distance)

	if g.race.Distance < g.Config.Race.Distance || !g.phase.finish() {
		return
	}

	snap := g.Store.Snapshot()
	g.metrics.raceFinished(g.ctx)

	e := event.NewRaceEvent(event.RaceFinished, g, g.runID)
	e.Distance = g.race.Distance
	e.Duration = g.race.Elapsed
	e.TopSpeed = g.race.TopSpeed
	e.AverageSpeed = g.race.AverageSpeed
	e.Biome = snap.Biome.String()
	e.Weather = snap.Weather.String()
	g.enqueue(e)

	g.logger.Info(g.ctx, "race finished",
		"distance", g.race.Distance,
		"duration", g.race.Elapsed,
		"top_speed", g.race.TopSpeed,
		"average_speed", g.race.AverageSpeed)
}

// GameState represents a snapshot of the simulation for renderers
type GameState struct {
	Tick         uint64
	Elapsed      float64
	RunID        string
	Record       state.Snapshot
	Player       AircraftState
	Escorts      []EscortState
	Camera       camera.Pose
	Race         RaceStats
	RaceDistance float64
}

// AircraftState represents a snapshot of the player's aircraft
type AircraftState struct {
	ID         entity.ID
	Callsign   string
	Transform  physics.Transform
	Kinematics physics.Kinematics
}

// EscortState represents a snapshot of a wingman
type EscortState struct {
	ID        entity.ID
	Callsign  string
	Transform physics.Transform
}

// Progress returns race completion in [0, 1].
func (s *GameState) Progress() float64 {
	if s.RaceDistance <= 0 {
		return 0
	}
	return math.Min(s.Record.Distance/s.RaceDistance, 1)
}

// GetGameState returns a snapshot of the current game state
func (g *Game) GetGameState() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	return g.createGameStateSnapshot()
}

// createGameStateSnapshot builds and returns the complete game state.
func (g *Game) createGameStateSnapshot() *GameState {
	gs := &GameState{
		Tick:    g.CurrentTick,
		Elapsed: g.ElapsedTime,
		RunID:   g.runID,
		Record:  g.Store.Snapshot(),
		Player: AircraftState{
			ID:         g.Player.ID,
			Callsign:   g.Player.Callsign,
			Transform:  g.Player.Transform,
			Kinematics: g.Player.Kinematics,
		},
		Camera:       g.Camera.Pose(),
		Race:         g.race,
		RaceDistance: g.Config.Race.Distance,
	}
	for _, w := range g.Wingmen {
		gs.Escorts = append(gs.Escorts, EscortState{
			ID:        w.Escort.ID,
			Callsign:  w.Escort.Callsign,
			Transform: w.Escort.Transform,
		})
	}
	return gs
}

// Render draws every entity through r.
func (g *Game) Render(r entity.Renderer) {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	r.Clear()
	g.Player.Render(r)
	for _, w := range g.Wingmen {
		w.Escort.Render(r)
	}
	r.Present()
}
