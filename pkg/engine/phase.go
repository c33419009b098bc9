// pkg/engine/phase.go
package engine

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-planes/pkg/event"
	"github.com/opd-ai/go-planes/pkg/state"
)

// ErrInvalidTransition is returned when a phase change is requested from a
// phase that does not allow it.
var ErrInvalidTransition = errors.New("invalid phase transition")

// PhaseController sequences the race lifecycle. It is the only holder of
// the store's status writer.
type PhaseController struct {
	store   *state.Store
	writer  *state.StatusWriter
	publish func(event.Event)
}

// NewPhaseController creates a controller publishing transitions on bus.
// A nil bus drops events.
func NewPhaseController(store *state.Store, writer *state.StatusWriter, bus *event.Bus) *PhaseController {
	publish := func(event.Event) {}
	if bus != nil {
		publish = bus.Publish
	}
	return &PhaseController{store: store, writer: writer, publish: publish}
}

// Phase returns the current phase.
func (pc *PhaseController) Phase() state.Phase {
	return pc.store.Status()
}

// PhysicsActive reports whether flight, escorts and the race clock run.
func (pc *PhaseController) PhysicsActive() bool {
	return pc.Phase() == state.PhasePlaying
}

// BeginRace moves from intro to playing once the countdown completes.
func (pc *PhaseController) BeginRace() error {
	return pc.transition(state.PhasePlaying, state.PhaseIntro)
}

// Pause freezes a race in progress.
func (pc *PhaseController) Pause() error {
	return pc.transition(state.PhasePaused, state.PhasePlaying)
}

// Resume continues a paused race.
func (pc *PhaseController) Resume() error {
	return pc.transition(state.PhasePlaying, state.PhasePaused)
}

// Reset returns to intro and clears the race record. It is accepted after
// a finish, as an abort while paused, and as a no-op repeat in intro.
func (pc *PhaseController) Reset() error {
	from := pc.Phase()
	switch from {
	case state.PhaseFinished, state.PhasePaused, state.PhaseIntro:
	default:
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, from)
	}

	pc.writer.Reset()
	if from != state.PhaseIntro {
		pc.publish(event.NewPhaseEvent(pc, from.String(), state.PhaseIntro.String()))
	}
	pc.publish(&event.BaseEvent{EventType: event.RaceReset, Source: pc})
	return nil
}

// finish ends the race. It reports false when the race was not playing,
// which keeps the finish from triggering twice.
func (pc *PhaseController) finish() bool {
	return pc.transition(state.PhaseFinished, state.PhasePlaying) == nil
}

func (pc *PhaseController) transition(to state.Phase, allowed ...state.Phase) error {
	from := pc.Phase()
	for _, p := range allowed {
		if p == from {
			pc.writer.SetStatus(to)
			pc.publish(event.NewPhaseEvent(pc, from.String(), to.String()))
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}
