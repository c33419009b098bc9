// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Game event types
const (
	PhaseChanged  Type = "phase_changed"
	RaceStarted   Type = "race_started"
	RaceFinished  Type = "race_finished"
	RaceReset     Type = "race_reset"
	FrameDropped  Type = "frame_dropped"
	SceneryChange Type = "scenery_changed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later
type Subscription struct {
	ID   uint64
	Type Type
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publisher's goroutine.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{ID: id, Type: eventType}
}

// Unsubscribe removes a previously registered handler. Unknown or nil
// subscriptions are ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[sub.Type]
	for i, r := range regs {
		if r.id == sub.ID {
			next := make([]registration, 0, len(regs)-1)
			next = append(next, regs[:i]...)
			b.handlers[sub.Type] = append(next, regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// PhaseEvent reports a phase transition. Phases are carried as their
// names so this package stays free of game types.
type PhaseEvent struct {
	BaseEvent
	From string
	To   string
}

// NewPhaseEvent creates a new phase event
func NewPhaseEvent(source interface{}, from, to string) *PhaseEvent {
	return &PhaseEvent{
		BaseEvent: BaseEvent{EventType: PhaseChanged, Source: source},
		From:      from,
		To:        to,
	}
}

// RaceEvent carries race results for started, finished and reset events
type RaceEvent struct {
	BaseEvent
	RunID        string
	Distance     float64
	Duration     float64 // seconds of playing time
	TopSpeed     float64
	AverageSpeed float64
	Biome        string
	Weather      string
}

// NewRaceEvent creates a new race event
func NewRaceEvent(eventType Type, source interface{}, runID string) *RaceEvent {
	return &RaceEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		RunID:     runID,
	}
}

// FrameEvent reports a frame that was skipped or adjusted
type FrameEvent struct {
	BaseEvent
	Reason string
	Delta  float64
}

// NewFrameEvent creates a new frame event
func NewFrameEvent(source interface{}, reason string, delta float64) *FrameEvent {
	return &FrameEvent{
		BaseEvent: BaseEvent{EventType: FrameDropped, Source: source},
		Reason:    reason,
		Delta:     delta,
	}
}

// SceneryEvent reports a biome or weather change from the presentation layer
type SceneryEvent struct {
	BaseEvent
	Biome   string
	Weather string
}

// NewSceneryEvent creates a new scenery event
func NewSceneryEvent(source interface{}, biome, weather string) *SceneryEvent {
	return &SceneryEvent{
		BaseEvent: BaseEvent{EventType: SceneryChange, Source: source},
		Biome:     biome,
		Weather:   weather,
	}
}
