// Package state holds the shared game record every subsystem synchronises
// through. Reads are open to anyone; each field group has exactly one
// writer, which receives its handle from New.
package state

import (
	"fmt"
	"strings"
	"sync"
)

// Phase is the race lifecycle state.
type Phase int

const (
	PhaseIntro Phase = iota
	PhasePlaying
	PhasePaused
	PhaseFinished
)

var phaseNames = [...]string{"intro", "playing", "paused", "finished"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Biome selects the scenery set. It never affects flight.
type Biome int

const (
	BiomeForest Biome = iota
	BiomeDesert
	BiomeCity
	BiomeTundra
)

var biomeNames = [...]string{"forest", "desert", "city", "tundra"}

func (b Biome) String() string {
	if b < 0 || int(b) >= len(biomeNames) {
		return fmt.Sprintf("biome(%d)", int(b))
	}
	return biomeNames[b]
}

// Next cycles to the following biome.
func (b Biome) Next() Biome {
	return Biome((int(b) + 1) % len(biomeNames))
}

// ParseBiome accepts a biome name in any case.
func ParseBiome(s string) (Biome, error) {
	for i, name := range biomeNames {
		if strings.EqualFold(s, name) {
			return Biome(i), nil
		}
	}
	return BiomeForest, fmt.Errorf("unknown biome %q", s)
}

// Weather selects the sky and particle set. It never affects flight.
type Weather int

const (
	WeatherClear Weather = iota
	WeatherRain
	WeatherStorm
	WeatherFog
)

var weatherNames = [...]string{"clear", "rain", "storm", "fog"}

func (w Weather) String() string {
	if w < 0 || int(w) >= len(weatherNames) {
		return fmt.Sprintf("weather(%d)", int(w))
	}
	return weatherNames[w]
}

// Next cycles to the following weather.
func (w Weather) Next() Weather {
	return Weather((int(w) + 1) % len(weatherNames))
}

// ParseWeather accepts a weather name in any case.
func ParseWeather(s string) (Weather, error) {
	for i, name := range weatherNames {
		if strings.EqualFold(s, name) {
			return Weather(i), nil
		}
	}
	return WeatherClear, fmt.Errorf("unknown weather %q", s)
}

// DefaultTorque is the idle torque readout.
const DefaultTorque = 100

// Snapshot is a consistent copy of the shared record.
type Snapshot struct {
	Status   Phase
	Speed    float64
	Torque   float64
	Distance float64
	Biome    Biome
	Weather  Weather
}

// Store is the process-wide game record.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// New creates a store in its reset state along with the two writer
// handles. The flight loop keeps the Telemetry handle and the phase
// controller keeps the StatusWriter; nothing else can change those fields.
func New() (*Store, *Telemetry, *StatusWriter) {
	s := &Store{}
	s.snap = Snapshot{Status: PhaseIntro, Torque: DefaultTorque}
	return s, &Telemetry{store: s}, &StatusWriter{store: s}
}

// Snapshot returns the current record.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Status returns the current phase.
func (s *Store) Status() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Status
}

// SetBiome records the presentation layer's biome choice.
func (s *Store) SetBiome(b Biome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Biome = b
}

// SetWeather records the presentation layer's weather choice.
func (s *Store) SetWeather(w Weather) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Weather = w
}

// Telemetry writes speed, torque and distance.
type Telemetry struct {
	store *Store
}

// Publish records one frame of flight output in a single write.
func (t *Telemetry) Publish(speed, torque, distance float64) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.snap.Speed = speed
	t.store.snap.Torque = torque
	t.store.snap.Distance = distance
}

// StatusWriter writes the phase and performs race resets.
type StatusWriter struct {
	store *Store
}

// SetStatus records a new phase.
func (w *StatusWriter) SetStatus(p Phase) {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.snap.Status = p
}

// Reset returns the record to the intro state. Biome is a scenery choice
// and survives the reset.
func (w *StatusWriter) Reset() {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.snap.Status = PhaseIntro
	w.store.snap.Distance = 0
	w.store.snap.Speed = 0
	w.store.snap.Torque = DefaultTorque
	w.store.snap.Weather = WeatherClear
}
