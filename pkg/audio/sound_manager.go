// Package audio synthesises the engine drone and wind from the shared
// record. Audio is optional: every call is safe when no device opened.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-planes/pkg/state"
)

// Params tunes the sound model.
type Params struct {
	MaxSpeed   float64
	IntroSpeed float64 // speed the sound assumes on the intro screen

	BaseFrequency float64
	FrequencyGain float64
	BaseGain      float64
	GainRange     float64
	WindGain      float64

	IdleFrequency float64
	TimeConstant  float64 // seconds
	Volume        float64 // master, 0 to 1
}

// DefaultParams returns the stock tuning for an aircraft topping out at
// maxSpeed.
func DefaultParams(maxSpeed float64) Params {
	return Params{
		MaxSpeed:      maxSpeed,
		IntroSpeed:    200,
		BaseFrequency: 50,
		FrequencyGain: 150,
		BaseGain:      0.02,
		GainRange:     0.08,
		WindGain:      0.3,
		IdleFrequency: 80,
		TimeConstant:  0.1,
		Volume:        1,
	}
}

// Targets is what the generators glide toward.
type Targets struct {
	Frequency  float64
	EngineGain float64
	WindGain   float64
}

// Targets derives the sound targets from the record. The engine keeps
// running after the finish while the aircraft climbs away. Pause silences
// everything; the pitch holds so a resume does not sweep.
func (p Params) Targets(snap state.Snapshot) Targets {
	speed := snap.Speed
	if snap.Status == state.PhaseIntro {
		speed = p.IntroSpeed
	}
	ratio := 0.0
	if p.MaxSpeed > 0 {
		ratio = speed / p.MaxSpeed
	}

	t := Targets{
		Frequency:  p.BaseFrequency + ratio*p.FrequencyGain,
		EngineGain: p.BaseGain + ratio*p.GainRange,
		WindGain:   ratio * p.WindGain,
	}
	if snap.Status == state.PhasePaused {
		t.EngineGain = 0
		t.WindGain = 0
	}
	return t
}

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	params      Params
	rate        beep.SampleRate
	drone       *Drone
	wind        *Wind
	mixer       *beep.Mixer
	output      *effects.Volume
	initialized bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager(params Params, rate beep.SampleRate) *SoundManager {
	sm := &SoundManager{
		params: params,
		rate:   rate,
		drone:  NewDrone(rate, params.TimeConstant, params.IdleFrequency),
		wind:   NewWind(rate, params.TimeConstant, nil),
		mixer:  &beep.Mixer{},
	}
	sm.mixer.Add(sm.drone, sm.wind)
	sm.output = &effects.Volume{
		Streamer: sm.mixer,
		Base:     2,
		Volume:   math.Log2(math.Max(params.Volume, 1e-6)),
		Silent:   params.Volume <= 0,
	}
	return sm
}

// Initialize opens the audio device and starts playback.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sm.rate, sm.rate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(sm.output)
	sm.initialized = true
	return nil
}

// Initialized reports whether a device is playing.
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Update retargets the generators from the record. It is cheap and safe
// to call every frame, with or without a device.
func (sm *SoundManager) Update(snap state.Snapshot) Targets {
	t := sm.params.Targets(snap)
	sm.drone.SetTarget(t.Frequency, t.EngineGain)
	sm.wind.SetTarget(t.WindGain)
	return t
}

// Streamer returns the mixed output.
func (sm *SoundManager) Streamer() beep.Streamer {
	return sm.output
}

// Cleanup stops playback and closes the audio system
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}
