// Package ai flies the escort aircraft. Each wingman rubber-bands to the
// player: it tracks the player's lateral and vertical position with lag
// and drifts fore and aft according to how its own cruise speed compares
// with the player's.
package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/physics"
)

// Profile describes one wingman's personality.
type Profile struct {
	ID       entity.ID
	Callsign string

	CruiseSpeed    float64
	LateralOffset  float64
	VerticalOffset float64

	// Wander is a sinusoid of elapsed time, shifted by WanderPhase, added to
	// the lateral target. Bank follows the same wave.
	WanderAmplitude float64
	WanderPhase     float64
	BankAmplitude   float64

	TrackRate float64
	DriftGain float64

	// Formation is the intro placement; the bob uses the wander wave.
	Formation    mgl64.Vec3
	BobAmplitude float64

	Start mgl64.Vec3
}

// DefaultProfiles returns the two stock wingmen.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			ID:              entity.EscortID1,
			Callsign:        "Goose",
			CruiseSpeed:     280,
			LateralOffset:   -30,
			WanderAmplitude: 20,
			BankAmplitude:   0.5,
			TrackRate:       1,
			DriftGain:       0.2,
			Formation:       mgl64.Vec3{-20, 0, 10},
			BobAmplitude:    5,
			Start:           mgl64.Vec3{-20, 0, 20},
		},
		{
			ID:              entity.EscortID2,
			Callsign:        "Iceman",
			CruiseSpeed:     275,
			LateralOffset:   30,
			VerticalOffset:  10,
			WanderAmplitude: 20,
			WanderPhase:     math.Pi / 2,
			BankAmplitude:   0.5,
			TrackRate:       1,
			DriftGain:       0.2,
			Formation:       mgl64.Vec3{20, 0, 10},
			BobAmplitude:    5,
			Start:           mgl64.Vec3{20, 0, 20},
		},
	}
}

// Wingman controls one escort.
type Wingman struct {
	Profile Profile
	Escort  *entity.Escort
}

// NewWingman creates the escort described by p at its start position.
func NewWingman(p Profile) *Wingman {
	return &Wingman{
		Profile: p,
		Escort:  entity.NewEscort(p.ID, p.Callsign, p.Start, p.CruiseSpeed),
	}
}

func (w *Wingman) wave(elapsed float64) float64 {
	return math.Sin(elapsed + w.Profile.WanderPhase)
}

// Update flies one frame behind the leader. It returns false without
// touching the escort when there is no leader or dt is not positive.
func (w *Wingman) Update(leader *physics.Transform, leaderSpeed, elapsed, dt float64) bool {
	if leader == nil || w.Escort == nil || !(dt > 0) {
		return false
	}
	p := w.Profile
	t := &w.Escort.Transform

	t.Position[2] -= (p.CruiseSpeed - leaderSpeed) * dt * p.DriftGain

	wave := w.wave(elapsed)
	targetX := leader.Position.X() + p.LateralOffset + wave*p.WanderAmplitude
	targetY := leader.Position.Y() + p.VerticalOffset
	t.Position[0] = physics.Damp(t.Position[0], targetX, p.TrackRate, dt)
	t.Position[1] = physics.Damp(t.Position[1], targetY, p.TrackRate, dt)

	t.Rotation.Roll = wave * p.BankAmplitude
	return true
}

// Formation places the escort on its intro mark with a gentle bob.
func (w *Wingman) Formation(elapsed float64) {
	if w.Escort == nil {
		return
	}
	pos := w.Profile.Formation
	pos[1] += w.wave(elapsed) * w.Profile.BobAmplitude
	w.Escort.Transform.Position = pos
}

// Reset returns the escort to its start position, wings level.
func (w *Wingman) Reset() {
	if w.Escort == nil {
		return
	}
	w.Escort.Transform = physics.Transform{Position: w.Profile.Start}
}
