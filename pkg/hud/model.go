package hud

import (
	"fmt"
	"math"
	"strings"

	"github.com/opd-ai/go-planes/pkg/state"
)

// Banner texts.
const (
	Title           = "PLANES"
	BannerComplete  = "MISSION COMPLETE"
	BannerPaused    = "PAUSED"
	PromptPlayAgain = "PLAY AGAIN"
)

// Model is one frame of HUD content.
type Model struct {
	Phase state.Phase

	// Banner is the large centred text, empty during the race.
	Banner    string
	Countdown string
	Prompt    string

	SpeedKnots int
	Torque     int
	// NeedleAngle is the torque gauge needle in degrees; -90 at base torque.
	NeedleAngle float64
	Thrust      int // percent

	Progress   float64 // percent, capped at 100
	DistanceKM string

	Biome   string
	Weather string
}

// Dashboard reports whether the race readouts are shown.
func (m Model) Dashboard() bool {
	return m.Phase == state.PhasePlaying || m.Phase == state.PhasePaused
}

// Build assembles the HUD for snap. A nil countdown leaves the count blank.
func Build(snap state.Snapshot, raceDistance float64, countdown *Countdown) Model {
	m := Model{
		Phase:       snap.Status,
		SpeedKnots:  int(math.Floor(snap.Speed)),
		Torque:      int(math.Floor(snap.Torque)),
		NeedleAngle: (snap.Torque-state.DefaultTorque)*1.5 - 90,
		Thrust:      int(math.Round(snap.Speed / 3.2)),
		Progress:    Progress(snap.Distance, raceDistance),
		DistanceKM:  fmt.Sprintf("%.2f KM", snap.Distance/100),
		Biome:       strings.ToUpper(snap.Biome.String()),
		Weather:     strings.ToUpper(snap.Weather.String()),
	}

	switch snap.Status {
	case state.PhaseIntro:
		m.Banner = Title
		if countdown != nil {
			m.Countdown = countdown.Label()
		}
	case state.PhasePaused:
		m.Banner = BannerPaused
	case state.PhaseFinished:
		m.Banner = BannerComplete
		m.Prompt = PromptPlayAgain
	}
	return m
}

// Progress returns distance as a percentage of raceDistance, capped at 100.
func Progress(distance, raceDistance float64) float64 {
	if raceDistance <= 0 {
		return 0
	}
	return math.Min(distance/raceDistance*100, 100)
}

// ProgressBar renders progress as a fixed-width text bar.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Floor(percent / 100 * float64(width)))
	filled = max(0, min(filled, width))
	return strings.Repeat("=", filled) + strings.Repeat("-", width-filled)
}
