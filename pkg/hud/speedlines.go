package hud

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/physics"
	"github.com/opd-ai/go-planes/pkg/state"
)

// SpeedLineParams tunes the streak effect.
type SpeedLineParams struct {
	Count           int
	MinRadius       float64
	RadiusSpread    float64
	MinLength       float64
	LengthSpread    float64
	StreamSpeed     float64
	Near            float64 // streaks past this z respawn
	Far             float64
	FarSpread       float64
	TorqueThreshold float64
	Opacity         float64
	FadeRate        float64
}

// DefaultSpeedLineParams returns the stock streak tuning.
func DefaultSpeedLineParams() SpeedLineParams {
	return SpeedLineParams{
		Count:           100,
		MinRadius:       10,
		RadiusSpread:    30,
		MinLength:       20,
		LengthSpread:    50,
		StreamSpeed:     400,
		Near:            50,
		Far:             -200,
		FarSpread:       100,
		TorqueThreshold: 110,
		Opacity:         0.3,
		FadeRate:        2,
	}
}

// SpeedLine is one streak in camera space; it runs along -Z.
type SpeedLine struct {
	Position mgl64.Vec3
	Length   float64
	Speed    float64
}

// SpeedLines streams streaks past the camera while the aircraft is fast.
type SpeedLines struct {
	params  SpeedLineParams
	rng     *rand.Rand
	lines   []SpeedLine
	opacity float64
}

// NewSpeedLines scatters the streaks. A nil rng gets a random seed.
func NewSpeedLines(params SpeedLineParams, rng *rand.Rand) *SpeedLines {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &SpeedLines{params: params, rng: rng, lines: make([]SpeedLine, params.Count)}
	for i := range s.lines {
		s.lines[i] = SpeedLine{
			Position: s.ring(rng.Float64() * params.Far),
			Length:   params.MinLength + rng.Float64()*params.LengthSpread,
			Speed:    1 + rng.Float64()*1.5,
		}
	}
	return s
}

func (s *SpeedLines) ring(z float64) mgl64.Vec3 {
	angle := s.rng.Float64() * 2 * math.Pi
	radius := s.params.MinRadius + s.rng.Float64()*s.params.RadiusSpread
	return mgl64.Vec3{math.Cos(angle) * radius, math.Sin(angle) * radius, z}
}

// Visible reports whether the streaks should be fading in.
func (s *SpeedLines) Visible(phase state.Phase, torque float64) bool {
	return phase == state.PhaseIntro || torque > s.params.TorqueThreshold
}

// Update fades the streaks toward their target opacity and streams them.
func (s *SpeedLines) Update(phase state.Phase, torque, dt float64) {
	if !(dt > 0) {
		return
	}
	target := 0.0
	if s.Visible(phase, torque) {
		target = s.params.Opacity
	}
	s.opacity = physics.Damp(s.opacity, target, s.params.FadeRate, dt)

	for i := range s.lines {
		l := &s.lines[i]
		l.Position[2] += dt * s.params.StreamSpeed * l.Speed
		if l.Position[2] > s.params.Near {
			l.Position = s.ring(s.params.Far - s.rng.Float64()*s.params.FarSpread)
		}
	}
}

// Opacity returns the current streak opacity.
func (s *SpeedLines) Opacity() float64 {
	return s.opacity
}

// Lines returns the streaks. The slice is owned by s.
func (s *SpeedLines) Lines() []SpeedLine {
	return s.lines
}
