// Package camera implements the chase camera. The rig keeps a smoothed base
// pose and layers a fresh shake offset on top each frame, so jitter never
// feeds back into the tracking.
package camera

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/physics"
	"github.com/opd-ai/go-planes/pkg/state"
)

// forwardAxis is the direction an unrotated camera looks.
var forwardAxis = mgl64.Vec3{0, 0, -1}

// Params tunes the rig.
type Params struct {
	MaxSpeed float64

	InitialPosition mgl64.Vec3
	InitialFOV      float64

	BaseFOV      float64
	FOVSpeedGain float64
	FOVRate      float64

	Offset          mgl64.Vec3
	OffsetSpeedGain float64
	FollowRate      float64

	LookAhead    float64
	LookIntoTurn float64
	LookRate     float64

	ShakeGain float64

	OrbitRate         float64
	OrbitRadius       float64
	OrbitHeight       float64
	OrbitCenterZ      float64
	IntroApproachRate float64
}

// DefaultParams returns the stock chase-camera tuning.
func DefaultParams() Params {
	return Params{
		MaxSpeed:          320,
		InitialPosition:   mgl64.Vec3{0, 10, 30},
		InitialFOV:        70,
		BaseFOV:           60,
		FOVSpeedGain:      35,
		FOVRate:           2,
		Offset:            mgl64.Vec3{0, 10, 30},
		OffsetSpeedGain:   5,
		FollowRate:        5,
		LookAhead:         100,
		LookIntoTurn:      0.5,
		LookRate:          5,
		ShakeGain:         0.15,
		OrbitRate:         0.4,
		OrbitRadius:       35,
		OrbitHeight:       10,
		OrbitCenterZ:      10,
		IntroApproachRate: 2,
	}
}

// Pose is a camera placement. FOV is vertical, in degrees.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	FOV         float64
}

// Forward returns the unit view direction.
func (p Pose) Forward() mgl64.Vec3 {
	return p.Orientation.Rotate(forwardAxis)
}

// IsFinite reports whether every component is a finite number.
func (p Pose) IsFinite() bool {
	for _, c := range p.Position {
		if !physics.IsFinite(c) {
			return false
		}
	}
	for _, c := range p.Orientation.V {
		if !physics.IsFinite(c) {
			return false
		}
	}
	return physics.IsFinite(p.Orientation.W) && physics.IsFinite(p.FOV)
}

// State is the rig's restorable state.
type State struct {
	Base  Pose
	Shake mgl64.Vec3
}

// Rig derives the camera pose from the player each frame.
type Rig struct {
	params Params
	base   Pose
	shake  mgl64.Vec3
	rng    *rand.Rand
}

// NewRig creates a rig at its initial pose. A nil rng gets a randomly
// seeded generator; tests pass a seeded one.
func NewRig(params Params, rng *rand.Rand) *Rig {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r := &Rig{params: params, rng: rng}
	r.Reset()
	return r
}

// Reset returns the rig to its initial pose.
func (r *Rig) Reset() {
	r.base = Pose{
		Position:    r.params.InitialPosition,
		Orientation: mgl64.QuatIdent(),
		FOV:         r.params.InitialFOV,
	}
	r.shake = mgl64.Vec3{}
}

// Pose returns the rendered pose: the smoothed base plus this frame's shake.
func (r *Rig) Pose() Pose {
	p := r.base
	p.Position = p.Position.Add(r.shake)
	return p
}

// Base returns the smoothed pose without shake.
func (r *Rig) Base() Pose {
	return r.base
}

// State captures the rig for rollback.
func (r *Rig) State() State {
	return State{Base: r.base, Shake: r.shake}
}

// Restore reinstates a captured state.
func (r *Rig) Restore(s State) {
	r.base = s.Base
	r.shake = s.Shake
}

// Update moves the camera for one frame of the given phase. It returns
// false and leaves the rig untouched when the subject is missing or dt is
// not positive. While paused the rig holds still.
func (r *Rig) Update(phase state.Phase, subject *physics.Transform, kin *physics.Kinematics, elapsed, dt float64) bool {
	if subject == nil || !(dt > 0) {
		return false
	}
	if phase == state.PhasePlaying && kin == nil {
		return false
	}

	r.shake = mgl64.Vec3{}
	switch phase {
	case state.PhaseIntro:
		r.orbit(subject, elapsed, dt)
	case state.PhasePlaying:
		r.chase(subject, kin, dt)
	case state.PhaseFinished:
		r.lookAt(subject.Position)
	}
	return true
}

func (r *Rig) orbit(subject *physics.Transform, elapsed, dt float64) {
	p := r.params
	angle := elapsed * p.OrbitRate
	target := mgl64.Vec3{
		math.Sin(angle) * p.OrbitRadius,
		p.OrbitHeight,
		math.Cos(angle)*p.OrbitRadius + p.OrbitCenterZ,
	}
	r.base.Position = physics.DampVec3(r.base.Position, target, p.IntroApproachRate, dt)
	r.lookAt(subject.Position)
}

func (r *Rig) chase(subject *physics.Transform, kin *physics.Kinematics, dt float64) {
	p := r.params
	ratio := 0.0
	if p.MaxSpeed > 0 {
		ratio = kin.Speed / p.MaxSpeed
	}

	r.base.FOV = physics.Damp(r.base.FOV, p.BaseFOV+ratio*p.FOVSpeedGain, p.FOVRate, dt)

	offset := p.Offset
	offset[2] += ratio * p.OffsetSpeedGain
	r.base.Position = physics.DampVec3(r.base.Position, subject.Position.Add(offset), p.FollowRate, dt)

	lookTarget := subject.Position.Add(kin.Velocity.Scale(p.LookIntoTurn).Extend(-p.LookAhead))
	if target, ok := lookRotation(r.base.Position, lookTarget); ok {
		r.base.Orientation = slerpShortest(r.base.Orientation, target, physics.DampFactor(p.LookRate, dt))
	}

	amount := ratio * p.ShakeGain
	right := r.base.Orientation.Rotate(mgl64.Vec3{1, 0, 0})
	up := r.base.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
	r.shake = right.Mul((r.rng.Float64() - 0.5) * amount).Add(up.Mul((r.rng.Float64() - 0.5) * amount))
}

func (r *Rig) lookAt(target mgl64.Vec3) {
	if q, ok := lookRotation(r.base.Position, target); ok {
		r.base.Orientation = q
	}
}

// lookRotation returns the shortest-arc rotation turning the camera's
// forward axis toward target. It fails when target sits on the eye.
func lookRotation(eye, target mgl64.Vec3) (mgl64.Quat, bool) {
	dir := target.Sub(eye)
	if dir.Len() < 1e-9 {
		return mgl64.Quat{}, false
	}
	return mgl64.QuatBetweenVectors(forwardAxis, dir.Normalize()), true
}

func slerpShortest(from, to mgl64.Quat, amount float64) mgl64.Quat {
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, amount).Normalize()
}
