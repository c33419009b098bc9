package physics

import "math"

// Bounds is the soft flight envelope. Crossing an edge applies a constant
// counter-acceleration rather than a hard clamp, so the aircraft may
// overshoot briefly.
type Bounds struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// FlightParams tunes the arcade flight model.
type FlightParams struct {
	MaxSpeed float64
	MinSpeed float64

	// Drag is the velocity multiplier applied once per frame at DragReferenceFPS.
	Drag             float64
	DragReferenceFPS float64

	RollDampingRate  float64
	PitchDampingRate float64
	AutoLevelRate    float64

	// Authority scales the input axis into a target attitude in radians.
	RollAuthority  float64
	PitchAuthority float64

	LateralForce  float64
	VerticalForce float64

	DiveAcceleration   float64
	ClimbAcceleration  float64
	CruiseAcceleration float64
	PitchDeadband      float64

	Bounds         Bounds
	BoundsPushback float64

	BaseTorque float64
	TorqueGain float64

	ClimboutRate  float64
	ClimboutPitch float64
}

// DefaultFlightParams returns the stock arcade tuning.
func DefaultFlightParams() FlightParams {
	return FlightParams{
		MaxSpeed:           320,
		MinSpeed:           120,
		Drag:               0.98,
		DragReferenceFPS:   60,
		RollDampingRate:    2.5,
		PitchDampingRate:   1.8,
		AutoLevelRate:      1.0,
		RollAuthority:      1.4,
		PitchAuthority:     0.8,
		LateralForce:       120,
		VerticalForce:      90,
		DiveAcceleration:   40,
		ClimbAcceleration:  -20,
		CruiseAcceleration: 10,
		PitchDeadband:      0.1,
		Bounds:             Bounds{MinX: -300, MaxX: 300, MinY: -100, MaxY: 200},
		BoundsPushback:     200,
		BaseTorque:         100,
		TorqueGain:         50,
		ClimboutRate:       50,
		ClimboutPitch:      -0.5,
	}
}

// Controls is one frame of stick input. Roll and Pitch are in [-1, 1];
// the Held flags report whether any key on that axis is down, which is
// what disables auto-levelling.
type Controls struct {
	Roll      float64
	Pitch     float64
	RollHeld  bool
	PitchHeld bool
}

// Kinematics is the player's integrated motion state. Roll and Pitch are
// the damped attitude accumulators that drive the transform.
type Kinematics struct {
	Velocity Vector2D
	Speed    float64
	Roll     float64
	Pitch    float64
}

// IsFinite reports whether every field holds a finite number.
func (k Kinematics) IsFinite() bool {
	return k.Velocity.IsFinite() && IsFinite(k.Speed) && IsFinite(k.Roll) && IsFinite(k.Pitch)
}

// FlightStep is what one integration step reports to the rest of the game.
type FlightStep struct {
	Speed         float64
	Torque        float64
	DistanceDelta float64
}

// SpeedRatio returns speed as a fraction of MaxSpeed.
func (p FlightParams) SpeedRatio(speed float64) float64 {
	if p.MaxSpeed <= 0 {
		return 0
	}
	return speed / p.MaxSpeed
}

// Torque derives the engine torque readout from speed.
func (p FlightParams) Torque(speed float64) float64 {
	return p.BaseTorque + p.SpeedRatio(speed)*p.TorqueGain
}

// Integrate advances the player by dt seconds. A dt that is zero, negative
// or NaN leaves the state untouched and reports a zero distance delta.
func (p FlightParams) Integrate(t *Transform, k *Kinematics, c Controls, dt float64) FlightStep {
	if t == nil || k == nil {
		return FlightStep{}
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		return FlightStep{Speed: k.Speed, Torque: p.Torque(k.Speed)}
	}

	p.updateAttitude(k, c, dt)
	t.Rotation.Roll = k.Roll
	t.Rotation.Pitch = k.Pitch

	force := Vector2D{X: -k.Roll * p.LateralForce, Y: k.Pitch * p.VerticalForce}
	k.Velocity = k.Velocity.Add(force.Scale(dt))
	k.Velocity = k.Velocity.Scale(DragFactor(p.Drag, p.DragReferenceFPS, dt))

	t.Position[0] += k.Velocity.X * dt
	t.Position[1] += k.Velocity.Y * dt

	k.Speed = Clamp(k.Speed+p.acceleration(k.Pitch)*dt, p.MinSpeed, p.MaxSpeed)

	p.applySoftBounds(t, k, dt)

	return FlightStep{
		Speed:         k.Speed,
		Torque:        p.Torque(k.Speed),
		DistanceDelta: k.Speed * dt,
	}
}

func (p FlightParams) updateAttitude(k *Kinematics, c Controls, dt float64) {
	k.Roll = Damp(k.Roll, c.Roll*p.RollAuthority, p.RollDampingRate, dt)
	k.Pitch = Damp(k.Pitch, c.Pitch*p.PitchAuthority, p.PitchDampingRate, dt)

	if !c.RollHeld {
		k.Roll = Damp(k.Roll, 0, p.AutoLevelRate, dt)
	}
	if !c.PitchHeld {
		k.Pitch = Damp(k.Pitch, 0, p.AutoLevelRate, dt)
	}
}

// acceleration picks the longitudinal acceleration for the current pitch:
// diving speeds up, climbing bleeds speed, level flight cruises up slowly.
func (p FlightParams) acceleration(pitch float64) float64 {
	switch {
	case pitch < -p.PitchDeadband:
		return p.DiveAcceleration
	case pitch > p.PitchDeadband:
		return p.ClimbAcceleration
	default:
		return p.CruiseAcceleration
	}
}

func (p FlightParams) applySoftBounds(t *Transform, k *Kinematics, dt float64) {
	push := p.BoundsPushback * dt
	x, y := t.Position[0], t.Position[1]

	if x > p.Bounds.MaxX {
		k.Velocity.X -= push
	}
	if x < p.Bounds.MinX {
		k.Velocity.X += push
	}
	if y > p.Bounds.MaxY {
		k.Velocity.Y -= push
	}
	if y < p.Bounds.MinY {
		k.Velocity.Y += push
	}
}

// Cruise locks the aircraft at a fixed speed, as during the intro flyby.
// The torque readout stays at its base value.
func (p FlightParams) Cruise(k *Kinematics, speed float64) FlightStep {
	if k == nil {
		return FlightStep{}
	}
	k.Speed = speed
	return FlightStep{Speed: speed, Torque: p.BaseTorque}
}

// Climbout pulls the aircraft up and away after the finish line.
func (p FlightParams) Climbout(t *Transform, dt float64) {
	if t == nil || !(dt > 0) {
		return
	}
	t.Position[1] += p.ClimboutRate * dt
	t.Rotation.Pitch = p.ClimboutPitch
}

// IdleSway rocks the aircraft gently while it waits on the intro screen.
func IdleSway(t *Transform, elapsed float64) {
	if t == nil {
		return
	}
	t.Rotation.Roll = math.Sin(elapsed) * 0.1
	t.Rotation.Pitch = math.Cos(elapsed*0.7) * 0.05
}
