package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func allControls() []Controls {
	var out []Controls
	for mask := 0; mask < 16; mask++ {
		forward, backward := mask&1 != 0, mask&2 != 0
		left, right := mask&4 != 0, mask&8 != 0
		c := Controls{RollHeld: left || right, PitchHeld: forward || backward}
		if left {
			c.Roll++
		}
		if right {
			c.Roll--
		}
		if forward {
			c.Pitch++
		}
		if backward {
			c.Pitch--
		}
		out = append(out, c)
	}
	return out
}

func TestIntegrate_SpeedStaysClamped(t *testing.T) {
	params := DefaultFlightParams()
	steps := []float64{0.001, 1.0 / 60, 0.1, 1, 10}
	starts := []float64{0, 119, 120, 200, 320, 1000}

	for _, c := range allControls() {
		for _, dt := range steps {
			for _, speed := range starts {
				tr := &Transform{}
				k := &Kinematics{Speed: speed}
				for i := 0; i < 20; i++ {
					step := params.Integrate(tr, k, c, dt)
					if step.Speed < params.MinSpeed || step.Speed > params.MaxSpeed {
						t.Fatalf("controls %+v dt %v start %v: speed %v outside [%v, %v]",
							c, dt, speed, step.Speed, params.MinSpeed, params.MaxSpeed)
					}
				}
			}
		}
	}
}

func TestIntegrate_InvalidDeltaIsNoOp(t *testing.T) {
	params := DefaultFlightParams()
	tests := []struct {
		name string
		dt   float64
	}{
		{"zero", 0},
		{"negative", -0.5},
		{"nan", math.NaN()},
		{"positive_inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transform{Position: mgl64.Vec3{10, 20, 0}}
			k := &Kinematics{Velocity: Vector2D{X: 3, Y: -1}, Speed: 200, Roll: 0.2}
			before, beforeK := *tr, *k

			step := params.Integrate(tr, k, Controls{Roll: 1, RollHeld: true}, tt.dt)

			if *tr != before || *k != beforeK {
				t.Errorf("Expected state unchanged, got %+v %+v", *tr, *k)
			}
			if step.DistanceDelta != 0 {
				t.Errorf("Expected zero distance delta, got %v", step.DistanceDelta)
			}
			if step.Speed != 200 {
				t.Errorf("Expected reported speed 200, got %v", step.Speed)
			}
		})
	}
}

func TestIntegrate_NilStateIsNoOp(t *testing.T) {
	params := DefaultFlightParams()
	if step := params.Integrate(nil, &Kinematics{}, Controls{}, 0.016); step != (FlightStep{}) {
		t.Errorf("Expected empty step for nil transform, got %+v", step)
	}
	if step := params.Integrate(&Transform{}, nil, Controls{}, 0.016); step != (FlightStep{}) {
		t.Errorf("Expected empty step for nil kinematics, got %+v", step)
	}
}

func TestIntegrate_SoftBoundPushback(t *testing.T) {
	params := DefaultFlightParams()
	tests := []struct {
		name  string
		pos   mgl64.Vec3
		wantX float64
		wantY float64
	}{
		{"beyond_right", mgl64.Vec3{310, 0, 0}, -3.2, 0},
		{"beyond_left", mgl64.Vec3{-310, 0, 0}, 3.2, 0},
		{"above_ceiling", mgl64.Vec3{0, 210, 0}, 0, -3.2},
		{"below_floor", mgl64.Vec3{0, -110, 0}, 0, 3.2},
		{"inside", mgl64.Vec3{0, 0, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transform{Position: tt.pos}
			k := &Kinematics{Speed: 150}

			params.Integrate(tr, k, Controls{}, 0.016)

			if math.Abs(k.Velocity.X-tt.wantX) > 1e-12 {
				t.Errorf("Expected velocity.x %v, got %v", tt.wantX, k.Velocity.X)
			}
			if math.Abs(k.Velocity.Y-tt.wantY) > 1e-12 {
				t.Errorf("Expected velocity.y %v, got %v", tt.wantY, k.Velocity.Y)
			}
		})
	}
}

func TestIntegrate_ZeroInputIsStepInvariant(t *testing.T) {
	params := DefaultFlightParams()
	start := Kinematics{Speed: 150, Roll: 0.5, Pitch: 0.05}

	trA, kA := &Transform{}, start
	params.Integrate(trA, &kA, Controls{}, 1.0)

	trB, kB := &Transform{}, start
	for i := 0; i < 100; i++ {
		params.Integrate(trB, &kB, Controls{}, 0.01)
	}

	if math.Abs(kA.Roll-kB.Roll) > 1e-9 {
		t.Errorf("Roll differs: one step %v, 100 steps %v", kA.Roll, kB.Roll)
	}
	if math.Abs(kA.Pitch-kB.Pitch) > 1e-9 {
		t.Errorf("Pitch differs: one step %v, 100 steps %v", kA.Pitch, kB.Pitch)
	}
	if math.Abs(kA.Speed-kB.Speed) > 1e-9 {
		t.Errorf("Speed differs: one step %v, 100 steps %v", kA.Speed, kB.Speed)
	}
	if math.Abs(kA.Speed-160) > 1e-9 {
		t.Errorf("Expected cruise acceleration to reach 160, got %v", kA.Speed)
	}
}

func TestIntegrate_ZeroInputConverges(t *testing.T) {
	params := DefaultFlightParams()
	tr := &Transform{}
	k := &Kinematics{Speed: 150, Roll: 1.2, Pitch: -0.7}

	prevRoll := math.Abs(k.Roll)
	for i := 0; i < 60*20; i++ {
		params.Integrate(tr, k, Controls{}, 1.0/60)
		if math.Abs(k.Roll) > prevRoll {
			t.Fatalf("Roll magnitude increased at frame %d: %v > %v", i, math.Abs(k.Roll), prevRoll)
		}
		prevRoll = math.Abs(k.Roll)
	}

	if math.Abs(k.Roll) > 1e-6 || math.Abs(k.Pitch) > 1e-6 {
		t.Errorf("Expected attitude to settle at zero, got roll %v pitch %v", k.Roll, k.Pitch)
	}
	if k.Speed != params.MaxSpeed {
		t.Errorf("Expected level cruise to settle at max speed, got %v", k.Speed)
	}
	if tr.Rotation.Roll != k.Roll || tr.Rotation.Pitch != k.Pitch {
		t.Error("Expected transform attitude to mirror the damped accumulator")
	}
}

func TestIntegrate_HeldPitch(t *testing.T) {
	params := DefaultFlightParams()
	tests := []struct {
		name      string
		controls  Controls
		wantSign  float64
		wantSpeed float64
	}{
		{"nose_down_dives", Controls{Pitch: -1, PitchHeld: true}, -1, params.MaxSpeed},
		{"nose_up_climbs", Controls{Pitch: 1, PitchHeld: true}, 1, params.MinSpeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transform{}
			k := &Kinematics{Speed: 150}
			for i := 0; i < 5*60; i++ {
				params.Integrate(tr, k, tt.controls, 1.0/60)
			}

			target := tt.wantSign * params.PitchAuthority
			if math.Abs(k.Pitch-target) > 0.01 {
				t.Errorf("Expected pitch near %v, got %v", target, k.Pitch)
			}
			if k.Speed != tt.wantSpeed {
				t.Errorf("Expected speed %v, got %v", tt.wantSpeed, k.Speed)
			}
			if math.Signbit(tr.Position.Y()) != math.Signbit(tt.wantSign) {
				t.Errorf("Expected altitude change with sign %v, got y=%v", tt.wantSign, tr.Position.Y())
			}
		})
	}
}

func TestIntegrate_RollDrivesLateralDrift(t *testing.T) {
	params := DefaultFlightParams()
	tr := &Transform{}
	k := &Kinematics{Speed: 200}

	for i := 0; i < 60; i++ {
		params.Integrate(tr, k, Controls{Roll: 1, RollHeld: true}, 1.0/60)
	}

	if k.Roll <= 0 {
		t.Errorf("Expected positive roll for left input, got %v", k.Roll)
	}
	if tr.Position.X() >= 0 {
		t.Errorf("Expected aircraft to drift left, got x=%v", tr.Position.X())
	}
	if tr.Position.Z() != 0 {
		t.Errorf("Expected z to stay fixed, got %v", tr.Position.Z())
	}
}

func TestIntegrate_DistanceAndTorque(t *testing.T) {
	params := DefaultFlightParams()
	k := &Kinematics{Speed: params.MaxSpeed}

	step := params.Integrate(&Transform{}, k, Controls{}, 0.5)

	if step.DistanceDelta != params.MaxSpeed*0.5 {
		t.Errorf("Expected distance delta %v, got %v", params.MaxSpeed*0.5, step.DistanceDelta)
	}
	if step.Torque != 150 {
		t.Errorf("Expected torque 150 at max speed, got %v", step.Torque)
	}
}

func TestCruiseClimboutSway(t *testing.T) {
	params := DefaultFlightParams()

	k := &Kinematics{Speed: 150}
	step := params.Cruise(k, 300)
	if k.Speed != 300 || step.Speed != 300 || step.Torque != params.BaseTorque {
		t.Errorf("Cruise: got speed %v step %+v", k.Speed, step)
	}

	tr := &Transform{}
	params.Climbout(tr, 0.5)
	if tr.Position.Y() != 25 {
		t.Errorf("Climbout: expected y=25, got %v", tr.Position.Y())
	}
	if tr.Rotation.Pitch != -0.5 {
		t.Errorf("Climbout: expected pitch -0.5, got %v", tr.Rotation.Pitch)
	}

	IdleSway(tr, math.Pi/2)
	if math.Abs(tr.Rotation.Roll-0.1) > 1e-12 {
		t.Errorf("IdleSway: expected roll 0.1, got %v", tr.Rotation.Roll)
	}
	if tr.Position.Y() != 25 {
		t.Error("IdleSway must not move the aircraft")
	}
}
