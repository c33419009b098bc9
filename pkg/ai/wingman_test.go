package ai

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/physics"
)

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles()
	if len(profiles) != 2 {
		t.Fatalf("Expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].CruiseSpeed != 280 || profiles[1].CruiseSpeed != 275 {
		t.Errorf("Unexpected cruise speeds %v and %v", profiles[0].CruiseSpeed, profiles[1].CruiseSpeed)
	}
	if profiles[0].ID == profiles[1].ID {
		t.Error("Expected distinct escort IDs")
	}
}

func TestWingman_LongitudinalDrift(t *testing.T) {
	tests := []struct {
		name        string
		leaderSpeed float64
		wantDelta   float64
	}{
		{"leader_faster_escort_falls_back", 300, (300 - 280) * 0.5 * 0.2},
		{"leader_slower_escort_pulls_ahead", 200, (200 - 280) * 0.5 * 0.2},
		{"matched_speed_holds", 280, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWingman(DefaultProfiles()[0])
			startZ := w.Escort.Position().Z()

			w.Update(&physics.Transform{}, tt.leaderSpeed, 0, 0.5)

			got := w.Escort.Position().Z() - startZ
			if math.Abs(got-tt.wantDelta) > 1e-9 {
				t.Errorf("Expected z delta %v, got %v", tt.wantDelta, got)
			}
		})
	}
}

func TestWingman_TracksLeader(t *testing.T) {
	for i, profile := range DefaultProfiles() {
		w := NewWingman(profile)
		leader := &physics.Transform{Position: mgl64.Vec3{50, 40, 0}}

		// Hold the wave at a fixed phase so the lateral target is static.
		elapsed := -profile.WanderPhase
		for step := 0; step < 600; step++ {
			w.Update(leader, profile.CruiseSpeed, elapsed, 1.0/60)
		}

		wantX := 50 + profile.LateralOffset
		wantY := 40 + profile.VerticalOffset
		pos := w.Escort.Position()
		if math.Abs(pos.X()-wantX) > 0.1 {
			t.Errorf("escort %d: expected x near %v, got %v", i, wantX, pos.X())
		}
		if math.Abs(pos.Y()-wantY) > 0.1 {
			t.Errorf("escort %d: expected y near %v, got %v", i, wantY, pos.Y())
		}
		if w.Escort.Transform.Rotation.Roll != 0 {
			t.Errorf("escort %d: expected level wings at zero wave, got %v", i, w.Escort.Transform.Rotation.Roll)
		}
	}
}

func TestWingman_TrackingIsStepInvariant(t *testing.T) {
	leader := &physics.Transform{Position: mgl64.Vec3{100, 0, 0}}
	profile := DefaultProfiles()[0]

	a := NewWingman(profile)
	a.Update(leader, 280, 0, 1.0)

	b := NewWingman(profile)
	for i := 0; i < 100; i++ {
		b.Update(leader, 280, 0, 0.01)
	}

	if math.Abs(a.Escort.Position().X()-b.Escort.Position().X()) > 1e-9 {
		t.Errorf("Expected equal x, got %v and %v", a.Escort.Position().X(), b.Escort.Position().X())
	}
}

func TestWingman_GuardedNoOp(t *testing.T) {
	w := NewWingman(DefaultProfiles()[1])
	before := w.Escort.GetTransform()

	if w.Update(nil, 300, 1, 0.016) {
		t.Error("Expected false without a leader")
	}
	if w.Update(&physics.Transform{}, 300, 1, 0) {
		t.Error("Expected false for zero dt")
	}
	if w.Escort.GetTransform() != before {
		t.Error("Expected escort untouched")
	}
}

func TestWingman_BankIsCosmetic(t *testing.T) {
	w := NewWingman(DefaultProfiles()[1])
	w.Update(&physics.Transform{}, 275, 0, 0.016)

	// Second escort banks on the cosine wave.
	if math.Abs(w.Escort.Transform.Rotation.Roll-0.5) > 1e-12 {
		t.Errorf("Expected bank 0.5 at t=0, got %v", w.Escort.Transform.Rotation.Roll)
	}
}

func TestWingman_FormationAndReset(t *testing.T) {
	w := NewWingman(DefaultProfiles()[0])

	w.Formation(math.Pi / 2)
	if got := w.Escort.Position(); !got.ApproxEqualThreshold(mgl64.Vec3{-20, 5, 10}, 1e-12) {
		t.Errorf("Expected formation mark with full bob, got %v", got)
	}

	w.Escort.Transform.Rotation.Roll = 0.3
	w.Reset()
	if w.Escort.Position() != (mgl64.Vec3{-20, 0, 20}) {
		t.Errorf("Expected start position, got %v", w.Escort.Position())
	}
	if w.Escort.Transform.Rotation.Roll != 0 {
		t.Error("Expected level wings after reset")
	}
}
