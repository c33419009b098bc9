package physics

import "github.com/go-gl/mathgl/mgl64"

// Euler holds an aircraft attitude in radians. Yaw is fixed in this game but
// kept so renderers can treat every aircraft the same way.
type Euler struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// Transform is the world placement of an aircraft.
type Transform struct {
	Position mgl64.Vec3
	Rotation Euler
}

// IsFinite reports whether every component of the transform is a finite number.
func (t Transform) IsFinite() bool {
	for _, c := range t.Position {
		if !IsFinite(c) {
			return false
		}
	}
	return IsFinite(t.Rotation.Roll) && IsFinite(t.Rotation.Pitch) && IsFinite(t.Rotation.Yaw)
}
