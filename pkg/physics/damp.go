package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DampFactor returns the blend weight that moves a value toward its target
// with exponential decay at rate (1/s) over dt seconds. Splitting dt into
// smaller steps yields the same total weight.
func DampFactor(rate, dt float64) float64 {
	if !(dt > 0) || !(rate > 0) {
		return 0
	}
	return 1 - math.Exp(-rate*dt)
}

// Damp moves current toward target at the given rate over dt.
func Damp(current, target, rate, dt float64) float64 {
	return current + (target-current)*DampFactor(rate, dt)
}

// DampVec3 is Damp applied per component.
func DampVec3(current, target mgl64.Vec3, rate, dt float64) mgl64.Vec3 {
	return current.Add(target.Sub(current).Mul(DampFactor(rate, dt)))
}

// DragFactor converts a per-frame drag multiplier tuned at referenceFPS into
// the multiplier for an arbitrary dt.
func DragFactor(drag, referenceFPS, dt float64) float64 {
	if !(dt > 0) {
		return 1
	}
	return math.Pow(drag, dt*referenceFPS)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
