// pkg/physics/vector.go
package physics

import "github.com/go-gl/mathgl/mgl64"

// Vector2D is a planar vector. The flight model keeps velocity in the
// world x/y plane only; forward progress is carried by scalar speed.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// IsFinite reports whether both components are finite numbers
func (v Vector2D) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// Extend lifts the vector into 3D with the given z component
func (v Vector2D) Extend(z float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, z}
}
