package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// nearPlane is the closest depth that still projects.
const nearPlane = 0.1

// ScreenPoint is a projected world point. Scale is the on-screen size in
// pixels of one world unit at that depth.
type ScreenPoint struct {
	X     float64
	Y     float64
	Depth float64
	Scale float64
}

// Project maps a world point onto a width x height viewport with the origin
// at the top left. It reports false for points behind the near plane.
func (p Pose) Project(world mgl64.Vec3, width, height float64) (ScreenPoint, bool) {
	if width <= 0 || height <= 0 || p.FOV <= 0 {
		return ScreenPoint{}, false
	}
	view := p.Orientation.Conjugate().Rotate(world.Sub(p.Position))
	depth := -view.Z()
	if depth < nearPlane {
		return ScreenPoint{}, false
	}

	focal := 1 / math.Tan(mgl64.DegToRad(p.FOV)/2)
	aspect := width / height
	ndcX := view.X() * focal / (aspect * depth)
	ndcY := view.Y() * focal / depth

	return ScreenPoint{
		X:     (ndcX + 1) / 2 * width,
		Y:     (1 - ndcY) / 2 * height,
		Depth: depth,
		Scale: focal / depth * height / 2,
	}, true
}
