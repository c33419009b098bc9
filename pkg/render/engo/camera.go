// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/camera"
)

// horizonDistance is how far ahead the horizon is sampled.
const horizonDistance = 1e5

// Projection is a world point in screen space.
type Projection struct {
	Point engo.Point
	Scale float32 // pixels per world unit
	Depth float64
}

// CameraSystem maps the game camera's pose onto the window.
type CameraSystem struct {
	pose     camera.Pose
	width    float32
	height   float32
	viewport func() (float32, float32)
}

// NewCameraSystem creates a camera that tracks the window size.
func NewCameraSystem() *CameraSystem {
	return &CameraSystem{
		pose: camera.Pose{Orientation: mgl64.QuatIdent(), FOV: 70},
		viewport: func() (float32, float32) {
			return engo.GameWidth(), engo.GameHeight()
		},
	}
}

// Update refreshes the viewport size.
func (cs *CameraSystem) Update(dt float32) {
	if cs.viewport != nil {
		cs.SetViewport(cs.viewport())
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// SetPose sets the pose for the next frame.
func (cs *CameraSystem) SetPose(p camera.Pose) {
	cs.pose = p
}

// Pose returns the current pose.
func (cs *CameraSystem) Pose() camera.Pose {
	return cs.pose
}

// SetViewport sets the window size in pixels.
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.width = width
	cs.height = height
}

// Viewport returns the window size in pixels.
func (cs *CameraSystem) Viewport() (float32, float32) {
	return cs.width, cs.height
}

// WorldToScreen projects a world point. It reports false for points
// behind the camera.
func (cs *CameraSystem) WorldToScreen(world mgl64.Vec3) (Projection, bool) {
	return cs.project(cs.pose, world)
}

// LocalToScreen projects a point given in camera space.
func (cs *CameraSystem) LocalToScreen(local mgl64.Vec3) (Projection, bool) {
	view := camera.Pose{Orientation: mgl64.QuatIdent(), FOV: cs.pose.FOV}
	return cs.project(view, local)
}

func (cs *CameraSystem) project(pose camera.Pose, world mgl64.Vec3) (Projection, bool) {
	p, ok := pose.Project(world, float64(cs.width), float64(cs.height))
	if !ok {
		return Projection{}, false
	}
	return Projection{
		Point: engo.Point{X: float32(p.X), Y: float32(p.Y)},
		Scale: float32(p.Scale),
		Depth: p.Depth,
	}, true
}

// Horizon returns the screen row of the ground horizon, clamped to the
// viewport. Looking straight down puts it at the top.
func (cs *CameraSystem) Horizon() float32 {
	fwd := cs.pose.Forward()
	flat := mgl64.Vec3{fwd.X(), 0, fwd.Z()}
	if flat.Len() < 1e-6 {
		if fwd.Y() < 0 {
			return 0
		}
		return cs.height
	}
	flat = flat.Normalize()

	far := mgl64.Vec3{
		cs.pose.Position.X() + flat.X()*horizonDistance,
		0,
		cs.pose.Position.Z() + flat.Z()*horizonDistance,
	}
	p, ok := cs.WorldToScreen(far)
	if !ok {
		return 0
	}
	return float32(math.Max(0, math.Min(float64(p.Point.Y), float64(cs.height))))
}
