package engo

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/camera"
)

func newTestCamera(pose camera.Pose) *CameraSystem {
	cs := NewCameraSystem()
	cs.viewport = func() (float32, float32) { return 800, 600 }
	cs.Update(0)
	cs.SetPose(pose)
	return cs
}

func level() camera.Pose {
	return camera.Pose{Position: mgl64.Vec3{0, 10, 30}, Orientation: mgl64.QuatIdent(), FOV: 90}
}

func TestCameraSystem_Viewport(t *testing.T) {
	cs := newTestCamera(level())
	w, h := cs.Viewport()
	if w != 800 || h != 600 {
		t.Errorf("Expected 800x600, got %vx%v", w, h)
	}
}

func TestCameraSystem_WorldToScreen(t *testing.T) {
	cs := newTestCamera(level())

	tests := []struct {
		name  string
		world mgl64.Vec3
		x, y  float32
		ok    bool
	}{
		{"ahead_centre", mgl64.Vec3{0, 10, 0}, 400, 300, true},
		{"above_edge", mgl64.Vec3{0, 40, 0}, 400, 0, true},
		{"behind", mgl64.Vec3{0, 10, 60}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := cs.WorldToScreen(tt.world)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if math.Abs(float64(p.Point.X-tt.x)) > 1e-3 || math.Abs(float64(p.Point.Y-tt.y)) > 1e-3 {
				t.Errorf("Expected (%v, %v), got (%v, %v)", tt.x, tt.y, p.Point.X, p.Point.Y)
			}
			if p.Depth != 30 {
				t.Errorf("Expected depth 30, got %v", p.Depth)
			}
		})
	}
}

func TestCameraSystem_ScaleShrinksWithDistance(t *testing.T) {
	cs := newTestCamera(level())
	near, _ := cs.WorldToScreen(mgl64.Vec3{0, 10, 0})
	far, _ := cs.WorldToScreen(mgl64.Vec3{0, 10, -270})
	if math.Abs(float64(near.Scale/far.Scale)-10) > 1e-3 {
		t.Errorf("Expected 10x scale ratio, got %v", near.Scale/far.Scale)
	}
}

func TestCameraSystem_LocalToScreenIgnoresPose(t *testing.T) {
	pose := level()
	pose.Position = mgl64.Vec3{500, 500, 500}
	cs := newTestCamera(pose)

	p, ok := cs.LocalToScreen(mgl64.Vec3{0, 0, -10})
	if !ok {
		t.Fatal("Expected local point ahead to project")
	}
	if p.Point.X != 400 || p.Point.Y != 300 {
		t.Errorf("Expected screen centre, got %v", p.Point)
	}
}

func TestCameraSystem_Horizon(t *testing.T) {
	tests := []struct {
		name   string
		pitch  float64
		check  func(y float32) bool
		expect string
	}{
		{"level", 0, func(y float32) bool { return math.Abs(float64(y)-300) < 1 }, "near the centre"},
		{"nose_down", -0.3, func(y float32) bool { return y < 299 }, "above the centre"},
		{"nose_up", 0.3, func(y float32) bool { return y > 301 }, "below the centre"},
		{"straight_down", -math.Pi / 2, func(y float32) bool { return y == 0 }, "at the top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pose := level()
			pose.Orientation = mgl64.QuatRotate(tt.pitch, mgl64.Vec3{1, 0, 0})
			cs := newTestCamera(pose)

			if y := cs.Horizon(); !tt.check(y) {
				t.Errorf("Expected horizon %s, got %v", tt.expect, y)
			}
		})
	}
}

func TestCameraSystem_EmptyViewport(t *testing.T) {
	cs := NewCameraSystem()
	cs.viewport = func() (float32, float32) { return 0, 0 }
	cs.Update(0)
	if _, ok := cs.WorldToScreen(mgl64.Vec3{0, 0, -10}); ok {
		t.Error("Expected no projection without a viewport")
	}
}
