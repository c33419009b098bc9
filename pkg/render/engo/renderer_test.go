package engo

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/state"
)

func newTestRenderer() (*EngoRenderer, *recordingSink, *[]color.Color) {
	sink := newRecordingSink()
	r := NewEngoRenderer(sink, newTestCamera(level()), NewAssetManager())
	var skies []color.Color
	r.setSky = func(c color.Color) { skies = append(skies, c) }
	return r, sink, &skies
}

func TestEngoRenderer_GroundFillsBelowHorizon(t *testing.T) {
	r, sink, _ := newTestRenderer()
	if len(sink.added) != 1 {
		t.Fatalf("Expected the ground sprite, got %d sprites", len(sink.added))
	}

	r.Clear()
	if r.ground.Hidden {
		t.Fatal("Expected ground visible from a level camera")
	}
	if r.ground.Width != 800 {
		t.Errorf("Expected full-width ground, got %v", r.ground.Width)
	}
	if bottom := r.ground.Position.Y + r.ground.Height; math.Abs(float64(bottom)-600) > 1e-3 {
		t.Errorf("Expected ground to reach the bottom edge, got %v+%v", r.ground.Position.Y, r.ground.Height)
	}
}

func TestEngoRenderer_SetScenery(t *testing.T) {
	r, _, skies := newTestRenderer()

	r.SetScenery(state.BiomeDesert, state.WeatherStorm)
	r.SetScenery(state.BiomeCity, state.WeatherStorm)
	r.SetScenery(state.BiomeCity, state.WeatherFog)

	if len(*skies) != 2 {
		t.Fatalf("Expected sky set once per weather change, got %d", len(*skies))
	}
	if (*skies)[0] != SkyColor(state.WeatherStorm) || (*skies)[1] != SkyColor(state.WeatherFog) {
		t.Errorf("Unexpected sky colours %v", *skies)
	}
	if r.ground.Color != GroundColor(state.BiomeCity) {
		t.Errorf("Expected city ground, got %v", r.ground.Color)
	}
}

func TestEngoRenderer_AircraftLifecycle(t *testing.T) {
	r, sink, _ := newTestRenderer()

	player := entity.NewAircraft("LEAD")
	player.Transform.Position = mgl64.Vec3{0, 10, 0}
	escort := entity.NewEscort(entity.EscortID1, "VIPER", mgl64.Vec3{-25, 5, -15}, 250)

	r.Clear()
	r.RenderAircraft(player)
	r.RenderEscort(escort)
	r.RenderAircraft(nil)
	r.Present()

	if len(r.aircraft) != 2 || len(sink.added) != 3 {
		t.Fatalf("Expected 2 aircraft sprites, got %d (%d registered)", len(r.aircraft), len(sink.added))
	}

	// The escort drops out of the next frame.
	r.Clear()
	r.RenderAircraft(player)
	r.Present()
	if !r.aircraft[entity.EscortID1].Hidden {
		t.Error("Expected an undrawn aircraft to hide")
	}
	if len(sink.added) != 3 {
		t.Error("Expected sprites to be reused across frames")
	}

	r.Remove(entity.EscortID1)
	if len(sink.removed) != 1 || len(r.aircraft) != 1 {
		t.Errorf("Expected escort removed, got %d removed and %d left", len(sink.removed), len(r.aircraft))
	}
}

func TestEngoRenderer_HidesWithoutTexture(t *testing.T) {
	r, _, _ := newTestRenderer()
	player := entity.NewAircraft("LEAD")
	player.Transform.Position = mgl64.Vec3{0, 10, 0}

	r.Clear()
	r.RenderAircraft(player)
	if !r.aircraft[entity.PlayerID].Hidden {
		t.Error("Expected aircraft without a texture to stay hidden")
	}
}

func TestEngoRenderer_ImplementsRenderer(t *testing.T) {
	var _ entity.Renderer = (*EngoRenderer)(nil)
}
