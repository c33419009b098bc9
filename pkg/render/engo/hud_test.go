package engo

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/hud"
	"github.com/opd-ai/go-planes/pkg/state"
)

func TestLabelsFor(t *testing.T) {
	tests := []struct {
		name string
		snap state.Snapshot
		want Labels
	}{
		{
			name: "intro",
			snap: state.Snapshot{Status: state.PhaseIntro},
			want: Labels{Banner: hud.Title, Scenery: "FOREST / CLEAR"},
		},
		{
			name: "playing",
			snap: state.Snapshot{Status: state.PhasePlaying, Speed: 240, Torque: 125, Distance: 12345, Weather: state.WeatherRain},
			want: Labels{
				Speed:    "240 KTS",
				Torque:   "TORQUE 125",
				Thrust:   "THRUST 75%",
				Distance: "123.45 KM",
				Progress: "25%",
				Scenery:  "FOREST / RAIN",
			},
		},
		{
			name: "finished",
			snap: state.Snapshot{Status: state.PhaseFinished, Distance: 50000, Biome: state.BiomeCity},
			want: Labels{Banner: hud.BannerComplete, Prompt: "[ " + hud.PromptPlayAgain + " ]", Scenery: "CITY / CLEAR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LabelsFor(hud.Build(tt.snap, 50000, nil))
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func newTestHUD() (*HUDSystem, *recordingSink) {
	sink := newRecordingSink()
	cam := newTestCamera(level())
	return NewHUDSystem(sink, cam, NewAssetManager()), sink
}

func TestHUDSystem_RegistersSprites(t *testing.T) {
	_, sink := newTestHUD()
	// Nine labels and three gauge shapes.
	if len(sink.added) != 12 {
		t.Errorf("Expected 12 sprites, got %d", len(sink.added))
	}
}

func TestHUDSystem_Dashboard(t *testing.T) {
	h, _ := newTestHUD()

	snap := state.Snapshot{Status: state.PhasePlaying, Speed: 200, Torque: 140, Distance: 10000}
	h.SetModel(hud.Build(snap, 50000, nil), nil, 0)
	h.Update(0.016)

	if h.speed.Hidden || h.speed.text != "200 KTS" {
		t.Errorf("Expected visible speed label, got %q hidden=%v", h.speed.text, h.speed.Hidden)
	}
	if !h.banner.Hidden || !h.prompt.Hidden {
		t.Error("Expected no banner or prompt while racing")
	}
	if h.barBack.Hidden || h.barFill.Hidden {
		t.Error("Expected progress bar while racing")
	}
	if math.Abs(float64(h.barFill.Width)-60) > 1e-3 {
		t.Errorf("Expected fill width 60, got %v", h.barFill.Width)
	}
	// 140 torque: (140-100)*1.5-90 = -30 degrees, drawn from a right-pointing bar.
	if h.needle.Rotation != -120 {
		t.Errorf("Expected needle rotation -120, got %v", h.needle.Rotation)
	}
}

func TestHUDSystem_Finished(t *testing.T) {
	h, _ := newTestHUD()

	h.SetModel(hud.Build(state.Snapshot{Status: state.PhaseFinished}, 50000, nil), nil, 0)
	h.Update(0.016)

	if h.banner.Hidden || h.banner.text != hud.BannerComplete {
		t.Errorf("Expected completion banner, got %q", h.banner.text)
	}
	if h.prompt.Hidden {
		t.Error("Expected play again prompt")
	}
	if !h.speed.Hidden || !h.barBack.Hidden || !h.needle.Hidden {
		t.Error("Expected dashboard hidden after the finish")
	}
}

func TestHUDSystem_SpeedLines(t *testing.T) {
	h, sink := newTestHUD()
	before := len(sink.added)

	lines := []hud.SpeedLine{
		{Position: mgl64.Vec3{10, 0, -100}, Length: 30},
		{Position: mgl64.Vec3{0, 20, 40}, Length: 30}, // behind the camera
	}

	h.SetModel(hud.Model{Phase: state.PhaseIntro}, lines, 0.3)
	h.Update(0.016)

	if len(sink.added) != before+2 {
		t.Fatalf("Expected 2 streak sprites, got %d", len(sink.added)-before)
	}
	if h.streaks[0].Hidden {
		t.Error("Expected streak ahead of the camera to show")
	}
	if h.streaks[0].Width <= 0 {
		t.Errorf("Expected positive streak length, got %v", h.streaks[0].Width)
	}
	if got := h.streaks[0].Color; got == nil {
		t.Error("Expected streak colour")
	}
	if !h.streaks[1].Hidden {
		t.Error("Expected streak behind the camera to hide")
	}

	h.SetModel(hud.Model{Phase: state.PhasePlaying}, lines, 0)
	h.Update(0.016)
	if !h.streaks[0].Hidden {
		t.Error("Expected streaks hidden at zero opacity")
	}
	if len(sink.added) != before+2 {
		t.Error("Expected streak sprites to be reused")
	}
}
