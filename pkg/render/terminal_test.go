package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/camera"
	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/hud"
	"github.com/opd-ai/go-planes/pkg/physics"
	"github.com/opd-ai/go-planes/pkg/state"
)

// chaseView looks down -Z from behind and above the origin.
func chaseView() camera.Pose {
	return camera.Pose{Position: mgl64.Vec3{0, 10, 30}, Orientation: mgl64.QuatIdent(), FOV: 90}
}

func newTestTerminal() *TerminalRenderer {
	r := NewTerminalRenderer(80, 24)
	r.SetView(chaseView())
	return r
}

func TestNewTerminalRenderer_CreatesValidRenderer_WithCorrectDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small renderer", 10, 5},
		{"medium renderer", 80, 24},
		{"empty renderer", 0, 0},
		{"negative clamps to empty", -3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(tt.width, tt.height)
			w, h := renderer.Size()

			if w != max(tt.width, 0) || h != max(tt.height, 0) {
				t.Errorf("expected %dx%d, got %dx%d", max(tt.width, 0), max(tt.height, 0), w, h)
			}
			if len(renderer.Lines()) != h {
				t.Errorf("expected %d lines, got %d", h, len(renderer.Lines()))
			}
			for i, line := range renderer.Lines() {
				if len([]rune(line)) != w {
					t.Errorf("row %d: expected width %d, got %d", i, w, len([]rune(line)))
				}
			}
		})
	}
}

func TestRenderAircraft_ProjectsThroughCamera(t *testing.T) {
	tests := []struct {
		name  string
		roll  float64
		glyph rune
	}{
		{"level", 0, glyphLevel},
		{"banked_left", 0.5, glyphBankLeft},
		{"banked_right", -0.5, glyphBankRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestTerminal()
			r.Clear()

			a := entity.NewAircraft("LEAD")
			a.Transform = physics.Transform{Position: mgl64.Vec3{0, 10, 0}, Rotation: physics.Euler{Roll: tt.roll}}
			r.RenderAircraft(a)

			if got := r.buffer[12][40]; got != tt.glyph {
				t.Errorf("Expected %q at screen centre, got %q", tt.glyph, got)
			}
		})
	}
}

func TestRenderEscort_OffsetFromCentre(t *testing.T) {
	r := newTestTerminal()
	r.Clear()
	r.RenderEscort(entity.NewEscort(entity.EscortID1, "VIPER", mgl64.Vec3{10.625, 10, 0}, 250))

	if got := r.buffer[12][48]; got != glyphEscort {
		t.Errorf("Expected escort at (48,12), got %q", got)
	}
}

func TestRender_BehindCameraIsHidden(t *testing.T) {
	r := newTestTerminal()
	r.Clear()

	a := entity.NewAircraft("LEAD")
	a.Transform.Position = mgl64.Vec3{0, 10, 60}
	r.RenderAircraft(a)
	r.RenderAircraft(nil)
	r.RenderEscort(nil)

	for _, line := range r.Lines() {
		if strings.ContainsRune(line, glyphLevel) {
			t.Fatalf("Expected nothing drawn for a point behind the camera, got line %q", line)
		}
	}
}

func TestClear_DrawsGroundBelowHorizon(t *testing.T) {
	r := newTestTerminal()
	r.Clear()

	lines := r.Lines()
	for y := 0; y < 12; y++ {
		if strings.ContainsRune(lines[y], glyphGround) {
			t.Errorf("Expected no ground above the horizon, found on row %d", y)
		}
	}
	found := false
	for y := 12; y < len(lines); y++ {
		if strings.ContainsRune(lines[y], glyphGround) {
			found = true
		}
	}
	if !found {
		t.Error("Expected ground markers below the horizon")
	}
}

func TestPresent_DrawsHUD(t *testing.T) {
	tests := []struct {
		name string
		snap state.Snapshot
		want []string
		skip []string
	}{
		{
			name: "playing",
			snap: state.Snapshot{Status: state.PhasePlaying, Speed: 200, Torque: 131, Distance: 25000},
			want: []string{"SPD  200 KTS", "TRQ 131", "250.00 KM", " 50%"},
			skip: []string{hud.BannerComplete},
		},
		{
			name: "finished",
			snap: state.Snapshot{Status: state.PhaseFinished, Speed: 300, Distance: 50000},
			want: []string{hud.BannerComplete, hud.PromptPlayAgain, "FOREST / CLEAR"},
			skip: []string{"SPD"},
		},
		{
			name: "intro",
			snap: state.Snapshot{Status: state.PhaseIntro, Biome: state.BiomeDesert},
			want: []string{hud.Title, "DESERT"},
			skip: []string{"KTS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestTerminal()
			r.Clear()
			r.SetHUD(hud.Build(tt.snap, 50000, nil))
			r.Present()

			frame := strings.Join(r.Lines(), "\n")
			for _, want := range tt.want {
				if !strings.Contains(frame, want) {
					t.Errorf("Expected frame to contain %q:\n%s", want, frame)
				}
			}
			for _, skip := range tt.skip {
				if strings.Contains(frame, skip) {
					t.Errorf("Expected frame not to contain %q", skip)
				}
			}
		})
	}
}

func TestPresent_SpeedLinesOnlyWhenVisible(t *testing.T) {
	lines := []hud.SpeedLine{{Position: mgl64.Vec3{0, 0, -10}, Length: 30}}

	r := newTestTerminal()
	r.Clear()
	r.SetSpeedLines(lines, 0)
	r.Present()
	if r.buffer[12][40] == glyphSpeedLine {
		t.Error("Expected no streak at zero opacity")
	}

	r.Clear()
	r.SetSpeedLines(lines, 0.3)
	r.Present()
	if r.buffer[12][40] != glyphSpeedLine {
		t.Errorf("Expected streak at screen centre, got %q", r.buffer[12][40])
	}
}

func TestDraw_CopiesFrameToScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(80, 24)

	r := newTestTerminal()
	r.Clear()
	a := entity.NewAircraft("LEAD")
	a.Transform.Position = mgl64.Vec3{0, 10, 0}
	r.RenderAircraft(a)
	r.Present()
	r.Draw(screen)

	ch, _, style, _ := screen.GetContent(40, 12)
	if ch != glyphLevel {
		t.Errorf("Expected %q on screen, got %q", glyphLevel, ch)
	}
	if style != stylePlayer {
		t.Error("Expected player style on screen")
	}
}
