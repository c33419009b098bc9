package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/camera"
	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/hud"
	"github.com/opd-ai/go-planes/pkg/physics"
)

// Glyphs used by the terminal view.
const (
	glyphLevel     = 'A'
	glyphBankLeft  = '\\'
	glyphBankRight = '/'
	glyphEscort    = 'w'
	glyphSpeedLine = '\''
	glyphGround    = '.'
)

// bankThreshold is the roll in radians past which the player glyph tilts.
const bankThreshold = 0.3

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2

var (
	styleDefault   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	stylePlayer    = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleEscort    = styleDefault.Foreground(tcell.ColorLime)
	styleGround    = styleDefault.Foreground(tcell.ColorDarkGreen)
	styleSpeedLine = styleDefault.Foreground(tcell.ColorSilver)
	styleHUD       = styleDefault.Foreground(tcell.ColorYellow)
	styleBanner    = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite).Bold(true)
)

// TerminalRenderer draws the chase view as characters. Frames are composed
// in a buffer; Draw copies the last presented frame onto a tcell screen.
type TerminalRenderer struct {
	width  int
	height int
	buffer [][]rune
	styles [][]tcell.Style

	view      camera.Pose
	hud       hud.Model
	hasHUD    bool
	lines     []hud.SpeedLine
	lineAlpha float64
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(width, height int) *TerminalRenderer {
	r := &TerminalRenderer{}
	r.Resize(width, height)
	return r
}

// Resize reallocates the frame buffer.
func (r *TerminalRenderer) Resize(width, height int) {
	r.width = max(width, 0)
	r.height = max(height, 0)
	r.buffer = make([][]rune, r.height)
	r.styles = make([][]tcell.Style, r.height)
	for i := range r.buffer {
		r.buffer[i] = make([]rune, r.width)
		r.styles[i] = make([]tcell.Style, r.width)
	}
	r.Clear()
}

// Size returns the buffer dimensions in cells.
func (r *TerminalRenderer) Size() (int, int) {
	return r.width, r.height
}

// SetView sets the camera the next frame is drawn from.
func (r *TerminalRenderer) SetView(pose camera.Pose) {
	r.view = pose
}

// SetHUD sets the overlay drawn on Present.
func (r *TerminalRenderer) SetHUD(m hud.Model) {
	r.hud = m
	r.hasHUD = true
}

// SetSpeedLines sets the camera-space streaks drawn on Present.
func (r *TerminalRenderer) SetSpeedLines(lines []hud.SpeedLine, opacity float64) {
	r.lines = lines
	r.lineAlpha = opacity
}

// worldToScreen projects a world point to a cell.
func (r *TerminalRenderer) worldToScreen(pos mgl64.Vec3) (int, int, bool) {
	return projectCell(r.view, pos, r.width, r.height)
}

func projectCell(pose camera.Pose, pos mgl64.Vec3, width, height int) (int, int, bool) {
	p, ok := pose.Project(pos, float64(width), float64(height*cellAspect))
	if !ok {
		return 0, 0, false
	}
	x := int(math.Floor(p.X))
	y := int(math.Floor(p.Y / cellAspect))
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	r.buffer[y][x] = ch
	r.styles[y][x] = style
}

func (r *TerminalRenderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.set(x, y, ch, style)
		x++
	}
}

func (r *TerminalRenderer) centred(y int, s string, style tcell.Style) {
	r.text((r.width-len([]rune(s)))/2, y, s, style)
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
			r.styles[y][x] = styleDefault
		}
	}
	r.drawGround()
}

// drawGround scatters ground markers on a grid under the camera.
func (r *TerminalRenderer) drawGround() {
	if r.width == 0 || r.height == 0 || r.view.FOV <= 0 {
		return
	}
	const spacing = 100.0
	cx := math.Floor(r.view.Position.X()/spacing) * spacing
	cz := math.Floor(r.view.Position.Z()/spacing) * spacing
	for i := -10; i <= 10; i++ {
		for j := -30; j <= 2; j++ {
			pos := mgl64.Vec3{cx + float64(i)*spacing, 0, cz + float64(j)*spacing}
			if x, y, ok := r.worldToScreen(pos); ok {
				r.set(x, y, glyphGround, styleGround)
			}
		}
	}
}

// RenderAircraft implements entity.Renderer
func (r *TerminalRenderer) RenderAircraft(aircraft *entity.Aircraft) {
	if aircraft == nil {
		return
	}
	if x, y, ok := r.worldToScreen(aircraft.Transform.Position); ok {
		r.set(x, y, bankGlyph(aircraft.Transform.Rotation), stylePlayer)
	}
}

// RenderEscort implements entity.Renderer
func (r *TerminalRenderer) RenderEscort(escort *entity.Escort) {
	if escort == nil {
		return
	}
	if x, y, ok := r.worldToScreen(escort.Transform.Position); ok {
		r.set(x, y, glyphEscort, styleEscort)
	}
}

func bankGlyph(rot physics.Euler) rune {
	switch {
	case rot.Roll > bankThreshold:
		return glyphBankLeft
	case rot.Roll < -bankThreshold:
		return glyphBankRight
	default:
		return glyphLevel
	}
}

// Present implements entity.Renderer. It overlays speed lines and the HUD.
func (r *TerminalRenderer) Present() {
	if r.lineAlpha > 0.05 {
		local := camera.Pose{Orientation: mgl64.QuatIdent(), FOV: r.view.FOV}
		for _, l := range r.lines {
			if x, y, ok := projectCell(local, l.Position, r.width, r.height); ok {
				r.set(x, y, glyphSpeedLine, styleSpeedLine)
			}
		}
	}
	if r.hasHUD {
		r.drawHUD()
	}
}

func (r *TerminalRenderer) drawHUD() {
	m := r.hud
	mid := r.height / 2

	if m.Banner != "" {
		r.centred(mid-1, " "+m.Banner+" ", styleBanner)
	}
	if m.Countdown != "" {
		r.centred(mid+1, m.Countdown, styleHUD)
	}
	if m.Prompt != "" {
		r.centred(mid+1, "[ "+m.Prompt+" ]", styleHUD)
	}
	if !m.Dashboard() {
		r.text(1, r.height-1, m.Biome+" / "+m.Weather, styleHUD)
		return
	}

	r.text(1, 0, fmt.Sprintf("SPD %4d KTS  TRQ %3d  THR %3d%%", m.SpeedKnots, m.Torque, m.Thrust), styleHUD)
	r.text(1, 1, m.DistanceKM, styleHUD)

	barWidth := r.width - 12
	if barWidth > 0 {
		r.text(1, r.height-1, "["+hud.ProgressBar(m.Progress, barWidth)+"]", styleHUD)
		r.text(barWidth+4, r.height-1, fmt.Sprintf("%3.0f%%", m.Progress), styleHUD)
	}
}

// Lines returns the composed frame as text.
func (r *TerminalRenderer) Lines() []string {
	out := make([]string, len(r.buffer))
	for i, row := range r.buffer {
		out[i] = string(row)
	}
	return out
}

// Draw copies the frame onto screen and shows it.
func (r *TerminalRenderer) Draw(screen tcell.Screen) {
	for y := range r.buffer {
		for x, ch := range r.buffer[y] {
			screen.SetContent(x, y, ch, nil, r.styles[y][x])
		}
	}
	screen.Show()
}
