// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/hud"
)

// HUD layout in pixels.
const (
	hudMargin     = 20
	hudLineHeight = 26
	barWidth      = 300
	barHeight     = 10
	needleLength  = 44
	needleWidth   = 3
	streakWidth   = 1.5
)

var (
	colorBarBack = color.NRGBA{0, 0, 0, 110}
	colorBarFill = color.NRGBA{255, 210, 60, 230}
	colorNeedle  = color.NRGBA{255, 80, 60, 255}
)

// Labels is the HUD text for one frame. Empty fields are not drawn.
type Labels struct {
	Banner    string
	Countdown string
	Prompt    string
	Speed     string
	Torque    string
	Thrust    string
	Distance  string
	Progress  string
	Scenery   string
}

// LabelsFor formats a HUD model.
func LabelsFor(m hud.Model) Labels {
	l := Labels{
		Banner:    m.Banner,
		Countdown: m.Countdown,
		Scenery:   m.Biome + " / " + m.Weather,
	}
	if m.Prompt != "" {
		l.Prompt = "[ " + m.Prompt + " ]"
	}
	if m.Dashboard() {
		l.Speed = fmt.Sprintf("%d KTS", m.SpeedKnots)
		l.Torque = fmt.Sprintf("TORQUE %d", m.Torque)
		l.Thrust = fmt.Sprintf("THRUST %d%%", m.Thrust)
		l.Distance = m.DistanceKM
		l.Progress = fmt.Sprintf("%.0f%%", m.Progress)
	}
	return l
}

// label is a text sprite.
type label struct {
	*sprite
	font *common.Font
	text string
}

// HUDSystem draws the heads-up display in screen space.
type HUDSystem struct {
	sink   spriteSink
	camera *CameraSystem
	assets *AssetManager

	banner, countdown, prompt   *label
	speed, torque, thrust       *label
	distance, progress, scenery *label
	barBack, barFill, needle    *sprite
	streaks                     []*sprite

	model   hud.Model
	lines   []hud.SpeedLine
	opacity float64
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(sink spriteSink, cam *CameraSystem, assets *AssetManager) *HUDSystem {
	h := &HUDSystem{sink: sink, camera: cam, assets: assets}

	h.banner = h.newLabel(assets.BannerFont())
	h.countdown = h.newLabel(assets.BannerFont())
	for _, l := range []**label{&h.prompt, &h.speed, &h.torque, &h.thrust, &h.distance, &h.progress, &h.scenery} {
		*l = h.newLabel(assets.Font())
	}

	h.barBack = h.newShape(colorBarBack)
	h.barFill = h.newShape(colorBarFill)
	h.needle = h.newShape(colorNeedle)
	return h
}

func (h *HUDSystem) newLabel(f *common.Font) *label {
	l := &label{sprite: newSprite(common.Text{Font: f}, color.White, zHUD), font: f}
	l.Hidden = true
	h.sink.Add(&l.BasicEntity, &l.RenderComponent, &l.SpaceComponent)
	return l
}

func (h *HUDSystem) newShape(c color.Color) *sprite {
	s := newSprite(common.Rectangle{}, c, zHUD)
	s.Hidden = true
	h.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// Remove satisfies the ecs.System interface
func (h *HUDSystem) Remove(basic ecs.BasicEntity) {}

// SetModel sets what the next Update draws.
func (h *HUDSystem) SetModel(m hud.Model, lines []hud.SpeedLine, opacity float64) {
	h.model = m
	h.lines = lines
	h.opacity = opacity
}

// Update lays out the HUD for the current window size.
func (h *HUDSystem) Update(dt float32) {
	w, ht := h.camera.Viewport()
	text := LabelsFor(h.model)

	h.centre(h.banner, text.Banner, w/2, ht/2-90)
	h.centre(h.countdown, text.Countdown, w/2, ht/2)
	h.centre(h.prompt, text.Prompt, w/2, ht/2+20)

	h.place(h.speed, text.Speed, hudMargin, hudMargin)
	h.place(h.torque, text.Torque, hudMargin, hudMargin+hudLineHeight)
	h.place(h.thrust, text.Thrust, hudMargin, hudMargin+2*hudLineHeight)
	h.place(h.distance, text.Distance, w-180, hudMargin)
	h.place(h.progress, text.Progress, w/2+barWidth/2+10, hudMargin-6)
	h.place(h.scenery, text.Scenery, hudMargin, ht-hudMargin-hudLineHeight)

	dashboard := h.model.Dashboard()
	h.barBack.Hidden = !dashboard
	h.barFill.Hidden = !dashboard
	h.needle.Hidden = !dashboard
	if dashboard {
		h.layoutGauges(w, ht)
	}
	h.layoutStreaks()
}

func (h *HUDSystem) layoutGauges(w, ht float32) {
	left := w/2 - barWidth/2
	h.barBack.Position = engo.Point{X: left, Y: hudMargin}
	h.barBack.Width = barWidth
	h.barBack.Height = barHeight

	h.barFill.Position = h.barBack.Position
	h.barFill.Width = barWidth * float32(h.model.Progress/100)
	h.barFill.Height = barHeight
	h.barFill.Hidden = h.barFill.Width <= 0

	// The needle is drawn pointing right and rotated about its base.
	h.needle.Position = engo.Point{X: hudMargin + needleLength + 10, Y: ht - 3*hudMargin - hudLineHeight}
	h.needle.Width = needleLength
	h.needle.Height = needleWidth
	h.needle.Rotation = float32(h.model.NeedleAngle - 90)
}

func (h *HUDSystem) layoutStreaks() {
	visible := h.opacity > 0.01
	alpha := uint8(math.Round(math.Min(h.opacity, 1) * 255))

	for len(h.streaks) < len(h.lines) {
		h.streaks = append(h.streaks, h.newShape(color.White))
	}
	for i, s := range h.streaks {
		if !visible || i >= len(h.lines) {
			s.Hidden = true
			continue
		}
		start, end, ok := h.streak(h.lines[i])
		if !ok {
			s.Hidden = true
			continue
		}
		dx := float64(end.Point.X - start.Point.X)
		dy := float64(end.Point.Y - start.Point.Y)
		s.Hidden = false
		s.Color = color.NRGBA{255, 255, 255, alpha}
		s.Position = start.Point
		s.Width = float32(math.Hypot(dx, dy))
		s.Height = streakWidth
		s.Rotation = float32(mgl64.RadToDeg(math.Atan2(dy, dx)))
	}
}

// streak projects both ends of a speed line, trimming the near end to stay
// in front of the camera.
func (h *HUDSystem) streak(l hud.SpeedLine) (Projection, Projection, bool) {
	far := l.Position
	length := math.Min(l.Length, -far.Z()-1)
	if length <= 0 {
		return Projection{}, Projection{}, false
	}
	near := far.Add(mgl64.Vec3{0, 0, length})

	start, ok := h.camera.LocalToScreen(far)
	if !ok {
		return Projection{}, Projection{}, false
	}
	end, ok := h.camera.LocalToScreen(near)
	if !ok {
		return Projection{}, Projection{}, false
	}
	return start, end, true
}

func (h *HUDSystem) place(l *label, text string, x, y float32) {
	h.setText(l, text)
	l.Position = engo.Point{X: x, Y: y}
}

func (h *HUDSystem) centre(l *label, text string, x, y float32) {
	h.setText(l, text)
	if l.Hidden || l.font == nil {
		return
	}
	tw, th, _ := l.font.TextDimensions(text)
	l.Position = engo.Point{X: x - float32(tw)/2, Y: y - float32(th)/2}
}

func (h *HUDSystem) setText(l *label, text string) {
	l.Hidden = text == ""
	if text == l.text {
		return
	}
	l.text = text
	l.Drawable = common.Text{Font: l.font, Text: text}
}
