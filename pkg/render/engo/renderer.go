// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/physics"
	"github.com/opd-ai/go-planes/pkg/state"
)

// Wingspans in world units.
const (
	aircraftSpan = 12.0
	escortSpan   = 10.0
)

// Draw order.
const (
	zGround   = 0
	zAircraft = 10
	zHUD      = 100
)

// sprite is a drawable ECS entity.
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

func newSprite(d common.Drawable, c color.Color, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.Drawable = d
	s.Color = c
	s.Scale = engo.Point{X: 1, Y: 1}
	s.SetShader(common.HUDShader)
	s.SetZIndex(z)
	return s
}

// spriteSink is where sprites are registered for drawing.
type spriteSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// EngoRenderer implements entity.Renderer using the Engo game engine.
// Aircraft are projected through the CameraSystem and drawn in screen space.
type EngoRenderer struct {
	sink   spriteSink
	camera *CameraSystem
	assets *AssetManager

	aircraft map[entity.ID]*sprite
	seen     map[entity.ID]bool
	ground   *sprite

	weather    state.Weather
	hasWeather bool
	setSky     func(color.Color)
}

// NewEngoRenderer creates a new Engo-based renderer drawing into sink.
func NewEngoRenderer(sink spriteSink, cam *CameraSystem, assets *AssetManager) *EngoRenderer {
	r := &EngoRenderer{
		sink:     sink,
		camera:   cam,
		assets:   assets,
		aircraft: make(map[entity.ID]*sprite),
		seen:     make(map[entity.ID]bool),
		setSky:   common.SetBackground,
	}
	r.ground = newSprite(common.Rectangle{}, GroundColor(state.BiomeForest), zGround)
	sink.Add(&r.ground.BasicEntity, &r.ground.RenderComponent, &r.ground.SpaceComponent)
	return r
}

// SetScenery recolours the sky and ground.
func (r *EngoRenderer) SetScenery(b state.Biome, w state.Weather) {
	r.ground.Color = GroundColor(b)
	if !r.hasWeather || w != r.weather {
		r.weather = w
		r.hasWeather = true
		if r.setSky != nil {
			r.setSky(SkyColor(w))
		}
	}
}

// Clear implements entity.Renderer. It lays the ground up to the horizon.
func (r *EngoRenderer) Clear() {
	clear(r.seen)

	width, height := r.camera.Viewport()
	horizon := r.camera.Horizon()
	r.ground.Position = engo.Point{X: 0, Y: horizon}
	r.ground.Width = width
	r.ground.Height = height - horizon
	r.ground.Hidden = r.ground.Height <= 0
}

// RenderAircraft implements entity.Renderer
func (r *EngoRenderer) RenderAircraft(aircraft *entity.Aircraft) {
	if aircraft == nil {
		return
	}
	s := r.sprite(aircraft.ID, r.assets.Aircraft())
	r.place(s, aircraft.Transform, aircraftSpan)
}

// RenderEscort implements entity.Renderer
func (r *EngoRenderer) RenderEscort(escort *entity.Escort) {
	if escort == nil {
		return
	}
	s := r.sprite(escort.ID, r.assets.Escort())
	r.place(s, escort.Transform, escortSpan)
}

// Present implements entity.Renderer. Aircraft not drawn this frame are
// hidden.
func (r *EngoRenderer) Present() {
	for id, s := range r.aircraft {
		if !r.seen[id] {
			s.Hidden = true
		}
	}
}

// sprite gets or creates the sprite for an aircraft.
func (r *EngoRenderer) sprite(id entity.ID, d common.Drawable) *sprite {
	r.seen[id] = true
	if s, ok := r.aircraft[id]; ok {
		return s
	}
	s := newSprite(d, color.White, zAircraft)
	r.aircraft[id] = s
	r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// place projects t and sizes the sprite to span world units.
func (r *EngoRenderer) place(s *sprite, t physics.Transform, span float32) {
	p, ok := r.camera.WorldToScreen(t.Position)
	if !ok || s.Drawable == nil || s.Drawable.Width() == 0 {
		s.Hidden = true
		return
	}

	scale := span * p.Scale / s.Drawable.Width()
	s.Hidden = false
	s.Scale = engo.Point{X: scale, Y: scale}
	s.Width = s.Drawable.Width() * scale
	s.Height = s.Drawable.Height() * scale
	s.Rotation = -float32(mgl64.RadToDeg(t.Rotation.Roll))
	s.SetCenter(p.Point)
	// Nearer aircraft draw on top.
	s.SetZIndex(zAircraft + float32(1/(1+p.Depth)))
}

// Remove drops an aircraft's sprite.
func (r *EngoRenderer) Remove(id entity.ID) {
	if s, ok := r.aircraft[id]; ok {
		r.sink.Remove(s.BasicEntity)
		delete(r.aircraft, id)
	}
}
