// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/logging"
)

// NullRenderer is an entity.Renderer that only logs. The headless driver
// uses it.
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
}

// NewNullRenderer creates a new NullRenderer. A nil logger discards.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Frames returns the number of presented frames.
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// RenderAircraft implements entity.Renderer.
func (d *NullRenderer) RenderAircraft(aircraft *entity.Aircraft) {
	ctx := context.Background()
	if aircraft == nil {
		d.logger.Debug(ctx, "RenderAircraft called with nil aircraft")
		return
	}
	d.logger.Debug(ctx, "RenderAircraft called",
		"id", aircraft.ID,
		"callsign", aircraft.Callsign,
		"x", aircraft.Transform.Position.X(),
		"y", aircraft.Transform.Position.Y(),
		"z", aircraft.Transform.Position.Z(),
		"speed", aircraft.Kinematics.Speed,
	)
}

// RenderEscort implements entity.Renderer.
func (d *NullRenderer) RenderEscort(escort *entity.Escort) {
	ctx := context.Background()
	if escort == nil {
		d.logger.Debug(ctx, "RenderEscort called with nil escort")
		return
	}
	d.logger.Debug(ctx, "RenderEscort called",
		"id", escort.ID,
		"callsign", escort.Callsign,
		"x", escort.Transform.Position.X(),
		"y", escort.Transform.Position.Y(),
		"z", escort.Transform.Position.Z(),
	)
}
