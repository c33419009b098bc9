// pkg/engine/metrics.go
package engine

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/opd-ai/go-planes/pkg/engine"

// Frame drop reasons.
const (
	ReasonInvalidDelta     = "invalid_dt"
	ReasonClampedDelta     = "clamped_dt"
	ReasonMissingTransform = "missing_transform"
	ReasonNonFinite        = "non_finite"
	ReasonPanic            = "panic"
)

// FrameStats counts frames locally. The same counts go to OpenTelemetry
// when a meter provider is installed.
type FrameStats struct {
	Frames   uint64
	Finished uint64
	Dropped  map[string]uint64
}

type gameMetrics struct {
	frames   metric.Int64Counter
	dropped  metric.Int64Counter
	finished metric.Int64Counter
	delta    metric.Float64Histogram

	mu    sync.Mutex
	stats FrameStats
}

// newGameMetrics builds the instruments on meter, or on the global meter
// provider when meter is nil. Instrument errors fall back to no-ops inside
// the otel API, so they are not fatal.
func newGameMetrics(meter metric.Meter) *gameMetrics {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	m := &gameMetrics{stats: FrameStats{Dropped: make(map[string]uint64)}}

	m.frames, _ = meter.Int64Counter("planes.frames",
		metric.WithDescription("Simulation frames committed"))
	m.dropped, _ = meter.Int64Counter("planes.frames.dropped",
		metric.WithDescription("Frames skipped, clamped or rolled back"))
	m.finished, _ = meter.Int64Counter("planes.races.finished",
		metric.WithDescription("Races that reached the finish distance"))
	m.delta, _ = meter.Float64Histogram("planes.frame.delta",
		metric.WithDescription("Frame delta time"),
		metric.WithUnit("s"))
	return m
}

func (m *gameMetrics) frame(ctx context.Context, dt float64) {
	m.mu.Lock()
	m.stats.Frames++
	m.mu.Unlock()

	if m.frames != nil {
		m.frames.Add(ctx, 1)
	}
	if m.delta != nil {
		m.delta.Record(ctx, dt)
	}
}

func (m *gameMetrics) drop(ctx context.Context, reason string) {
	m.mu.Lock()
	m.stats.Dropped[reason]++
	m.mu.Unlock()

	if m.dropped != nil {
		m.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m *gameMetrics) raceFinished(ctx context.Context) {
	m.mu.Lock()
	m.stats.Finished++
	m.mu.Unlock()

	if m.finished != nil {
		m.finished.Add(ctx, 1)
	}
}

func (m *gameMetrics) snapshot() FrameStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := FrameStats{
		Frames:   m.stats.Frames,
		Finished: m.stats.Finished,
		Dropped:  make(map[string]uint64, len(m.stats.Dropped)),
	}
	for k, v := range m.stats.Dropped {
		out.Dropped[k] = v
	}
	return out
}
