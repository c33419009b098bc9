// Package hud derives everything the heads-up display shows from the
// shared record. It holds no rendering code; drivers draw the Model.
package hud

import (
	"strconv"

	"github.com/opd-ai/go-planes/pkg/state"
)

// Countdown runs the pre-race count on the intro screen. It re-arms
// whenever the game leaves the intro, so every race gets a full count.
type Countdown struct {
	ticks     int
	interval  float64
	remaining int
	timer     float64
	fired     bool
}

// NewCountdown creates a countdown of ticks steps, interval seconds apart.
func NewCountdown(ticks int, interval float64) *Countdown {
	c := &Countdown{ticks: ticks, interval: interval}
	c.Reset()
	return c
}

// Reset re-arms the countdown.
func (c *Countdown) Reset() {
	c.remaining = c.ticks
	c.timer = 0
	c.fired = false
}

// Advance runs the count for one frame. It returns true on the single
// frame the count completes, which is when the driver starts the race.
func (c *Countdown) Advance(phase state.Phase, dt float64) bool {
	if phase != state.PhaseIntro {
		c.Reset()
		return false
	}
	if c.fired || !(dt > 0) {
		return false
	}
	if c.remaining <= 0 {
		c.fired = true
		return true
	}

	c.timer += dt
	for c.timer >= c.interval {
		c.timer -= c.interval
		if c.remaining <= 1 {
			c.remaining = 0
			c.fired = true
			return true
		}
		c.remaining--
	}
	return false
}

// Remaining returns the number currently shown, 0 once the count is done.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Label returns the countdown text.
func (c *Countdown) Label() string {
	if c.remaining > 0 {
		return strconv.Itoa(c.remaining)
	}
	return "GO!"
}
