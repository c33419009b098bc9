package input

import (
	"sync"
	"time"
)

// HoldSource emulates held keys on devices that only report presses, such
// as terminals. A key counts as down for a window after its last press;
// auto-repeat keeps refreshing it while the key is physically held.
type HoldSource struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	pressed map[Key]time.Time
}

// NewHoldSource creates a source with the given hold window.
func NewHoldSource(window time.Duration) *HoldSource {
	return &HoldSource{
		window:  window,
		now:     time.Now,
		pressed: make(map[Key]time.Time),
	}
}

// Press records a key press or repeat.
func (h *HoldSource) Press(key Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pressed[key] = h.now()
}

// Release forgets a key immediately.
func (h *HoldSource) Release(key Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pressed, key)
}

// IsDown implements KeySource.
func (h *HoldSource) IsDown(key Key) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	at, ok := h.pressed[key]
	if !ok {
		return false
	}
	if h.now().Sub(at) > h.window {
		delete(h.pressed, key)
		return false
	}
	return true
}
