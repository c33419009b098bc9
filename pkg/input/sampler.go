// Package input turns raw key state into the four logical flight axes.
package input

import "github.com/opd-ai/go-planes/pkg/physics"

// Key names a physical key independent of the device layer.
type Key string

// Flight keys. Letter keys are listed in both cases because some
// backends report the shifted rune.
const (
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyW          Key = "w"
	KeyA          Key = "a"
	KeyS          Key = "s"
	KeyD          Key = "d"
	KeyShiftW     Key = "W"
	KeyShiftA     Key = "A"
	KeyShiftS     Key = "S"
	KeyShiftD     Key = "D"
)

// KeySource reports whether a key is currently held.
type KeySource interface {
	IsDown(key Key) bool
}

// KeySet is a fixed set of held keys.
type KeySet map[Key]bool

// IsDown implements KeySource.
func (s KeySet) IsDown(key Key) bool {
	return s[key]
}

// Axes is one frame of logical input.
type Axes struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

// Controls converts the axes into stick deflections. With invertPitch the
// forward axis pushes the nose down instead of pulling it up.
func (a Axes) Controls(invertPitch bool) physics.Controls {
	c := physics.Controls{
		RollHeld:  a.Left || a.Right,
		PitchHeld: a.Forward || a.Backward,
	}
	if a.Left {
		c.Roll++
	}
	if a.Right {
		c.Roll--
	}
	if a.Forward {
		c.Pitch++
	}
	if a.Backward {
		c.Pitch--
	}
	if invertPitch {
		c.Pitch = -c.Pitch
	}
	return c
}

// KeyMap binds keys to each axis.
type KeyMap struct {
	Forward  []Key
	Backward []Key
	Left     []Key
	Right    []Key
}

// DefaultKeyMap binds the arrow keys and WASD.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Forward:  []Key{KeyArrowUp, KeyW, KeyShiftW},
		Backward: []Key{KeyArrowDown, KeyS, KeyShiftS},
		Left:     []Key{KeyArrowLeft, KeyA, KeyShiftA},
		Right:    []Key{KeyArrowRight, KeyD, KeyShiftD},
	}
}

// Keys lists every bound key once.
func (m KeyMap) Keys() []Key {
	seen := make(map[Key]bool)
	var keys []Key
	for _, group := range [][]Key{m.Forward, m.Backward, m.Left, m.Right} {
		for _, k := range group {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Sampler reads a KeySource through a KeyMap.
type Sampler struct {
	keys KeyMap
}

// NewSampler creates a sampler for the given bindings.
func NewSampler(keys KeyMap) *Sampler {
	return &Sampler{keys: keys}
}

// Sample reads the current axes. A nil source reads as no input.
func (s *Sampler) Sample(src KeySource) Axes {
	if src == nil {
		return Axes{}
	}
	return Axes{
		Forward:  anyDown(src, s.keys.Forward),
		Backward: anyDown(src, s.keys.Backward),
		Left:     anyDown(src, s.keys.Left),
		Right:    anyDown(src, s.keys.Right),
	}
}

func anyDown(src KeySource, keys []Key) bool {
	for _, k := range keys {
		if src.IsDown(k) {
			return true
		}
	}
	return false
}
