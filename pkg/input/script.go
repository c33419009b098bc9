package input

import "math"

// Segment holds a set of keys for a duration in seconds.
type Segment struct {
	Duration float64
	Keys     []Key
}

// Script replays a looping key timeline. It drives headless runs.
type Script struct {
	segments []Segment
	index    int
	elapsed  float64
}

// NewScript creates a script from segments. Segments with no duration are
// dropped.
func NewScript(segments ...Segment) *Script {
	s := &Script{}
	for _, seg := range segments {
		if seg.Duration > 0 {
			s.segments = append(s.segments, seg)
		}
	}
	return s
}

// Autopilot weaves and dives so a headless race reaches top speed.
func Autopilot() *Script {
	return NewScript(
		Segment{Duration: 1.0},
		Segment{Duration: 2.0, Keys: []Key{KeyArrowDown}},
		Segment{Duration: 0.8, Keys: []Key{KeyArrowLeft}},
		Segment{Duration: 1.5},
		Segment{Duration: 0.8, Keys: []Key{KeyArrowRight}},
		Segment{Duration: 0.6, Keys: []Key{KeyArrowUp}},
	)
}

// Advance moves the timeline forward by dt seconds.
func (s *Script) Advance(dt float64) {
	if len(s.segments) == 0 || !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	s.elapsed += dt
	for s.elapsed >= s.segments[s.index].Duration {
		s.elapsed -= s.segments[s.index].Duration
		s.index = (s.index + 1) % len(s.segments)
	}
}

// IsDown implements KeySource.
func (s *Script) IsDown(key Key) bool {
	if len(s.segments) == 0 {
		return false
	}
	for _, k := range s.segments[s.index].Keys {
		if k == key {
			return true
		}
	}
	return false
}
