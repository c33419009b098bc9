package audio

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/opd-ai/go-planes/pkg/physics"
)

// glide is a parameter that the game thread sets and the audio thread
// approaches exponentially, one sample at a time. The audio thread owns
// value and publishes it to current for readers on other goroutines.
type glide struct {
	target  atomic.Uint64
	current atomic.Uint64
	value   float64
}

func (g *glide) set(v float64) {
	g.target.Store(math.Float64bits(v))
}

func (g *glide) goal() float64 {
	return math.Float64frombits(g.target.Load())
}

// jump sets both the target and the value. Call it before playback starts.
func (g *glide) jump(v float64) {
	g.set(v)
	g.value = v
	g.current.Store(math.Float64bits(v))
}

func (g *glide) step(coef float64) float64 {
	g.value += (g.goal() - g.value) * coef
	g.current.Store(math.Float64bits(g.value))
	return g.value
}

// level is the last value the audio thread produced.
func (g *glide) level() float64 {
	return math.Float64frombits(g.current.Load())
}

// smoothing returns the per-sample approach coefficient for a time
// constant in seconds.
func smoothing(rate beep.SampleRate, timeConstant float64) float64 {
	if timeConstant <= 0 {
		return 1
	}
	return physics.DampFactor(1/timeConstant, 1/float64(rate))
}

// Drone is the engine: a sawtooth whose pitch and level follow speed.
type Drone struct {
	rate  beep.SampleRate
	coef  float64
	freq  glide
	gain  glide
	phase float64
}

// NewDrone creates a silent drone idling at freq Hz.
func NewDrone(rate beep.SampleRate, timeConstant, freq float64) *Drone {
	d := &Drone{rate: rate, coef: smoothing(rate, timeConstant)}
	d.freq.jump(freq)
	return d
}

// SetTarget sets the pitch and level the drone glides toward.
func (d *Drone) SetTarget(freq, gain float64) {
	d.freq.set(freq)
	d.gain.set(gain)
}

// Level returns the current gain and frequency. It is safe to call while
// the drone is playing.
func (d *Drone) Level() (gain, freq float64) {
	return d.gain.level(), d.freq.level()
}

func (d *Drone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		freq := d.freq.step(d.coef)
		gain := d.gain.step(d.coef)

		val := gain * 2 * (d.phase - 0.5)
		samples[i][0] = val
		samples[i][1] = val

		d.phase += freq / float64(d.rate)
		d.phase -= math.Floor(d.phase)
	}
	return len(samples), true
}

func (d *Drone) Err() error { return nil }

// Wind is white noise whose level follows speed.
type Wind struct {
	coef float64
	gain glide
	rng  *rand.Rand
}

// NewWind creates silent wind noise. A nil rng gets a random seed.
func NewWind(rate beep.SampleRate, timeConstant float64, rng *rand.Rand) *Wind {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Wind{coef: smoothing(rate, timeConstant), rng: rng}
}

// SetTarget sets the level the wind glides toward.
func (w *Wind) SetTarget(gain float64) {
	w.gain.set(gain)
}

// Level returns the current gain. It is safe to call while the wind is
// playing.
func (w *Wind) Level() float64 {
	return w.gain.level()
}

func (w *Wind) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		val := w.gain.step(w.coef) * (w.rng.Float64()*2 - 1)
		samples[i][0] = val
		samples[i][1] = val
	}
	return len(samples), true
}

func (w *Wind) Err() error { return nil }
