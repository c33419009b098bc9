// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-planes/pkg/ai"
	"github.com/opd-ai/go-planes/pkg/camera"
	"github.com/opd-ai/go-planes/pkg/entity"
	"github.com/opd-ai/go-planes/pkg/logging"
	"github.com/opd-ai/go-planes/pkg/physics"
	"github.com/opd-ai/go-planes/pkg/state"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. PLANES_RACE_DISTANCE.
const EnvPrefix = "PLANES"

// Renderer names accepted by Display.Renderer.
const (
	RendererEngo     = "engo"
	RendererTerminal = "terminal"
	RendererHeadless = "headless"
)

// GameConfig contains configuration for a race
type GameConfig struct {
	Flight  FlightConfig   `json:"flight" mapstructure:"flight"`
	Camera  CameraConfig   `json:"camera" mapstructure:"camera"`
	Escorts []EscortConfig `json:"escorts" mapstructure:"escorts"`
	Race    RaceConfig     `json:"race" mapstructure:"race"`
	Scenery SceneryConfig  `json:"scenery" mapstructure:"scenery"`
	Audio   AudioConfig    `json:"audio" mapstructure:"audio"`
	Display DisplayConfig  `json:"display" mapstructure:"display"`
	Results ResultsConfig  `json:"results" mapstructure:"results"`
	Log     LogConfig      `json:"log" mapstructure:"log"`
}

// FlightConfig tunes the player aircraft
type FlightConfig struct {
	MaxSpeed         float64 `json:"maxSpeed" mapstructure:"maxSpeed"`
	MinSpeed         float64 `json:"minSpeed" mapstructure:"minSpeed"`
	Drag             float64 `json:"drag" mapstructure:"drag"`
	RollDampingRate  float64 `json:"rollDampingRate" mapstructure:"rollDampingRate"`
	PitchDampingRate float64 `json:"pitchDampingRate" mapstructure:"pitchDampingRate"`
	AutoLevelRate    float64 `json:"autoLevelRate" mapstructure:"autoLevelRate"`
	BoundsX          float64 `json:"boundsX" mapstructure:"boundsX"`
	Ceiling          float64 `json:"ceiling" mapstructure:"ceiling"`
	Floor            float64 `json:"floor" mapstructure:"floor"`
	// InvertPitch swaps the forward and backward keys.
	InvertPitch bool `json:"invertPitch" mapstructure:"invertPitch"`
}

// CameraConfig tunes the chase camera
type CameraConfig struct {
	BaseFOV      float64 `json:"baseFOV" mapstructure:"baseFOV"`
	FOVSpeedGain float64 `json:"fovSpeedGain" mapstructure:"fovSpeedGain"`
	FollowRate   float64 `json:"followRate" mapstructure:"followRate"`
	LookRate     float64 `json:"lookRate" mapstructure:"lookRate"`
	ShakeGain    float64 `json:"shakeGain" mapstructure:"shakeGain"`
}

// EscortConfig describes one wingman
type EscortConfig struct {
	Callsign       string  `json:"callsign" mapstructure:"callsign"`
	CruiseSpeed    float64 `json:"cruiseSpeed" mapstructure:"cruiseSpeed"`
	LateralOffset  float64 `json:"lateralOffset" mapstructure:"lateralOffset"`
	VerticalOffset float64 `json:"verticalOffset" mapstructure:"verticalOffset"`
	WanderPhase    float64 `json:"wanderPhase" mapstructure:"wanderPhase"`
}

// RaceConfig contains race rules and frame timing
type RaceConfig struct {
	Distance          float64 `json:"distance" mapstructure:"distance"`
	CountdownTicks    int     `json:"countdownTicks" mapstructure:"countdownTicks"`
	CountdownInterval float64 `json:"countdownInterval" mapstructure:"countdownInterval"`
	IntroSpeed        float64 `json:"introSpeed" mapstructure:"introSpeed"`
	MaxFrameDelta     float64 `json:"maxFrameDelta" mapstructure:"maxFrameDelta"`
}

// SceneryConfig picks the starting biome and weather
type SceneryConfig struct {
	Biome   string `json:"biome" mapstructure:"biome"`
	Weather string `json:"weather" mapstructure:"weather"`
}

// AudioConfig contains sound settings
type AudioConfig struct {
	Enabled    bool    `json:"enabled" mapstructure:"enabled"`
	SampleRate int     `json:"sampleRate" mapstructure:"sampleRate"`
	Volume     float64 `json:"volume" mapstructure:"volume"`
}

// DisplayConfig contains window and driver settings
type DisplayConfig struct {
	Renderer   string `json:"renderer" mapstructure:"renderer"`
	Title      string `json:"title" mapstructure:"title"`
	Width      int    `json:"width" mapstructure:"width"`
	Height     int    `json:"height" mapstructure:"height"`
	Fullscreen bool   `json:"fullscreen" mapstructure:"fullscreen"`
	VSync      bool   `json:"vsync" mapstructure:"vsync"`
}

// ResultsConfig contains the results board settings
type ResultsConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Path      string `json:"path" mapstructure:"path"`
	BoardSize int    `json:"boardSize" mapstructure:"boardSize"`
}

// LogConfig contains logging settings. An empty File logs to stdout.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	flight := physics.DefaultFlightParams()
	cam := camera.DefaultParams()

	cfg := &GameConfig{
		Flight: FlightConfig{
			MaxSpeed:         flight.MaxSpeed,
			MinSpeed:         flight.MinSpeed,
			Drag:             flight.Drag,
			RollDampingRate:  flight.RollDampingRate,
			PitchDampingRate: flight.PitchDampingRate,
			AutoLevelRate:    flight.AutoLevelRate,
			BoundsX:          flight.Bounds.MaxX,
			Ceiling:          flight.Bounds.MaxY,
			Floor:            flight.Bounds.MinY,
		},
		Camera: CameraConfig{
			BaseFOV:      cam.BaseFOV,
			FOVSpeedGain: cam.FOVSpeedGain,
			FollowRate:   cam.FollowRate,
			LookRate:     cam.LookRate,
			ShakeGain:    cam.ShakeGain,
		},
		Race: RaceConfig{
			Distance:          50000,
			CountdownTicks:    3,
			CountdownInterval: 1.5,
			IntroSpeed:        300,
			MaxFrameDelta:     0.1,
		},
		Scenery: SceneryConfig{
			Biome:   state.BiomeForest.String(),
			Weather: state.WeatherClear.String(),
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     1,
		},
		Display: DisplayConfig{
			Renderer: RendererEngo,
			Title:    "PLANES",
			Width:    1280,
			Height:   720,
			VSync:    true,
		},
		Results: ResultsConfig{
			Enabled:   true,
			Path:      "planes.db",
			BoardSize: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	for _, p := range ai.DefaultProfiles() {
		cfg.Escorts = append(cfg.Escorts, EscortConfig{
			Callsign:       p.Callsign,
			CruiseSpeed:    p.CruiseSpeed,
			LateralOffset:  p.LateralOffset,
			VerticalOffset: p.VerticalOffset,
			WanderPhase:    p.WanderPhase,
		})
	}
	return cfg
}

// setDefaults registers every leaf of def with v so that environment
// overrides reach keys the config file leaves out.
func setDefaults(v *viper.Viper, def *GameConfig) {
	v.SetDefault("flight.maxSpeed", def.Flight.MaxSpeed)
	v.SetDefault("flight.minSpeed", def.Flight.MinSpeed)
	v.SetDefault("flight.drag", def.Flight.Drag)
	v.SetDefault("flight.rollDampingRate", def.Flight.RollDampingRate)
	v.SetDefault("flight.pitchDampingRate", def.Flight.PitchDampingRate)
	v.SetDefault("flight.autoLevelRate", def.Flight.AutoLevelRate)
	v.SetDefault("flight.boundsX", def.Flight.BoundsX)
	v.SetDefault("flight.ceiling", def.Flight.Ceiling)
	v.SetDefault("flight.floor", def.Flight.Floor)
	v.SetDefault("flight.invertPitch", def.Flight.InvertPitch)

	v.SetDefault("camera.baseFOV", def.Camera.BaseFOV)
	v.SetDefault("camera.fovSpeedGain", def.Camera.FOVSpeedGain)
	v.SetDefault("camera.followRate", def.Camera.FollowRate)
	v.SetDefault("camera.lookRate", def.Camera.LookRate)
	v.SetDefault("camera.shakeGain", def.Camera.ShakeGain)

	escorts := make([]map[string]any, 0, len(def.Escorts))
	for _, e := range def.Escorts {
		escorts = append(escorts, map[string]any{
			"callsign":       e.Callsign,
			"cruiseSpeed":    e.CruiseSpeed,
			"lateralOffset":  e.LateralOffset,
			"verticalOffset": e.VerticalOffset,
			"wanderPhase":    e.WanderPhase,
		})
	}
	v.SetDefault("escorts", escorts)

	v.SetDefault("race.distance", def.Race.Distance)
	v.SetDefault("race.countdownTicks", def.Race.CountdownTicks)
	v.SetDefault("race.countdownInterval", def.Race.CountdownInterval)
	v.SetDefault("race.introSpeed", def.Race.IntroSpeed)
	v.SetDefault("race.maxFrameDelta", def.Race.MaxFrameDelta)

	v.SetDefault("scenery.biome", def.Scenery.Biome)
	v.SetDefault("scenery.weather", def.Scenery.Weather)

	v.SetDefault("audio.enabled", def.Audio.Enabled)
	v.SetDefault("audio.sampleRate", def.Audio.SampleRate)
	v.SetDefault("audio.volume", def.Audio.Volume)

	v.SetDefault("display.renderer", def.Display.Renderer)
	v.SetDefault("display.title", def.Display.Title)
	v.SetDefault("display.width", def.Display.Width)
	v.SetDefault("display.height", def.Display.Height)
	v.SetDefault("display.fullscreen", def.Display.Fullscreen)
	v.SetDefault("display.vsync", def.Display.VSync)

	v.SetDefault("results.enabled", def.Results.Enabled)
	v.SetDefault("results.path", def.Results.Path)
	v.SetDefault("results.boardSize", def.Results.BoardSize)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
}

// LoadConfig loads a configuration from a file. The format follows the
// file extension (json, yaml or toml). An empty path yields the defaults.
// PLANES_* environment variables override both, with dots in the key
// replaced by underscores.
func LoadConfig(path string) (*GameConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config GameConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks that every value can drive the simulation.
func (c *GameConfig) Validate() error {
	f := c.Flight
	switch {
	case !(f.MinSpeed > 0):
		return invalid("flight.minSpeed must be positive, got %v", f.MinSpeed)
	case !(f.MaxSpeed > f.MinSpeed):
		return invalid("flight.maxSpeed %v must exceed flight.minSpeed %v", f.MaxSpeed, f.MinSpeed)
	case !(f.Drag > 0 && f.Drag <= 1):
		return invalid("flight.drag must be in (0, 1], got %v", f.Drag)
	case !(f.RollDampingRate > 0), !(f.PitchDampingRate > 0), !(f.AutoLevelRate > 0):
		return invalid("flight damping rates must be positive")
	case !(f.BoundsX > 0), !(f.Ceiling > f.Floor):
		return invalid("flight bounds are empty")
	}

	cam := c.Camera
	if !(cam.BaseFOV > 0) || !(cam.BaseFOV+cam.FOVSpeedGain < 180) {
		return invalid("camera fov must stay within (0, 180), got %v+%v", cam.BaseFOV, cam.FOVSpeedGain)
	}
	if !(cam.FollowRate > 0) || !(cam.LookRate > 0) || cam.ShakeGain < 0 {
		return invalid("camera rates must be positive")
	}

	for i, e := range c.Escorts {
		if !(e.CruiseSpeed > 0) {
			return invalid("escorts[%d].cruiseSpeed must be positive, got %v", i, e.CruiseSpeed)
		}
	}

	r := c.Race
	switch {
	case !(r.Distance > 0):
		return invalid("race.distance must be positive, got %v", r.Distance)
	case r.CountdownTicks < 0:
		return invalid("race.countdownTicks must not be negative, got %d", r.CountdownTicks)
	case !(r.CountdownInterval > 0):
		return invalid("race.countdownInterval must be positive, got %v", r.CountdownInterval)
	case r.IntroSpeed < f.MinSpeed || r.IntroSpeed > f.MaxSpeed:
		return invalid("race.introSpeed %v must be within [%v, %v]", r.IntroSpeed, f.MinSpeed, f.MaxSpeed)
	case !(r.MaxFrameDelta > 0):
		return invalid("race.maxFrameDelta must be positive, got %v", r.MaxFrameDelta)
	}

	if _, err := state.ParseBiome(c.Scenery.Biome); err != nil {
		return invalid("scenery.biome: %v", err)
	}
	if _, err := state.ParseWeather(c.Scenery.Weather); err != nil {
		return invalid("scenery.weather: %v", err)
	}

	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return invalid("audio.sampleRate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return invalid("audio.volume must be in [0, 1], got %v", c.Audio.Volume)
	}

	switch c.Display.Renderer {
	case RendererEngo, RendererTerminal, RendererHeadless:
	default:
		return invalid("unknown display.renderer %q", c.Display.Renderer)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return invalid("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}

	if c.Results.Enabled && c.Results.Path == "" {
		return invalid("results.path is required when results are enabled")
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return invalid("unknown log.level %q", c.Log.Level)
	}
	return nil
}

// FlightParams returns the physics tuning for this configuration.
func (c *GameConfig) FlightParams() physics.FlightParams {
	p := physics.DefaultFlightParams()
	p.MaxSpeed = c.Flight.MaxSpeed
	p.MinSpeed = c.Flight.MinSpeed
	p.Drag = c.Flight.Drag
	p.RollDampingRate = c.Flight.RollDampingRate
	p.PitchDampingRate = c.Flight.PitchDampingRate
	p.AutoLevelRate = c.Flight.AutoLevelRate
	p.Bounds = physics.Bounds{
		MinX: -c.Flight.BoundsX,
		MaxX: c.Flight.BoundsX,
		MinY: c.Flight.Floor,
		MaxY: c.Flight.Ceiling,
	}
	return p
}

// CameraParams returns the chase camera tuning for this configuration.
func (c *GameConfig) CameraParams() camera.Params {
	p := camera.DefaultParams()
	p.MaxSpeed = c.Flight.MaxSpeed
	p.BaseFOV = c.Camera.BaseFOV
	p.FOVSpeedGain = c.Camera.FOVSpeedGain
	p.FollowRate = c.Camera.FollowRate
	p.LookRate = c.Camera.LookRate
	p.ShakeGain = c.Camera.ShakeGain
	return p
}

// EscortProfiles returns one wingman profile per configured escort. The
// first two take the stock ids and formation marks; any further escorts
// stack behind them.
func (c *GameConfig) EscortProfiles() []ai.Profile {
	stock := ai.DefaultProfiles()
	profiles := make([]ai.Profile, 0, len(c.Escorts))
	for i, e := range c.Escorts {
		p := stock[i%len(stock)]
		if i >= len(stock) {
			p.ID = stock[len(stock)-1].ID + entity.ID(i-len(stock)+1)
			p.Formation[2] += 10 * float64(i/len(stock))
			p.Start[2] += 10 * float64(i/len(stock))
		}
		p.Callsign = e.Callsign
		p.CruiseSpeed = e.CruiseSpeed
		p.LateralOffset = e.LateralOffset
		p.VerticalOffset = e.VerticalOffset
		p.WanderPhase = e.WanderPhase
		profiles = append(profiles, p)
	}
	return profiles
}

// Biome returns the configured starting biome.
func (c *GameConfig) Biome() state.Biome {
	b, _ := state.ParseBiome(c.Scenery.Biome)
	return b
}

// Weather returns the configured starting weather.
func (c *GameConfig) Weather() state.Weather {
	w, _ := state.ParseWeather(c.Scenery.Weather)
	return w
}
