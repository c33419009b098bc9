// cmd/planes/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/gopxl/beep"

	"github.com/opd-ai/go-planes/pkg/audio"
	"github.com/opd-ai/go-planes/pkg/config"
	"github.com/opd-ai/go-planes/pkg/engine"
	"github.com/opd-ai/go-planes/pkg/input"
	"github.com/opd-ai/go-planes/pkg/logging"
	"github.com/opd-ai/go-planes/pkg/render"
	engorender "github.com/opd-ai/go-planes/pkg/render/engo"
	"github.com/opd-ai/go-planes/pkg/results"
	"github.com/opd-ai/go-planes/pkg/state"
)

// headlessStep is the fixed frame time of headless runs.
const headlessStep = 1.0 / 60

func main() {
	configPath := flag.String("config", "", "Path to configuration file (json, yaml or toml)")
	createDefault := flag.Bool("default", false, "Write the default configuration to -config and exit")
	renderer := flag.String("renderer", "", "Renderer: 'engo', 'terminal' or 'headless' (overrides config)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 0, "Window width (Engo only, overrides config)")
	height := flag.Int("height", 0, "Window height (Engo only, overrides config)")
	resultsPath := flag.String("results", "", "Results database path (overrides config)")
	mute := flag.Bool("mute", false, "Disable sound")
	limit := flag.Duration("limit", 5*time.Minute, "Simulated time limit for headless runs")
	flag.Parse()

	ctx := context.Background()

	if *createDefault {
		if *configPath == "" {
			fmt.Fprintln(os.Stderr, "-default needs -config")
			os.Exit(2)
		}
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create default configuration: %v\n", err)
			os.Exit(1)
		}
		return
	}

	gameConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(gameConfig, *renderer, *width, *height, *fullscreen, *resultsPath, *mute)
	if err := gameConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(gameConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	game, err := engine.NewGame(gameConfig, engine.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		os.Exit(1)
	}
	session := engine.NewSession(game, nil)

	board := openBoard(ctx, gameConfig, logger)
	if board != nil {
		defer board.Close()
		board.Subscribe(game.EventBus)
	}

	logger.Info(ctx, "Starting race",
		"renderer", gameConfig.Display.Renderer,
		"distance", gameConfig.Race.Distance,
		"biome", gameConfig.Scenery.Biome,
		"weather", gameConfig.Scenery.Weather,
	)

	switch gameConfig.Display.Renderer {
	case config.RendererHeadless:
		runHeadless(ctx, session, logger, *limit)
	case config.RendererTerminal:
		sound := startSound(ctx, session, gameConfig, logger)
		err = runTerminal(ctx, session, logger)
		sound.Cleanup()
	default:
		sound := startSound(ctx, session, gameConfig, logger)
		startEngoRenderer(session, gameConfig, logger)
		sound.Cleanup()
	}
	if err != nil {
		logger.Error(ctx, "Renderer failed", err)
	}

	printBoard(ctx, os.Stdout, board, gameConfig.Results.BoardSize, logger)
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cfg *config.GameConfig, renderer string, width, height int, fullscreen bool, resultsPath string, mute bool) {
	if renderer != "" {
		cfg.Display.Renderer = renderer
	}
	if width > 0 {
		cfg.Display.Width = width
	}
	if height > 0 {
		cfg.Display.Height = height
	}
	if fullscreen {
		cfg.Display.Fullscreen = true
	}
	if resultsPath != "" {
		cfg.Results.Path = resultsPath
	}
	if mute {
		cfg.Audio.Enabled = false
	}
}

// newLogger builds the logger from the log section. The terminal driver
// owns stdout, so it logs to planes.log unless a file is configured.
func newLogger(cfg *config.GameConfig) (*logging.Logger, func(), error) {
	level, ok := logging.ParseLevel(os.Getenv(logging.LevelEnvVar))
	if !ok {
		level, _ = logging.ParseLevel(cfg.Log.Level)
	}

	path := cfg.Log.File
	if path == "" && cfg.Display.Renderer == config.RendererTerminal {
		path = "planes.log"
	}
	if path == "" {
		return logging.NewLoggerWithWriter(os.Stdout, level), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewLoggerWithWriter(f, level), func() { f.Close() }, nil
}

// openBoard opens the results database. Failure only disables results.
func openBoard(ctx context.Context, cfg *config.GameConfig, logger *logging.Logger) *results.Board {
	if !cfg.Results.Enabled {
		return nil
	}
	board, err := results.Open(cfg.Results.Path, logger)
	if err != nil {
		logger.Warn(ctx, "Results disabled", "path", cfg.Results.Path, "error", err.Error())
		return nil
	}
	return board
}

// startSound starts the engine and wind sound and feeds it every frame.
// The returned manager is safe to clean up even when audio is off.
func startSound(ctx context.Context, session *engine.Session, cfg *config.GameConfig, logger *logging.Logger) *audio.SoundManager {
	params := audio.DefaultParams(cfg.Flight.MaxSpeed)
	params.Volume = cfg.Audio.Volume
	sound := audio.NewSoundManager(params, beep.SampleRate(cfg.Audio.SampleRate))

	if !cfg.Audio.Enabled {
		return sound
	}
	if err := sound.Initialize(); err != nil {
		logger.Warn(ctx, "Sound disabled", "error", err.Error())
		return sound
	}
	session.OnFrame(func(gs *engine.GameState) {
		sound.Update(gs.Record)
	})
	return sound
}

// startEngoRenderer runs the windowed client until the window closes.
func startEngoRenderer(session *engine.Session, cfg *config.GameConfig, logger *logging.Logger) {
	scene := engorender.NewGameScene(session, logger)

	opts := engo.RunOptions{
		Title:      cfg.Display.Title,
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Fullscreen: cfg.Display.Fullscreen,
		VSync:      cfg.Display.VSync,
	}

	engo.Run(opts, scene)
}

// runHeadless flies the autopilot at a fixed step until the race finishes
// or the simulated time limit passes.
func runHeadless(ctx context.Context, session *engine.Session, logger *logging.Logger, limit time.Duration) {
	pilot := input.Autopilot()
	out := render.NewNullRenderer(logger)

	var elapsed float64
	for elapsed < limit.Seconds() {
		pilot.Advance(headlessStep)
		gs, err := session.Step(headlessStep, pilot)
		if err != nil {
			logger.Warn(ctx, "frame rolled back", "error", err.Error())
		}
		session.Game.Render(out)
		elapsed += headlessStep

		if gs.Record.Status == state.PhaseFinished {
			logger.Info(ctx, "Race finished",
				"run_id", gs.RunID,
				"duration", gs.Race.Elapsed,
				"top_speed", gs.Race.TopSpeed,
				"frames", out.Frames())
			return
		}
	}
	logger.Warn(ctx, "Time limit reached",
		"limit", limit.String(),
		"distance", session.Game.GetGameState().Record.Distance)
}

// printBoard writes the fastest runs as a table.
func printBoard(ctx context.Context, w io.Writer, board *results.Board, n int, logger *logging.Logger) {
	if board == nil {
		return
	}
	best, err := board.Best(ctx, n)
	if err != nil && !errors.Is(err, results.ErrClosed) {
		logger.Error(ctx, "Failed to read results", err)
		return
	}
	if len(best) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTIME\tTOP SPEED\tAVG SPEED\tSCENERY\tDATE")
	for i, r := range best {
		fmt.Fprintf(tw, "%d\t%.2fs\t%.0f\t%.0f\t%s / %s\t%s\n",
			i+1, r.Duration, r.TopSpeed, r.AverageSpeed, r.Biome, r.Weather,
			r.CreatedAt.Format(time.DateTime))
	}
	tw.Flush()
}
