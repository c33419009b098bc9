// pkg/render/engo/scene.go
package engo

import (
	"context"
	"errors"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-planes/pkg/engine"
	"github.com/opd-ai/go-planes/pkg/input"
	"github.com/opd-ai/go-planes/pkg/logging"
)

// SimulationSystem steps the game once per engo frame and pushes the
// result to the renderer, camera and HUD.
type SimulationSystem struct {
	session  *engine.Session
	keys     input.KeySource
	camera   *CameraSystem
	renderer *EngoRenderer
	hud      *HUDSystem
	logger   *logging.Logger
}

// NewSimulationSystem creates the per-frame driver. Any of cam, renderer
// and h may be nil.
func NewSimulationSystem(session *engine.Session, keys input.KeySource, cam *CameraSystem, renderer *EngoRenderer, h *HUDSystem, logger *logging.Logger) *SimulationSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SimulationSystem{
		session:  session,
		keys:     keys,
		camera:   cam,
		renderer: renderer,
		hud:      h,
		logger:   logger,
	}
}

// Remove satisfies the ecs.System interface
func (s *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update runs one frame.
func (s *SimulationSystem) Update(dt float32) {
	gs, err := s.session.Step(float64(dt), s.keys)
	if err != nil {
		s.logger.Warn(context.Background(), "frame rolled back", "error", err.Error())
	}

	if s.camera != nil {
		s.camera.SetPose(gs.Camera)
	}
	if s.renderer != nil {
		s.renderer.SetScenery(gs.Record.Biome, gs.Record.Weather)
		s.session.Game.Render(s.renderer)
	}
	if s.hud != nil {
		lines := s.session.SpeedLines
		s.hud.SetModel(s.session.HUD(gs), lines.Lines(), lines.Opacity())
	}
}

// GameScene represents the main game scene in Engo
type GameScene struct {
	world   *ecs.World
	session *engine.Session
	logger  *logging.Logger

	// Rendering components
	assets   *AssetManager
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
	sim      *SimulationSystem
}

// NewGameScene creates a new game scene
func NewGameScene(session *engine.Session, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &GameScene{
		session: session,
		logger:  logger,
		world:   &ecs.World{},
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		scene.logger.Error(context.Background(), "unexpected updater", errors.New("not an *ecs.World"))
		engo.Exit()
		return
	}
	scene.world = world

	SetupInputBindings()

	renderSystem := &common.RenderSystem{}
	scene.world.AddSystem(renderSystem)

	scene.assets = NewAssetManager()
	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(context.Background(), "failed to load assets", err)
		engo.Exit()
		return
	}

	scene.camera = NewCameraSystem()
	scene.camera.Update(0)
	scene.renderer = NewEngoRenderer(renderSystem, scene.camera, scene.assets)
	scene.hud = NewHUDSystem(renderSystem, scene.camera, scene.assets)
	scene.input = NewInputSystem(scene.session.Game, scene.logger)
	scene.sim = NewSimulationSystem(scene.session, scene.input, scene.camera, scene.renderer, scene.hud, scene.logger)

	scene.world.AddSystem(scene.input)
	scene.world.AddSystem(scene.camera)
	scene.world.AddSystem(scene.sim)
	scene.world.AddSystem(scene.hud)
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	scene.logger.Info(context.Background(), "window closed",
		"phase", scene.session.Game.Phase().String())
}
