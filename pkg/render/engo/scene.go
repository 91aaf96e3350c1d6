// pkg/render/engo/scene.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-starstrike/pkg/engine"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
)

// Options configures the engo window.
type Options struct {
	Title         string
	Width         int
	Height        int
	Fullscreen    bool
	PixelsPerUnit float32
}

// GameScene represents the main game scene in Engo
type GameScene struct {
	session *engine.Session
	opts    Options

	mirror *SceneMirror
	input  *InputSystem
	hud    *HUDSystem
	scope  *entity.Scope
}

// NewGameScene creates the scene's collaborators on ctx's bus and then the
// session, so nodes attached while the session is built are mirrored.
func NewGameScene(ctx *entity.Context, opts Options, newSession func(*entity.Context) *engine.Session) *GameScene {
	scene := &GameScene{
		opts:   opts,
		mirror: NewSceneMirror(ctx, float32(opts.Width), float32(opts.Height), opts.PixelsPerUnit),
		input:  NewInputSystem(ctx.Bus),
		hud:    NewHUDSystem(ctx.Bus),
		scope:  entity.NewScope(),
	}
	scene.session = newSession(ctx)

	// fire restarts a finished round
	entity.Listen(scene.scope, ctx.Bus, event.InputAction, func(e event.InputActionEvent) {
		if e.Action == event.ActionFire && e.Pressed && scene.session.State() == event.StateGameOver {
			_ = scene.session.Restart()
		}
	})
	return scene
}

// Session returns the session the scene drives
func (scene *GameScene) Session() *engine.Session {
	return scene.session
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "StarstrikeScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.Black)
	SetupInputBindings()

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	scene.mirror.Attach(renderSystem)

	world.AddSystem(scene.input)
	world.AddSystem(&simulationSystem{session: scene.session, mirror: scene.mirror})
	world.AddSystem(scene.hud)

	if scene.session.State() == event.StateMenu {
		_ = scene.session.Start()
	}
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	scene.scope.Close()
	scene.session.Close()
	scene.mirror.Close()
	scene.hud.Close()
}

// simulationSystem advances the session once per engo frame and then copies
// node state into the sprites.
type simulationSystem struct {
	session *engine.Session
	mirror  *SceneMirror
}

func (s *simulationSystem) Remove(basic ecs.BasicEntity) {}

func (s *simulationSystem) Update(dt float32) {
	s.session.Update(float64(dt))
	s.mirror.Sync()
}

// Run opens the window and blocks until it closes
func Run(ctx *entity.Context, opts Options, newSession func(*entity.Context) *engine.Session) {
	if opts.PixelsPerUnit <= 0 {
		opts.PixelsPerUnit = float32(opts.Height) / 12
	}
	engo.Run(engo.RunOptions{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Fullscreen: opts.Fullscreen,
		VSync:      true,
	}, NewGameScene(ctx, opts, newSession))
}
