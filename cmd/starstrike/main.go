// cmd/starstrike/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-starstrike/pkg/audio"
	"github.com/opd-ai/go-starstrike/pkg/autopilot"
	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/engine"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/logging"
	"github.com/opd-ai/go-starstrike/pkg/render"
	engorender "github.com/opd-ai/go-starstrike/pkg/render/engo"
)

func main() {
	env, err := config.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	configPath := flag.String("config", env.ConfigPath, "Path to configuration file")
	renderer := flag.String("renderer", env.Renderer, "Renderer type: 'terminal', 'engo' or 'headless'")
	seed := flag.Uint64("seed", env.Seed, "Random seed for spawns and particles")
	pilot := flag.String("pilot", "aggressor", "Autopilot for terminal and headless runs: 'aggressor' or 'collector'")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 1024, "Window width (Engo) or columns (terminal)")
	height := flag.Int("height", 768, "Window height (Engo) or rows (terminal)")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	gameConfig, err := loadGameConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *dumpConfig != "" {
		if err := config.SaveConfig(gameConfig, *dumpConfig); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		log.Printf("Configuration written to %s", *dumpConfig)
		return
	}

	logger := logging.NewLoggerWithWriter(os.Stderr, logging.ParseLevel(os.Getenv(logging.LevelEnvVar)))
	bus := event.NewEventBus()
	ctx := entity.NewContext(context.Background(), bus, logger, gameConfig.Debug)

	sounds := audio.NewDispatcher(ctx, env, audio.NullPlayer{})
	defer sounds.Close()

	switch *renderer {
	case "engo":
		engorender.Run(ctx, engorender.Options{
			Title:      "Starstrike",
			Width:      *width,
			Height:     *height,
			Fullscreen: *fullscreen,
		}, func(ctx *entity.Context) *engine.Session {
			return engine.NewSession(ctx, gameConfig, *seed)
		})
	case "terminal", "headless":
		behavior, ok := autopilot.ParseBehavior(*pilot)
		if !ok {
			log.Fatalf("Unknown pilot %q", *pilot)
		}
		cols, rows := 60, 24
		if *renderer == "terminal" && flagWasSet("width") {
			cols = *width
		}
		if *renderer == "terminal" && flagWasSet("height") {
			rows = *height
		}
		if err := runAutopiloted(ctx, gameConfig, *seed, env.TickRate, behavior, *renderer == "terminal", cols, rows); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
	default:
		log.Fatalf("Unknown renderer %q", *renderer)
	}
}

// loadGameConfig reads path, falling back to defaults when it does not
// exist, and applies STARSTRIKE_* overrides.
func loadGameConfig(path string) (*config.GameConfig, error) {
	var gameConfig *config.GameConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Configuration file not found, using default configuration")
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, logging.WrapError(err, "load %s", path)
		}
	}
	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		return nil, logging.WrapError(err, "apply environment overrides")
	}
	return gameConfig, nil
}

// runAutopiloted plays one round with the autopilot at the controls,
// optionally drawing every frame to the terminal. It returns when the round
// ends or on SIGINT/SIGTERM.
func runAutopiloted(ctx *entity.Context, cfg *config.GameConfig, seed uint64, tickRate int, behavior autopilot.Behavior, draw bool, cols, rows int) error {
	var registry *render.Registry
	if draw {
		registry = render.NewRegistry(ctx)
		defer registry.Close()
	}

	session := engine.NewSession(ctx, cfg, seed)
	defer session.Close()

	var gameOver *event.GameOverEvent
	sub := event.Subscribe(ctx.Bus, event.GameOver, func(e event.GameOverEvent) {
		gameOver = &e
	})
	defer sub.Cancel()

	pilot := autopilot.New(ctx.Bus, behavior)
	term := render.NewTerminalRenderer(cols, rows, 2*cfg.World.FieldHalfWidth/float64(cols), os.Stdout)

	runCtx, stop := signal.NotifyContext(ctx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Start(); err != nil {
		return err
	}
	err := session.Run(runCtx, tickRate, func(state *engine.GameState) {
		pilot.Step(state)
		if draw {
			if err := term.Frame(registry, state.Player); err != nil {
				ctx.Logger.Error(ctx.Ctx, "terminal frame failed", err)
			}
		}
	})
	if errors.Is(err, context.Canceled) {
		log.Println("Interrupted")
		err = nil
	}

	if gameOver != nil {
		printSummary(gameOver)
	}
	return err
}

func printSummary(e *event.GameOverEvent) {
	fmt.Printf("Final score: %d\n", e.FinalScore)
	fmt.Printf("Enemies destroyed: %d, escaped: %d\n", e.Stats.EnemiesDestroyed, e.Stats.EnemiesEscaped)
	fmt.Printf("Shots fired: %d, accuracy: %.1f%%\n", e.Stats.ShotsFired, e.Stats.Accuracy)
	fmt.Printf("Time alive: %.1fs\n", e.Stats.TimeAlive)
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
