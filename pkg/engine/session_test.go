package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/logging"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/render"
)

func newTestSession(t *testing.T) (*Session, *event.Bus) {
	t.Helper()
	bus := event.NewEventBus()
	ctx := entity.NewContext(context.Background(), bus, nil, quietConfig().Debug)
	return NewSession(ctx, quietConfig(), 1), bus
}

func TestNewSession_StartsInMenu(t *testing.T) {
	s, _ := newTestSession(t)
	defer s.Close()

	if s.State() != event.StateMenu {
		t.Errorf("state = %s, want menu", s.State())
	}
	if len(s.ID) != 26 {
		t.Errorf("session id %q is not a ULID", s.ID)
	}
	if got := logging.GetCorrelationID(s.ctx.Ctx); got != s.ID {
		t.Errorf("correlation id = %q, want session id", got)
	}
	if s.World.Running {
		t.Error("world runs before Start")
	}
}

func TestSession_Transitions(t *testing.T) {
	s, bus := newTestSession(t)
	defer s.Close()
	states := collect(t, bus, event.GameStateChanged)

	steps := []struct {
		name string
		do   func() error
		want string
	}{
		{"start", s.Start, event.StateRunning},
		{"pause", s.Pause, event.StatePaused},
		{"resume", s.Resume, event.StateRunning},
		{"toggle to paused", s.TogglePause, event.StatePaused},
		{"toggle to running", s.TogglePause, event.StateRunning},
	}

	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		if s.State() != step.want {
			t.Fatalf("%s: state = %s, want %s", step.name, s.State(), step.want)
		}
	}

	if len(*states) != len(steps) {
		t.Errorf("game:state published %d times, want %d", len(*states), len(steps))
	}
}

func TestSession_InvalidTransitions(t *testing.T) {
	s, _ := newTestSession(t)
	defer s.Close()

	if err := s.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause from menu error = %v", err)
	}
	if err := s.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resume from menu error = %v", err)
	}
	if err := s.TogglePause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("TogglePause from menu error = %v", err)
	}

	_ = s.Start()
	if err := s.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Start error = %v", err)
	}
	if err := s.Restart(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Restart while running error = %v", err)
	}
}

func TestSession_NoParticlesInMenu(t *testing.T) {
	s, bus := newTestSession(t)
	defer s.Close()

	if s.World.Particles.Active() {
		t.Fatal("particle pool active in the menu")
	}
	event.Publish(bus, event.ParticlesExplosion, event.ParticlesEvent{Position: physics.Vector2D{Y: 2}})
	event.Publish(bus, event.ParticlesHit, event.ParticlesEvent{Position: physics.Vector2D{Y: 1}})
	s.World.Particles.Update(0.1)

	if got := s.World.Particles.ActiveCount(); got != 0 {
		t.Errorf("active particles in the menu = %d, want 0", got)
	}

	_ = s.Start()
	event.Publish(bus, event.ParticlesHit, event.ParticlesEvent{})
	if got := s.World.Particles.ActiveCount(); got != 8 {
		t.Errorf("active particles after start = %d, want 8", got)
	}
}

func TestSession_PauseFreezesSimulation(t *testing.T) {
	s, bus := newTestSession(t)
	defer s.Close()
	_ = s.Start()

	s.Update(0.1)
	tick := s.World.CurrentTick

	event.Publish(bus, event.InputAction, event.InputActionEvent{Action: event.ActionPause, Pressed: true})
	if s.State() != event.StatePaused {
		t.Fatalf("pause input left state %s", s.State())
	}
	if s.World.Particles.Active() {
		t.Error("particle pool active while paused")
	}

	event.Publish(bus, event.InputAction, event.InputActionEvent{Action: event.ActionFire, Pressed: true})
	s.Update(0.1)

	if s.World.CurrentTick != tick {
		t.Error("paused session advanced the world")
	}
	if s.World.Projectiles.Count() != 0 || s.World.Player.ShotsFired != 0 {
		t.Error("fire input went through while paused")
	}

	event.Publish(bus, event.InputAction, event.InputActionEvent{Action: event.ActionPause, Pressed: true})
	if s.State() != event.StateRunning || !s.World.Particles.Active() {
		t.Errorf("resume: state = %s, particles = %v", s.State(), s.World.Particles.Active())
	}
}

func TestSession_GameOverAndRestart(t *testing.T) {
	s, bus := newTestSession(t)
	defer s.Close()
	over := collect(t, bus, event.GameOver)
	_ = s.Start()

	s.World.Player.Health = 5
	if err := s.World.SpawnEnemy(entity.EnemyBasic, physics.Vector2D{X: 3, Y: -5.99}); err != nil {
		t.Fatal(err)
	}
	s.Update(0.1)

	if s.State() != event.StateGameOver || len(*over) != 1 {
		t.Fatalf("state = %s, game:over = %d", s.State(), len(*over))
	}
	if s.World.Particles.Active() {
		t.Error("particle pool active after game over")
	}

	if err := s.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if s.State() != event.StateRunning || !s.World.Running {
		t.Error("restart did not resume the world")
	}
	if s.World.Player.Health != 100 || len(s.World.Enemies) != 0 {
		t.Errorf("restart did not reset: health = %d, enemies = %d", s.World.Player.Health, len(s.World.Enemies))
	}

	s.Update(0.1)
	if s.World.CurrentTick != 1 {
		t.Errorf("tick after restart = %d, want 1", s.World.CurrentTick)
	}
}

func TestSession_Run(t *testing.T) {
	s, _ := newTestSession(t)
	defer s.Close()
	_ = s.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := 0
	err := s.Run(ctx, 1000, func(state *GameState) {
		frames++
		if frames == 3 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if s.World.CurrentTick != 3 {
		t.Errorf("ticks = %d, want 3", s.World.CurrentTick)
	}
}

func TestSession_RunStopsAtGameOver(t *testing.T) {
	s, _ := newTestSession(t)
	defer s.Close()
	_ = s.Start()
	s.World.Player.Health = 1
	_ = s.World.SpawnEnemy(entity.EnemyBasic, physics.Vector2D{X: 3, Y: -5.99})

	if err := s.Run(context.Background(), 1000, nil); err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if s.State() != event.StateGameOver {
		t.Errorf("state = %s", s.State())
	}
}

func TestSession_RunRejectsBadTickRate(t *testing.T) {
	s, _ := newTestSession(t)
	defer s.Close()

	if err := s.Run(context.Background(), 0, nil); err == nil {
		t.Error("expected error for zero tick rate")
	}
}

func TestSession_CloseReleasesHandlers(t *testing.T) {
	s, bus := newTestSession(t)
	_ = s.Start()
	_ = s.World.SpawnEnemy(entity.EnemyFast, physics.Vector2D{X: 1, Y: 5})

	s.Close()
	s.Close()

	if got := bus.TotalHandlers(); got != 0 {
		t.Errorf("handlers left after Close = %d", got)
	}
}

func TestSession_CloseLeavesNoNodesInTheScene(t *testing.T) {
	cfg := config.DefaultConfig()
	ctx := entity.NewContext(context.Background(), event.NewEventBus(), nil, cfg.Debug)
	reg := render.NewRegistry(ctx)
	defer reg.Close()

	s := NewSession(ctx, cfg, 3)
	_ = s.Start()
	event.Publish(ctx.Bus, event.InputAction, event.InputActionEvent{Action: event.ActionFire, Pressed: true})
	for i := 0; i < 300; i++ {
		s.Update(1.0 / 60)
	}
	if reg.CountKind("player") != 1 || reg.Len() < 2 {
		t.Fatalf("scene = %d nodes, players = %d", reg.Len(), reg.CountKind("player"))
	}

	s.Close()

	if reg.Len() != 0 {
		t.Errorf("%d nodes left in the scene after Close", reg.Len())
	}
	if reg.Added != reg.Removed {
		t.Errorf("added %d, removed %d", reg.Added, reg.Removed)
	}
}
