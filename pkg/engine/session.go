// pkg/engine/session.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/logging"
)

// ErrInvalidTransition is returned when a session state change is not allowed
// from the current state.
var ErrInvalidTransition = errors.New("invalid session state transition")

// Session drives one World through menu, running, paused and game-over and
// announces each transition on game:state.
type Session struct {
	ID    string
	World *World

	ctx   *entity.Context
	state string
	scope *entity.Scope
}

// NewSession creates a session in the menu state. Everything it builds logs
// under the session id.
func NewSession(parent *entity.Context, cfg *config.GameConfig, seed uint64) *Session {
	id := logging.GenerateCorrelationID()
	ctx := entity.NewContext(
		logging.WithCorrelationID(parent.Ctx, id),
		parent.Bus,
		parent.Logger,
		parent.Debug,
	)

	s := &Session{
		ID:    id,
		World: NewWorld(ctx, cfg, seed),
		ctx:   ctx,
		state: event.StateMenu,
		scope: entity.NewScope(),
	}
	// no particle churn outside the running state
	s.World.Particles.SetActive(false)

	entity.Listen(s.scope, ctx.Bus, event.GameOver, func(event.GameOverEvent) {
		s.setState(event.StateGameOver)
	})
	entity.Listen(s.scope, ctx.Bus, event.InputAction, func(e event.InputActionEvent) {
		if e.Action == event.ActionPause && e.Pressed {
			_ = s.TogglePause()
		}
	})

	ctx.Logger.Info(ctx.Ctx, "session created", "seed", seed)
	return s
}

// State returns the current session state
func (s *Session) State() string {
	return s.state
}

func (s *Session) setState(state string) {
	if s.state == state {
		return
	}
	prev := s.state
	s.state = state
	s.ctx.Logger.Info(s.ctx.Ctx, "session state changed", "from", prev, "to", state)
	event.Publish(s.ctx.Bus, event.GameStateChanged, event.GameStateEvent{State: state})
}

// Start leaves the menu and starts the first round.
func (s *Session) Start() error {
	if s.state != event.StateMenu {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.state)
	}
	s.World.Start()
	s.setState(event.StateRunning)
	return nil
}

// Pause freezes the world. Particles stop with it.
func (s *Session) Pause() error {
	if s.state != event.StateRunning {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, s.state)
	}
	s.World.Stop()
	s.setState(event.StatePaused)
	return nil
}

// Resume continues a paused round
func (s *Session) Resume() error {
	if s.state != event.StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, s.state)
	}
	s.World.Start()
	s.setState(event.StateRunning)
	return nil
}

// TogglePause pauses a running round or resumes a paused one
func (s *Session) TogglePause() error {
	switch s.state {
	case event.StateRunning:
		return s.Pause()
	case event.StatePaused:
		return s.Resume()
	default:
		return fmt.Errorf("%w: toggle pause from %s", ErrInvalidTransition, s.state)
	}
}

// Restart clears the field, resets the player and starts a new round. It is
// allowed from the menu and after game over.
func (s *Session) Restart() error {
	if s.state != event.StateGameOver && s.state != event.StateMenu {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, s.state)
	}
	s.World.Reset()
	s.World.Start()
	s.setState(event.StateRunning)
	return nil
}

// Update advances the world while the session is running
func (s *Session) Update(deltaTime float64) {
	if s.state != event.StateRunning {
		return
	}
	s.World.Update(deltaTime)
}

// Run ticks the session at tickRate frames per second until ctx is done or
// the round ends. Each frame advances the simulation by a fixed step and then
// calls frame, if set.
func (s *Session) Run(ctx context.Context, tickRate int, frame func(*GameState)) error {
	if tickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", tickRate)
	}
	step := 1.0 / float64(tickRate)
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		s.Update(step)
		if frame != nil {
			frame(s.World.GetGameState())
		}
		if s.state == event.StateGameOver {
			return nil
		}
	}
}

// Close tears down the world and drops the session's subscriptions.
func (s *Session) Close() {
	if s.scope.Closed() {
		return
	}
	s.World.Teardown()
	s.scope.Close()
	s.ctx.Logger.Info(s.ctx.Ctx, "session closed")
}
