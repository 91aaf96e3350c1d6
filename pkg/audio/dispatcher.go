// Package audio forwards audio:play intents to a playback backend. A circuit
// breaker isolates a failing backend so that sound problems never reach the
// simulation.
package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
)

// ErrUnavailable is returned while the breaker refuses playback.
var ErrUnavailable = errors.New("audio unavailable")

// Player plays one sound. Implementations must not block the frame.
type Player interface {
	Play(soundID string, opts event.AudioOptions) error
}

// NullPlayer accepts every sound and plays nothing.
type NullPlayer struct{}

// Play does nothing
func (NullPlayer) Play(string, event.AudioOptions) error { return nil }

// Dispatcher subscribes to audio:play and runs every playback through the
// breaker.
type Dispatcher struct {
	ctx     *entity.Context
	player  Player
	breaker *gobreaker.CircuitBreaker
	scope   *entity.Scope

	Played  int
	Failed  int
	Dropped int
}

// NewDispatcher creates a dispatcher with breaker settings from env. A nil
// player is replaced by NullPlayer.
func NewDispatcher(ctx *entity.Context, env *config.EnvironmentConfig, player Player) *Dispatcher {
	if player == nil {
		player = NullPlayer{}
	}
	if env == nil {
		env = &config.EnvironmentConfig{
			CircuitBreakerMaxRequests:         1,
			CircuitBreakerInterval:            60 * time.Second,
			CircuitBreakerTimeout:             5 * time.Second,
			CircuitBreakerMaxConsecutiveFails: 3,
		}
	}

	d := &Dispatcher{
		ctx:    ctx,
		player: player,
		scope:  entity.NewScope(),
	}

	maxFails := uint32(env.CircuitBreakerMaxConsecutiveFails)
	settings := gobreaker.Settings{
		Name:        "starstrike-audio",
		MaxRequests: uint32(env.CircuitBreakerMaxRequests),
		Interval:    env.CircuitBreakerInterval,
		Timeout:     env.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx.Logger.Info(ctx.Ctx, "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	d.breaker = gobreaker.NewCircuitBreaker(settings)

	entity.Listen(d.scope, ctx.Bus, event.AudioPlay, d.handlePlay)
	return d
}

func (d *Dispatcher) handlePlay(e event.AudioPlayEvent) {
	if err := d.Play(e.SoundID, e.Options); err != nil {
		d.ctx.Logger.Warn(d.ctx.Ctx, "audio playback failed",
			"sound", e.SoundID,
			"error", err.Error(),
			"state", d.breaker.State().String(),
		)
	}
}

// Play runs one playback through the breaker. While the breaker is open it
// returns ErrUnavailable without calling the player.
func (d *Dispatcher) Play(soundID string, opts event.AudioOptions) error {
	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, d.player.Play(soundID, opts)
	})
	switch {
	case err == nil:
		d.Played++
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		d.Dropped++
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		d.Failed++
		return fmt.Errorf("play %q: %w", soundID, err)
	}
}

// State returns the breaker state
func (d *Dispatcher) State() gobreaker.State {
	return d.breaker.State()
}

// Counts returns the breaker's counters for the current interval
func (d *Dispatcher) Counts() gobreaker.Counts {
	return d.breaker.Counts()
}

// Close stops listening to audio:play
func (d *Dispatcher) Close() {
	d.scope.Close()
}
