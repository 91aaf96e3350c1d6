// pkg/entity/powerup.go
package entity

import (
	"fmt"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// Power-up types
const (
	PowerUpAmmo   = "ammo"
	PowerUpHealth = "health"
	PowerUpShield = "shield"
)

// PowerUp drifts down the field until it is collected or its lifetime runs
// out.
type PowerUp struct {
	BaseEntity

	Type     string
	Effect   float64
	Radius   float64
	Lifetime float64 // seconds
	Age      float64

	bottomY float64
}

// NewPowerUp creates a power-up of the given type from the configured table.
func NewPowerUp(ctx *Context, cfg *config.GameConfig, powerUpType string, position physics.Vector2D) (*PowerUp, error) {
	spec, ok := cfg.PowerUps[powerUpType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPowerUpType, powerUpType)
	}

	node := scene.NewNode(scene.KindPowerUp, powerUpType, spec.Radius)
	p := &PowerUp{
		BaseEntity: newBase(ctx, node, position, physics.CompoundShape{{Name: "body", Radius: spec.Radius}}),
		Type:       powerUpType,
		Effect:     spec.Effect,
		Radius:     spec.Radius,
		Lifetime:   spec.Lifetime(),
		bottomY:    cfg.World.BottomY,
	}
	p.Velocity = physics.Vector2D{Y: -spec.Speed}

	return p, nil
}

// Kind returns scene.KindPowerUp
func (p *PowerUp) Kind() scene.Kind {
	return scene.KindPowerUp
}

// Update ages the power-up and offers it to the player.
func (p *PowerUp) Update(deltaTime float64) {
	p.step(deltaTime, p.tick)
}

func (p *PowerUp) tick(deltaTime float64) {
	p.Age += deltaTime
	if p.Age > p.Lifetime || p.Position.Y < p.bottomY {
		p.Destroy()
		return
	}

	event.Publish(p.ctx.Bus, event.PowerUpPlayer, event.PowerUpPlayerEvent{
		PowerUpID: uint64(p.ID),
		Type:      p.Type,
		Position:  p.Position,
		Radius:    p.Radius,
		Effect:    p.Effect,
	})
}

// Collect removes the power-up and reports whether this call did so.
func (p *PowerUp) Collect() bool {
	if !p.Active {
		return false
	}
	p.Destroy()
	return true
}
