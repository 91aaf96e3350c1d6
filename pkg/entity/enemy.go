// pkg/entity/enemy.go
package entity

import (
	"fmt"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// Enemy types
const (
	EnemyBasic = "basic"
	EnemyFast  = "fast"
	EnemyHeavy = "heavy"
)

// Enemy falls toward the bottom of the field. It leaves the simulation
// exactly once: destroyed by damage, crashed into the player, or escaped.
type Enemy struct {
	BaseEntity

	Type      string
	Health    int
	MaxHealth int
	Radius    float64

	spec    config.EnemyTypeSpec
	bottomY float64
}

// NewEnemy creates an enemy of the given type from the configured table.
func NewEnemy(ctx *Context, cfg *config.GameConfig, enemyType string, position physics.Vector2D) (*Enemy, error) {
	spec, ok := cfg.Enemies.Types[enemyType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnemyType, enemyType)
	}

	scale := cfg.Enemies.Scale
	if scale <= 0 {
		scale = 1
	}
	radius := spec.Radius * scale

	node := scene.NewNode(scene.KindEnemy, enemyType, radius)
	e := &Enemy{
		BaseEntity: newBase(ctx, node, position, physics.CompoundShape{{Name: "body", Radius: radius}}),
		Type:       enemyType,
		Health:     spec.Health,
		MaxHealth:  spec.Health,
		Radius:     radius,
		spec:       spec,
		bottomY:    cfg.World.BottomY,
	}
	e.Velocity = physics.Vector2D{Y: -spec.Speed}

	return e, nil
}

// Kind returns scene.KindEnemy
func (e *Enemy) Kind() scene.Kind {
	return scene.KindEnemy
}

// ScoreValue returns the score granted when destroyed
func (e *Enemy) ScoreValue() int {
	return e.spec.Score
}

// EscapePenalty returns the health lost by the player when this enemy escapes
func (e *Enemy) EscapePenalty() int {
	return e.spec.EscapePenalty
}

// CollisionDamage returns the health lost by the player on direct contact
func (e *Enemy) CollisionDamage() int {
	return e.spec.CollisionDamage
}

// Update moves the enemy, asks whether it touches the player and escapes it
// once it is below the bottom boundary.
func (e *Enemy) Update(deltaTime float64) {
	e.step(deltaTime, e.tick)
}

func (e *Enemy) tick(float64) {
	event.Publish(e.ctx.Bus, event.CollisionCheck, event.CollisionCheckEvent{
		EntityID: uint64(e.ID),
		Type:     e.Type,
		Position: e.Position,
		Radius:   e.Radius,
		Damage:   e.spec.CollisionDamage,
	})

	// The check may have crashed us into the player.
	if !e.Active {
		return
	}

	if e.Position.Y < e.bottomY {
		e.escape()
	}
}

func (e *Enemy) escape() {
	event.Publish(e.ctx.Bus, event.EnemyEscaped, event.EnemyEscapedEvent{
		EnemyID:  uint64(e.ID),
		Type:     e.Type,
		Position: e.Position,
		Penalty:  e.spec.EscapePenalty,
	})
	e.Destroy()
}

// TakeDamage applies damage and reports whether this call killed the enemy.
// Damage to a dead or removed enemy is ignored, so an enemy is credited at
// most once.
func (e *Enemy) TakeDamage(amount int) bool {
	if !e.Active || e.Health <= 0 {
		return false
	}

	bus := e.ctx.Bus
	e.Health -= amount
	if e.Health > 0 {
		event.Publish(bus, event.ParticlesHit, event.ParticlesEvent{Position: e.Position})
		event.Publish(bus, event.AudioPlay, event.AudioPlayEvent{SoundID: event.SoundHit})
		return false
	}

	e.Health = 0
	event.Publish(bus, event.EnemyDestroyed, event.EnemyDestroyedEvent{
		EnemyID:  uint64(e.ID),
		Type:     e.Type,
		Position: e.Position,
		Score:    e.spec.Score,
	})
	e.explode()
	return true
}

// Crash destroys the enemy after it touched the player. No score is granted.
func (e *Enemy) Crash() bool {
	if !e.Active {
		return false
	}

	e.Health = 0
	event.Publish(e.ctx.Bus, event.EnemyCrashed, event.EnemyCrashedEvent{
		EnemyID:  uint64(e.ID),
		Type:     e.Type,
		Position: e.Position,
		Damage:   e.spec.CollisionDamage,
	})
	e.explode()
	return true
}

func (e *Enemy) explode() {
	bus := e.ctx.Bus
	event.Publish(bus, event.ParticlesExplosion, event.ParticlesEvent{Position: e.Position})
	event.Publish(bus, event.AudioPlay, event.AudioPlayEvent{SoundID: event.SoundExplosion})
	e.Destroy()
}

// radiusOf is the radius function handed to physics.NearestMatch
func radiusOf(e *Enemy) float64 {
	return e.Radius
}

// NearestEnemy returns the closest active enemy whose circle overlaps the
// query circle. Ties go to the earlier enemy in the slice.
func NearestEnemy(position physics.Vector2D, radius float64, enemies []*Enemy) (*Enemy, bool) {
	active := make([]*Enemy, 0, len(enemies))
	for _, e := range enemies {
		if e.Active {
			active = append(active, e)
		}
	}
	m, ok := physics.NearestMatch(position, radius, active, radiusOf)
	if !ok {
		return nil, false
	}
	return m.Candidate, true
}
