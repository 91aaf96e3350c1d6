// pkg/entity/entity.go
package entity

import (
	"context"
	"errors"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/logging"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// ID is a unique identifier for an entity
type ID uint64

var (
	// ErrUnknownEnemyType is returned when an enemy type has no table entry.
	ErrUnknownEnemyType = errors.New("unknown enemy type")
	// ErrUnknownPowerUpType is returned when a power-up type has no table entry.
	ErrUnknownPowerUpType = errors.New("unknown power-up type")
)

// Entity is the common surface of the simulated variants: Player, Enemy and
// PowerUp.
type Entity interface {
	GetID() ID
	Kind() scene.Kind
	GetPosition() physics.Vector2D
	IsActive() bool
	Update(deltaTime float64)
	Destroy()
}

// Context carries the collaborators an entity needs. It is handed to every
// constructor; entities never reach for package-level state.
type Context struct {
	Ctx    context.Context
	Bus    *event.Bus
	Logger *logging.Logger
	Debug  config.DebugConfig
}

// NewContext builds a Context. A nil logger discards output.
func NewContext(ctx context.Context, bus *event.Bus, logger *logging.Logger, debug config.DebugConfig) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Context{Ctx: ctx, Bus: bus, Logger: logger, Debug: debug}
}

// collider is a debug overlay node that follows its owner at an offset
type collider struct {
	node   *scene.Node
	offset physics.Vector2D
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Active   bool
	Node     *scene.Node

	ctx       *Context
	scope     *Scope
	colliders []collider
}

// newBase creates an active entity, attaches its node to the scene and, when
// the collider overlay is enabled, one overlay node per collision circle.
func newBase(ctx *Context, node *scene.Node, position physics.Vector2D, circles physics.CompoundShape) BaseEntity {
	node.Position = position
	b := BaseEntity{
		ID:       ID(node.ID()),
		Position: position,
		Active:   true,
		Node:     node,
		ctx:      ctx,
		scope:    NewScope(),
	}
	Attach(b.scope, ctx.Bus, node)

	if ctx.Debug.ShowColliders {
		for _, c := range circles {
			overlay := scene.NewNode(scene.KindCollider, c.Name, c.Radius)
			overlay.Position = position.Add(c.Offset)
			overlay.Opacity = 0.5
			Attach(b.scope, ctx.Bus, overlay)
			b.colliders = append(b.colliders, collider{node: overlay, offset: c.Offset})
		}
	}
	return b
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// IsActive reports whether the entity is still simulated
func (e *BaseEntity) IsActive() bool {
	return e.Active
}

// step integrates velocity, syncs the visual handle and runs hook. It is a
// no-op once the entity is inactive.
func (e *BaseEntity) step(deltaTime float64, hook func(deltaTime float64)) {
	if !e.Active {
		return
	}

	state := physics.MovementState{Position: e.Position, Velocity: e.Velocity}
	physics.Integrate(&state, deltaTime)
	e.Position = state.Position
	e.sync()

	if hook != nil {
		hook(deltaTime)
	}
}

func (e *BaseEntity) sync() {
	if e.Node != nil {
		e.Node.Position = e.Position
	}
	for _, c := range e.colliders {
		c.node.Position = e.Position.Add(c.offset)
	}
}

// Destroy deactivates the entity and releases everything it acquired at
// construction, in reverse order. Calling it again does nothing.
func (e *BaseEntity) Destroy() {
	if !e.Active {
		return
	}
	e.Active = false
	e.scope.Close()
}

// logCtx returns the context used for log correlation
func (e *BaseEntity) logCtx() context.Context {
	return e.ctx.Ctx
}
