// pkg/projectile/manager.go
package projectile

import (
	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// Projectile is a shot in flight. It is owned by the Manager and never
// handed out.
type Projectile struct {
	ID        entity.ID
	OwnerID   entity.ID
	Position  physics.Vector2D
	Velocity  physics.Vector2D
	Damage    int
	Radius    float64
	CreatedAt float64 // simulation seconds

	node     *scene.Node
	consumed bool
}

// Manager creates, advances and removes projectiles. Every projectile is
// removed exactly once, for exactly one reason.
type Manager struct {
	ctx      *entity.Context
	cfg      config.ProjectileConfig
	bound    float64
	lifetime float64
	now      float64
	playerID entity.ID

	projectiles map[entity.ID]*Projectile
	order       []entity.ID
	scope       *entity.Scope
}

// NewManager creates a manager and subscribes it to projectile:consumed.
func NewManager(ctx *entity.Context, cfg *config.GameConfig) *Manager {
	m := &Manager{
		ctx:         ctx,
		cfg:         cfg.Projectile,
		bound:       cfg.World.ProjectileBound,
		lifetime:    cfg.Projectile.Lifetime(),
		projectiles: make(map[entity.ID]*Projectile),
		scope:       entity.NewScope(),
	}
	entity.Listen(m.scope, ctx.Bus, event.ProjectileConsumed, m.handleConsumed)
	return m
}

// SetPlayer sets the owner whose projectiles are checked against enemies
func (m *Manager) SetPlayer(id entity.ID) {
	m.playerID = id
}

// Create spawns a projectile and attaches its visual. It satisfies
// entity.Launcher.
func (m *Manager) Create(ownerID entity.ID, position, velocity physics.Vector2D, damage int) entity.ID {
	node := scene.NewNode(scene.KindProjectile, "", m.cfg.Radius)
	node.Position = position

	p := &Projectile{
		ID:        entity.ID(node.ID()),
		OwnerID:   ownerID,
		Position:  position,
		Velocity:  velocity,
		Damage:    damage,
		Radius:    m.cfg.Radius,
		CreatedAt: m.now,
		node:      node,
	}
	m.projectiles[p.ID] = p
	m.order = append(m.order, p.ID)

	event.Publish(m.ctx.Bus, event.SceneAddObject, event.SceneObjectEvent{Object: node})
	return p.ID
}

// handleConsumed marks a projectile as spent. It is removed on the next
// pass over the live set, or at the end of the current one.
func (m *Manager) handleConsumed(e event.ProjectileConsumedEvent) {
	if p, ok := m.projectiles[entity.ID(e.ProjectileID)]; ok {
		p.consumed = true
	}
}

// Update advances every projectile, expires old or out-of-bounds ones and
// asks for a hit test on the player's shots.
func (m *Manager) Update(deltaTime float64) {
	m.now += deltaTime

	removals := make(map[entity.ID]string)
	for _, id := range m.order {
		p, ok := m.projectiles[id]
		if !ok {
			continue
		}
		if reason, done := m.updateProjectile(p, deltaTime); done {
			removals[id] = reason
		}
	}

	m.applyRemovals(removals)
}

// updateProjectile advances one projectile and returns a removal reason if
// it is finished.
func (m *Manager) updateProjectile(p *Projectile, deltaTime float64) (string, bool) {
	if p.consumed {
		return event.RemovedHit, true
	}

	p.Position = p.Position.Add(p.Velocity.Scale(deltaTime))
	p.node.Position = p.Position

	if m.now-p.CreatedAt > m.lifetime {
		return event.RemovedExpired, true
	}
	if p.Position.OutsideBox(m.bound) {
		return event.RemovedOutOfBounds, true
	}

	if p.OwnerID == m.playerID {
		event.Publish(m.ctx.Bus, event.ProjectileEnemy, event.ProjectileEnemyEvent{
			ProjectileID: uint64(p.ID),
			Position:     p.Position,
			Damage:       p.Damage,
			Radius:       p.Radius,
		})
		if p.consumed {
			return event.RemovedHit, true
		}
	}

	return "", false
}

// applyRemovals removes the collected projectiles after iteration
func (m *Manager) applyRemovals(removals map[entity.ID]string) {
	if len(removals) == 0 {
		return
	}

	kept := make([]entity.ID, 0, len(m.order))
	var gone []entity.ID
	for _, id := range m.order {
		if _, ok := removals[id]; ok {
			gone = append(gone, id)
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept

	for _, id := range gone {
		m.remove(id, removals[id])
	}
}

// remove detaches a projectile and reports why it went away
func (m *Manager) remove(id entity.ID, reason string) {
	p, ok := m.projectiles[id]
	if !ok {
		return
	}
	delete(m.projectiles, id)

	p.node.Visible = false
	event.Publish(m.ctx.Bus, event.SceneRemoveObject, event.SceneObjectEvent{Object: p.node})
	event.Publish(m.ctx.Bus, event.ProjectileRemoved, event.ProjectileRemovedEvent{
		ProjectileID: uint64(id),
		Reason:       reason,
	})
}

// Clear removes every live projectile
func (m *Manager) Clear() {
	order := m.order
	m.order = nil
	for _, id := range order {
		m.remove(id, event.RemovedTeardown)
	}
}

// Close clears the manager and drops its subscription
func (m *Manager) Close() {
	m.Clear()
	m.scope.Close()
}

// Count returns the number of live projectiles
func (m *Manager) Count() int {
	return len(m.projectiles)
}

// Get returns a copy of a live projectile
func (m *Manager) Get(id entity.ID) (Projectile, bool) {
	p, ok := m.projectiles[id]
	if !ok {
		return Projectile{}, false
	}
	return *p, true
}
