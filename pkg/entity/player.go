// pkg/entity/player.go
package entity

import (
	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
	"github.com/opd-ai/go-starstrike/pkg/validation"
)

// Launcher creates projectiles on behalf of a shooter
type Launcher interface {
	Create(ownerID ID, position, velocity physics.Vector2D, damage int) ID
}

const fireKey = "fire"

// Player is the ship controlled through input:action.
type Player struct {
	BaseEntity

	Health           int
	MaxHealth        int
	Ammo             int
	MaxAmmo          int
	Score            int
	ShotsFired       int
	EnemiesDestroyed int
	EnemiesEscaped   int
	TimeAlive        float64
	Accuracy         float64 // percent

	// Shape is the hit-box in ship-local space, already scaled.
	Shape physics.CompoundShape

	cfg        config.PlayerConfig
	world      config.WorldConfig
	projectile config.ProjectileConfig
	launcher   Launcher
	limiter    *validation.RateLimiter
	muzzle     physics.Vector2D
	held       map[string]bool
	firing     bool
	frozen     bool
	shield     float64 // seconds of immunity left
}

// NewPlayer creates the player at its start position and subscribes it to
// input:action.
func NewPlayer(ctx *Context, cfg *config.GameConfig, launcher Launcher) *Player {
	shape := make(physics.CompoundShape, 0, len(cfg.Player.HitBox))
	for _, c := range cfg.Player.HitBox {
		shape = append(shape, physics.ShapeCircle{
			Name:   c.Name,
			Offset: physics.Vector2D{X: c.X, Y: c.Y},
			Radius: c.Radius,
		})
	}
	shape = shape.Scaled(cfg.Player.SizeFactor)

	start := physics.Vector2D{X: cfg.Player.StartX, Y: cfg.Player.StartY}
	node := scene.NewNode(scene.KindPlayer, "", shape.BoundingRadius())

	p := &Player{
		BaseEntity: newBase(ctx, node, start, shape),
		Shape:      shape,
		cfg:        cfg.Player,
		world:      cfg.World,
		projectile: cfg.Projectile,
		launcher:   launcher,
		limiter:    validation.NewFireLimiter(cfg.Player.FireRate),
		held:       make(map[string]bool),
	}
	for _, c := range shape {
		if c.Offset.Y+c.Radius > p.muzzle.Y {
			p.muzzle = physics.Vector2D{X: c.Offset.X, Y: c.Offset.Y + c.Radius}
		}
	}
	p.resetStats()

	Listen(p.scope, ctx.Bus, event.InputAction, p.handleInput)

	return p
}

// Kind returns scene.KindPlayer
func (p *Player) Kind() scene.Kind {
	return scene.KindPlayer
}

func (p *Player) handleInput(e event.InputActionEvent) {
	if !p.Active {
		return
	}
	e, err := validation.ValidateInput(e)
	if err != nil {
		p.ctx.Logger.Debug(p.logCtx(), "ignoring input", "action", e.Action, "error", err)
		return
	}

	switch e.Action {
	case event.ActionLeft, event.ActionRight, event.ActionUp, event.ActionDown:
		p.held[e.Action] = e.Pressed
	case event.ActionFire:
		p.firing = e.Pressed
		if e.Pressed && !p.frozen {
			p.Fire()
		}
	}
}

func (p *Player) axes() (float64, float64) {
	var x, y float64
	if p.held[event.ActionLeft] {
		x--
	}
	if p.held[event.ActionRight] {
		x++
	}
	if p.held[event.ActionDown] {
		y--
	}
	if p.held[event.ActionUp] {
		y++
	}
	return x, y
}

// Update moves the ship from held input, keeps it on the field, counts down
// the shield and keeps firing while fire is held.
func (p *Player) Update(deltaTime float64) {
	if !p.Active {
		return
	}
	x, y := p.axes()
	p.Velocity = physics.SteerVelocity(x, y, p.cfg.Speed)
	p.step(deltaTime, p.tick)
}

func (p *Player) tick(deltaTime float64) {
	p.Position = p.Position.Clamp(
		physics.Vector2D{X: -p.world.FieldHalfWidth, Y: p.world.PlayerMinY},
		physics.Vector2D{X: p.world.FieldHalfWidth, Y: p.world.PlayerMaxY},
	)
	p.sync()

	p.TimeAlive += deltaTime
	if p.shield > 0 {
		p.shield -= deltaTime
		if p.shield <= 0 {
			p.shield = 0
			p.Node.Variant = ""
		}
	}

	p.limiter.Advance(deltaTime)
	if p.firing {
		p.Fire()
	}
}

// SetFrozen stops input from firing while the simulation is halted. Held
// keys are still tracked.
func (p *Player) SetFrozen(frozen bool) {
	p.frozen = frozen
}

// Fire launches one projectile from the nose if the fire rate and ammo
// allow it. It reports whether a shot left the ship.
func (p *Player) Fire() bool {
	if !p.Active || !p.limiter.Allow(fireKey) {
		return false
	}

	bus := p.ctx.Bus
	if p.Ammo <= 0 {
		event.Publish(bus, event.AudioPlay, event.AudioPlayEvent{SoundID: event.SoundEmpty})
		return false
	}

	p.Ammo--
	p.ShotsFired++
	p.updateAccuracy()

	if p.launcher != nil {
		p.launcher.Create(p.ID, p.Position.Add(p.muzzle), physics.Vector2D{Y: p.projectile.Speed}, p.projectile.Damage)
	}

	event.Publish(bus, event.AudioPlay, event.AudioPlayEvent{SoundID: event.SoundLaser, Options: event.AudioOptions{Volume: 0.5}})
	p.publishAmmo()
	return true
}

// TakeDamage removes health unless the shield is up. It returns the amount
// actually applied.
func (p *Player) TakeDamage(amount int) int {
	if !p.Active || amount <= 0 || p.ShieldActive() {
		return 0
	}

	before := p.Health
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}

	event.Publish(p.ctx.Bus, event.AudioPlay, event.AudioPlayEvent{SoundID: event.SoundDamage})
	p.publishHealth()
	return before - p.Health
}

// Heal adds health up to MaxHealth
func (p *Player) Heal(amount int) {
	p.Health = min(p.Health+amount, p.MaxHealth)
	p.publishHealth()
}

// AddAmmo adds ammo up to MaxAmmo
func (p *Player) AddAmmo(amount int) {
	p.Ammo = min(p.Ammo+amount, p.MaxAmmo)
	p.publishAmmo()
}

// ActivateShield makes the player immune to damage for ms milliseconds. A
// new shield replaces whatever time was left.
func (p *Player) ActivateShield(ms float64) {
	if ms <= 0 {
		return
	}
	p.shield = ms / 1000
	p.Node.Variant = "shielded"
}

// ShieldActive reports whether damage is currently ignored
func (p *Player) ShieldActive() bool {
	return p.shield > 0
}

// ShieldRemaining returns the seconds of immunity left
func (p *Player) ShieldRemaining() float64 {
	return p.shield
}

// RecordKill credits one destroyed enemy and its score.
func (p *Player) RecordKill(score int) {
	p.EnemiesDestroyed++
	p.Score += score
	p.updateAccuracy()
	event.Publish(p.ctx.Bus, event.UIUpdateScore, event.ScoreEvent{Score: p.Score})
}

// RecordEscape counts an enemy that got past the player
func (p *Player) RecordEscape() {
	p.EnemiesEscaped++
}

// IsDead reports whether health is exhausted
func (p *Player) IsDead() bool {
	return p.Health <= 0
}

func (p *Player) updateAccuracy() {
	if p.ShotsFired == 0 {
		p.Accuracy = 0
		return
	}
	p.Accuracy = 100 * float64(p.EnemiesDestroyed) / float64(p.ShotsFired)
}

// Colliders returns the hit-box circles in world space
func (p *Player) Colliders() []physics.Circle {
	return p.Shape.At(p.Position)
}

// HitsCircle tests the compound hit-box against a single circle
func (p *Player) HitsCircle(position physics.Vector2D, radius float64) bool {
	return physics.CompoundVsCircle(p.Position, p.Shape, position, radius)
}

// Stats returns a snapshot of the stats block
func (p *Player) Stats() event.PlayerStats {
	return event.PlayerStats{
		Health:           p.Health,
		MaxHealth:        p.MaxHealth,
		Ammo:             p.Ammo,
		MaxAmmo:          p.MaxAmmo,
		Score:            p.Score,
		ShotsFired:       p.ShotsFired,
		EnemiesDestroyed: p.EnemiesDestroyed,
		EnemiesEscaped:   p.EnemiesEscaped,
		TimeAlive:        p.TimeAlive,
		Accuracy:         p.Accuracy,
	}
}

// Reset restores the start-of-session state for a replay and republishes
// the gauges. It does not revive a destroyed player.
func (p *Player) Reset() {
	if !p.Active {
		return
	}
	p.resetStats()
	p.Position = physics.Vector2D{X: p.cfg.StartX, Y: p.cfg.StartY}
	p.Velocity = physics.Vector2D{}
	p.sync()
	p.held = make(map[string]bool)
	p.firing = false
	p.shield = 0
	p.Node.Variant = ""
	p.limiter.Reset()

	p.publishHealth()
	p.publishAmmo()
	event.Publish(p.ctx.Bus, event.UIUpdateScore, event.ScoreEvent{Score: p.Score})
	p.ctx.Logger.Info(p.logCtx(), "player reset")
}

func (p *Player) resetStats() {
	p.Health = p.cfg.MaxHealth
	p.MaxHealth = p.cfg.MaxHealth
	p.Ammo = p.cfg.StartAmmo
	p.MaxAmmo = p.cfg.MaxAmmo
	p.Score = 0
	p.ShotsFired = 0
	p.EnemiesDestroyed = 0
	p.EnemiesEscaped = 0
	p.TimeAlive = 0
	p.Accuracy = 0
}

func (p *Player) publishHealth() {
	event.Publish(p.ctx.Bus, event.UIUpdateHealth, event.GaugeEvent{Current: p.Health, Max: p.MaxHealth})
}

func (p *Player) publishAmmo() {
	event.Publish(p.ctx.Bus, event.UIUpdateAmmo, event.GaugeEvent{Current: p.Ammo, Max: p.MaxAmmo})
}
