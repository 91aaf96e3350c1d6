// pkg/engine/game.go
package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/particle"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/projectile"
	"github.com/opd-ai/go-starstrike/pkg/spawn"
)

// GameStatus is the lifecycle of a World's update loop
type GameStatus int

const (
	GameStatusWaiting GameStatus = iota
	GameStatusActive
	GameStatusEnded
)

// World owns the player and the live enemy and power-up collections. It is
// the only writer of those collections; everything else reaches it through
// the bus.
type World struct {
	Config *config.GameConfig

	Player      *entity.Player
	Enemies     map[entity.ID]*entity.Enemy
	PowerUps    map[entity.ID]*entity.PowerUp
	Projectiles *projectile.Manager
	Particles   *particle.Pool
	Spawner     *spawn.Controller

	Running     bool
	Status      GameStatus
	CurrentTick uint64
	ElapsedTime float64 // simulation seconds

	ctx          *entity.Context
	enemyOrder   []*entity.Enemy
	powerUpOrder []*entity.PowerUp
	scope        *entity.Scope
}

// NewWorld creates the player and the subsystems and subscribes the
// orchestrator handlers. The seed drives spawning and particles.
func NewWorld(ctx *entity.Context, cfg *config.GameConfig, seed uint64) *World {
	w := &World{
		Config:   cfg,
		Enemies:  make(map[entity.ID]*entity.Enemy),
		PowerUps: make(map[entity.ID]*entity.PowerUp),
		ctx:      ctx,
		scope:    entity.NewScope(),
	}

	w.Projectiles = projectile.NewManager(ctx, cfg)
	w.Player = entity.NewPlayer(ctx, cfg, w.Projectiles)
	w.Projectiles.SetPlayer(w.Player.ID)
	w.Player.SetFrozen(true)
	w.Particles = particle.NewPool(ctx, cfg.Particles.PoolSize, rand.New(rand.NewPCG(seed, 2)))
	w.Spawner = spawn.NewController(ctx, cfg, w, rand.New(rand.NewPCG(seed, 1)))

	w.registerEventHandlers()

	return w
}

// registerEventHandlers subscribes the orchestrator to the notifications it
// resolves.
func (w *World) registerEventHandlers() {
	bus := w.ctx.Bus
	entity.Listen(w.scope, bus, event.EnemyEscaped, w.handleEnemyEscaped)
	entity.Listen(w.scope, bus, event.EnemyDestroyed, w.handleEnemyDestroyed)
	entity.Listen(w.scope, bus, event.CollisionCheck, w.handleCollisionCheck)
	entity.Listen(w.scope, bus, event.ProjectileEnemy, w.handleProjectileEnemy)
	entity.Listen(w.scope, bus, event.PowerUpPlayer, w.handlePowerUpPlayer)
}

// Start begins the update loop
func (w *World) Start() {
	if w.Status == GameStatusEnded {
		return
	}
	w.Running = true
	w.Status = GameStatusActive
	w.Player.SetFrozen(false)
}

// Stop halts the update loop without ending the game
func (w *World) Stop() {
	w.Running = false
	w.Player.SetFrozen(true)
}

// Update advances the simulation by one frame: player, enemies, power-ups,
// projectiles, spawner, then particles. It stops early once the player dies.
func (w *World) Update(deltaTime float64) {
	if !w.Running {
		return
	}
	w.CurrentTick++
	w.ElapsedTime += deltaTime

	w.Player.Update(deltaTime)

	w.updateEnemies(deltaTime)
	if !w.Running {
		w.sweep()
		return
	}
	w.updatePowerUps(deltaTime)
	w.sweep()

	w.Projectiles.Update(deltaTime)
	w.sweep()

	w.Spawner.Update(deltaTime)
	w.Particles.Update(deltaTime)
}

// updateEnemies updates each enemy in spawn order
func (w *World) updateEnemies(deltaTime float64) {
	for _, e := range w.enemyOrder {
		e.Update(deltaTime)
		if !w.Running {
			return
		}
	}
}

// updatePowerUps updates each power-up in spawn order
func (w *World) updatePowerUps(deltaTime float64) {
	for _, p := range w.powerUpOrder {
		p.Update(deltaTime)
	}
}

// sweep drops every enemy and power-up that deactivated itself
func (w *World) sweep() {
	enemies := w.enemyOrder[:0]
	for _, e := range w.enemyOrder {
		if e.Active {
			enemies = append(enemies, e)
			continue
		}
		delete(w.Enemies, e.ID)
	}
	clear(w.enemyOrder[len(enemies):])
	w.enemyOrder = enemies

	powerUps := w.powerUpOrder[:0]
	for _, p := range w.powerUpOrder {
		if p.Active {
			powerUps = append(powerUps, p)
			continue
		}
		delete(w.PowerUps, p.ID)
	}
	clear(w.powerUpOrder[len(powerUps):])
	w.powerUpOrder = powerUps
}

// SpawnEnemy creates an enemy and adds it to the live collections.
func (w *World) SpawnEnemy(enemyType string, position physics.Vector2D) error {
	e, err := entity.NewEnemy(w.ctx, w.Config, enemyType, position)
	if err != nil {
		return fmt.Errorf("spawn enemy: %w", err)
	}
	w.Enemies[e.ID] = e
	w.enemyOrder = append(w.enemyOrder, e)
	return nil
}

// SpawnPowerUp creates a power-up and adds it to the live collections.
func (w *World) SpawnPowerUp(powerUpType string, position physics.Vector2D) error {
	p, err := entity.NewPowerUp(w.ctx, w.Config, powerUpType, position)
	if err != nil {
		return fmt.Errorf("spawn power-up: %w", err)
	}
	w.PowerUps[p.ID] = p
	w.powerUpOrder = append(w.powerUpOrder, p)
	return nil
}

// LiveEnemies returns the live enemies in spawn order
func (w *World) LiveEnemies() []*entity.Enemy {
	out := make([]*entity.Enemy, 0, len(w.enemyOrder))
	for _, e := range w.enemyOrder {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}

// LivePowerUps returns the live power-ups in spawn order
func (w *World) LivePowerUps() []*entity.PowerUp {
	out := make([]*entity.PowerUp, 0, len(w.powerUpOrder))
	for _, p := range w.powerUpOrder {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// handleEnemyEscaped applies the escape penalty. The shield absorbs it.
func (w *World) handleEnemyEscaped(e event.EnemyEscapedEvent) {
	if w.Status == GameStatusEnded {
		return
	}
	w.Player.RecordEscape()
	w.Player.TakeDamage(e.Penalty)
	w.ctx.Logger.Debug(w.ctx.Ctx, "enemy escaped", "type", e.Type, "penalty", e.Penalty, "health", w.Player.Health)
	w.checkPlayerDeath()
}

// handleEnemyDestroyed credits the kill
func (w *World) handleEnemyDestroyed(e event.EnemyDestroyedEvent) {
	if w.Status == GameStatusEnded {
		return
	}
	w.Player.RecordKill(e.Score)
}

// handleCollisionCheck resolves a direct touch between an enemy and the
// player's compound hit-box. The enemy crashes and the player takes the
// touch damage.
func (w *World) handleCollisionCheck(e event.CollisionCheckEvent) {
	if w.Status == GameStatusEnded || !w.Player.Active {
		return
	}
	if !w.Player.HitsCircle(e.Position, e.Radius) {
		return
	}

	enemy, ok := w.Enemies[entity.ID(e.EntityID)]
	if !ok || !enemy.Crash() {
		return
	}
	w.Player.TakeDamage(e.Damage)
	w.checkPlayerDeath()
}

// handleProjectileEnemy finds the one enemy a projectile hit, confirms the
// hit so the projectile is removed and damages the enemy.
func (w *World) handleProjectileEnemy(e event.ProjectileEnemyEvent) {
	if w.Status == GameStatusEnded {
		return
	}
	target, ok := entity.NearestEnemy(e.Position, e.Radius, w.enemyOrder)
	if !ok {
		return
	}

	event.Publish(w.ctx.Bus, event.ProjectileConsumed, event.ProjectileConsumedEvent{ProjectileID: e.ProjectileID})
	target.TakeDamage(e.Damage)
}

// handlePowerUpPlayer collects a power-up touching the player and applies
// its effect, clamped to the player's maximums.
func (w *World) handlePowerUpPlayer(e event.PowerUpPlayerEvent) {
	if w.Status == GameStatusEnded || !w.Player.Active {
		return
	}
	if !w.Player.HitsCircle(e.Position, e.Radius) {
		return
	}

	p, ok := w.PowerUps[entity.ID(e.PowerUpID)]
	if !ok || !p.Collect() {
		return
	}

	switch p.Type {
	case entity.PowerUpAmmo:
		w.Player.AddAmmo(int(p.Effect))
	case entity.PowerUpHealth:
		w.Player.Heal(int(p.Effect))
	case entity.PowerUpShield:
		w.Player.ActivateShield(p.Effect)
	}

	bus := w.ctx.Bus
	event.Publish(bus, event.PowerUpCollected, event.PowerUpCollectedEvent{
		PowerUpID: e.PowerUpID,
		Type:      p.Type,
		Effect:    p.Effect,
	})
	event.Publish(bus, event.AudioPlay, event.AudioPlayEvent{SoundID: event.SoundPowerUp})
}

// checkPlayerDeath ends the game the first time health reaches zero.
func (w *World) checkPlayerDeath() {
	if w.Status == GameStatusEnded || !w.Player.IsDead() {
		return
	}
	w.endGame()
}

// endGame stops the loop and reports the final stats once.
func (w *World) endGame() {
	w.Status = GameStatusEnded
	w.Running = false
	w.Player.SetFrozen(true)

	stats := w.Player.Stats()
	bus := w.ctx.Bus
	event.Publish(bus, event.AudioPlay, event.AudioPlayEvent{SoundID: event.SoundGameOver})
	event.Publish(bus, event.GameOver, event.GameOverEvent{FinalScore: stats.Score, Stats: stats})

	w.ctx.Logger.Info(w.ctx.Ctx, "game over",
		"score", stats.Score,
		"destroyed", stats.EnemiesDestroyed,
		"escaped", stats.EnemiesEscaped,
		"accuracy", stats.Accuracy,
		"time_alive", stats.TimeAlive,
	)
}

// Reset clears the field and restores the player for another round. The
// world is left waiting; call Start to resume.
func (w *World) Reset() {
	w.clearField()
	w.Spawner.Reset()
	w.Player.Reset()
	w.Player.SetFrozen(true)
	w.Running = false
	w.Status = GameStatusWaiting
	w.CurrentTick = 0
	w.ElapsedTime = 0
}

// clearField destroys every enemy, power-up, projectile and particle
func (w *World) clearField() {
	for _, e := range w.enemyOrder {
		e.Destroy()
	}
	for _, p := range w.powerUpOrder {
		p.Destroy()
	}
	w.sweep()
	w.Projectiles.Clear()
	w.Particles.Clear()
}

// Teardown destroys every entity and drops every subscription the world
// holds. The world cannot be used afterwards.
func (w *World) Teardown() {
	if w.scope.Closed() {
		return
	}
	w.Running = false
	w.clearField()
	w.Player.Destroy()
	w.Projectiles.Close()
	w.Particles.Close()
	w.scope.Close()
	w.ctx.Logger.Debug(w.ctx.Ctx, "world torn down")
}

// GetGameState returns a snapshot of the world
func (w *World) GetGameState() *GameState {
	state := &GameState{
		Tick:        w.CurrentTick,
		Status:      w.Status,
		Player:      w.Player.Stats(),
		PlayerAt:    w.Player.Position,
		Shielded:    w.Player.ShieldActive(),
		Projectiles: w.Projectiles.Count(),
		Particles:   w.Particles.ActiveCount(),
	}
	for _, e := range w.LiveEnemies() {
		state.Enemies = append(state.Enemies, EnemyState{
			ID:       e.ID,
			Type:     e.Type,
			Position: e.Position,
			Health:   e.Health,
		})
	}
	for _, p := range w.LivePowerUps() {
		state.PowerUps = append(state.PowerUps, PowerUpState{
			ID:       p.ID,
			Type:     p.Type,
			Position: p.Position,
			Age:      p.Age,
		})
	}
	return state
}

// GameState represents a snapshot of the game state
type GameState struct {
	Tick        uint64
	Status      GameStatus
	Player      event.PlayerStats
	PlayerAt    physics.Vector2D
	Shielded    bool
	Enemies     []EnemyState
	PowerUps    []PowerUpState
	Projectiles int
	Particles   int
}

// EnemyState represents a snapshot of an enemy
type EnemyState struct {
	ID       entity.ID
	Type     string
	Position physics.Vector2D
	Health   int
}

// PowerUpState represents a snapshot of a power-up
type PowerUpState struct {
	ID       entity.ID
	Type     string
	Position physics.Vector2D
	Age      float64
}
