// pkg/spawn/controller.go
package spawn

import (
	"math/rand/v2"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/physics"
)

// Factory creates entities on behalf of the controller. The orchestrator
// implements it so it stays the only writer of the live collections.
type Factory interface {
	SpawnEnemy(enemyType string, position physics.Vector2D) error
	SpawnPowerUp(powerUpType string, position physics.Vector2D) error
}

// Controller runs the enemy and power-up timers. There is no difficulty
// ramp: intervals and tables never change during a session.
type Controller struct {
	ctx     *entity.Context
	factory Factory
	rng     *rand.Rand
	world   config.WorldConfig

	enemyInterval   float64
	powerUpInterval float64
	enemyTimer      float64
	powerUpTimer    float64

	enemies  *Table[string]
	powerUps *Table[string]

	EnemiesSpawned  int
	PowerUpsSpawned int
	Failures        int
}

// NewController creates a controller with both timers at zero
func NewController(ctx *entity.Context, cfg *config.GameConfig, factory Factory, rng *rand.Rand) *Controller {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 1))
	}
	return &Controller{
		ctx:             ctx,
		factory:         factory,
		rng:             rng,
		world:           cfg.World,
		enemyInterval:   cfg.Spawn.EnemyInterval(),
		powerUpInterval: cfg.Spawn.PowerUpInterval(),
		enemies:         EnemyTable(),
		powerUps:        PowerUpTable(),
	}
}

// Update accumulates time and spawns at most one enemy and one power-up.
func (c *Controller) Update(deltaTime float64) {
	c.enemyTimer += deltaTime
	if c.enemyTimer > c.enemyInterval {
		c.enemyTimer = 0
		c.SpawnEnemy()
	}

	c.powerUpTimer += deltaTime
	if c.powerUpTimer > c.powerUpInterval {
		c.powerUpTimer = 0
		c.SpawnPowerUp()
	}
}

// SpawnEnemy draws a type and position and asks the factory for an enemy.
// A failed spawn is logged and skipped.
func (c *Controller) SpawnEnemy() {
	enemyType := c.enemies.Sample(c.rng)
	pos := c.spawnPosition()

	if err := c.factory.SpawnEnemy(enemyType, pos); err != nil {
		c.Failures++
		c.ctx.Logger.Error(c.ctx.Ctx, "enemy spawn failed", err, "type", enemyType)
		return
	}
	c.EnemiesSpawned++
}

// SpawnPowerUp draws a type and position and asks the factory for a
// power-up. A failed spawn is logged and skipped.
func (c *Controller) SpawnPowerUp() {
	powerUpType := c.powerUps.Sample(c.rng)
	pos := c.spawnPosition()

	if err := c.factory.SpawnPowerUp(powerUpType, pos); err != nil {
		c.Failures++
		c.ctx.Logger.Error(c.ctx.Ctx, "power-up spawn failed", err, "type", powerUpType)
		return
	}
	c.PowerUpsSpawned++
}

// spawnPosition is a random X in the spawn band at the top of the field
func (c *Controller) spawnPosition() physics.Vector2D {
	band := c.world.SpawnBandHalfWidth
	return physics.Vector2D{
		X: -band + c.rng.Float64()*2*band,
		Y: c.world.SpawnY,
	}
}

// Reset zeroes both timers and the counters
func (c *Controller) Reset() {
	c.enemyTimer = 0
	c.powerUpTimer = 0
	c.EnemiesSpawned = 0
	c.PowerUpsSpawned = 0
	c.Failures = 0
}

// Timers returns the accumulated enemy and power-up time
func (c *Controller) Timers() (enemy, powerUp float64) {
	return c.enemyTimer, c.powerUpTimer
}
