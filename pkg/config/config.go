// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// GameConfig holds every tunable number of the simulation core.
type GameConfig struct {
	World      WorldConfig                `json:"world"`
	Player     PlayerConfig               `json:"player"`
	Projectile ProjectileConfig           `json:"projectile"`
	Enemies    EnemyConfig                `json:"enemies"`
	PowerUps   map[string]PowerUpTypeSpec `json:"powerUps"`
	Spawn      SpawnConfig                `json:"spawn"`
	Particles  ParticleConfig             `json:"particles"`
	Debug      DebugConfig                `json:"debug"`
}

// WorldConfig describes the play field.
type WorldConfig struct {
	// ProjectileBound: a projectile with |x| or |y| above it is removed.
	ProjectileBound    float64 `json:"projectileBound"`
	FieldHalfWidth     float64 `json:"fieldHalfWidth"`
	SpawnBandHalfWidth float64 `json:"spawnBandHalfWidth"`
	SpawnY             float64 `json:"spawnY"`
	BottomY            float64 `json:"bottomY"`
	PlayerMinY         float64 `json:"playerMinY"`
	PlayerMaxY         float64 `json:"playerMaxY"`
}

// HitCircle is one circle of the player's compound hit-box in ship-local
// space, before the size factor is applied.
type HitCircle struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// PlayerConfig holds the player ship's stats and hit-box.
type PlayerConfig struct {
	MaxHealth  int         `json:"maxHealth"`
	StartAmmo  int         `json:"startAmmo"`
	MaxAmmo    int         `json:"maxAmmo"`
	Speed      float64     `json:"speed"`
	StartX     float64     `json:"startX"`
	StartY     float64     `json:"startY"`
	SizeFactor float64     `json:"sizeFactor"`
	FireRate   int         `json:"fireRate"` // shots per second
	HitBox     []HitCircle `json:"hitBox"`
}

// ProjectileConfig holds the fixed projectile numbers.
type ProjectileConfig struct {
	Speed      float64 `json:"speed"`
	Damage     int     `json:"damage"`
	LifetimeMS int     `json:"lifetimeMs"`
	Radius     float64 `json:"radius"`
}

// Lifetime returns the projectile lifetime in seconds.
func (p ProjectileConfig) Lifetime() float64 {
	return msToSeconds(p.LifetimeMS)
}

// EnemyTypeSpec is one row of the enemy lookup table. Radius is scaled by
// EnemyConfig.Scale.
type EnemyTypeSpec struct {
	Health          int     `json:"health"`
	Speed           float64 `json:"speed"`
	Radius          float64 `json:"radius"`
	Score           int     `json:"score"`
	EscapePenalty   int     `json:"escapePenalty"`
	CollisionDamage int     `json:"collisionDamage"`
}

// EnemyConfig holds the enemy lookup table.
type EnemyConfig struct {
	Scale float64                  `json:"scale"`
	Types map[string]EnemyTypeSpec `json:"types"`
}

// PowerUpTypeSpec is one row of the power-up lookup table. Effect is a
// point amount for ammo and health, and milliseconds for shield.
type PowerUpTypeSpec struct {
	Effect     float64 `json:"effect"`
	LifetimeMS int     `json:"lifetimeMs"`
	Radius     float64 `json:"radius"`
	Speed      float64 `json:"speed"`
}

// Lifetime returns the power-up lifetime in seconds.
func (p PowerUpTypeSpec) Lifetime() float64 {
	return msToSeconds(p.LifetimeMS)
}

// SpawnConfig holds the two population timers.
type SpawnConfig struct {
	EnemyIntervalMS   int `json:"enemyIntervalMs"`
	PowerUpIntervalMS int `json:"powerUpIntervalMs"`
}

// EnemyInterval returns the enemy spawn interval in seconds.
func (s SpawnConfig) EnemyInterval() float64 {
	return msToSeconds(s.EnemyIntervalMS)
}

// PowerUpInterval returns the power-up spawn interval in seconds.
func (s SpawnConfig) PowerUpInterval() float64 {
	return msToSeconds(s.PowerUpIntervalMS)
}

// ParticleConfig sizes the particle pool.
type ParticleConfig struct {
	PoolSize int `json:"poolSize"`
}

// DebugConfig carries debug switches. It is handed to entities at
// construction rather than looked up globally.
type DebugConfig struct {
	ShowColliders bool `json:"showColliders"`
}

func msToSeconds(ms int) float64 {
	return (time.Duration(ms) * time.Millisecond).Seconds()
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("cannot save nil config")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the numbers the simulation divides by or compares against.
func (c *GameConfig) Validate() error {
	if c.World.ProjectileBound <= 0 {
		return &ValidationError{Field: "World.ProjectileBound", Value: c.World.ProjectileBound, Reason: "must be positive"}
	}
	if c.World.BottomY >= c.World.SpawnY {
		return &ValidationError{Field: "World.BottomY", Value: c.World.BottomY, Reason: "must be below SpawnY"}
	}
	if c.Player.MaxHealth <= 0 {
		return &ValidationError{Field: "Player.MaxHealth", Value: c.Player.MaxHealth, Reason: "must be positive"}
	}
	if c.Player.MaxAmmo < c.Player.StartAmmo || c.Player.StartAmmo < 0 {
		return &ValidationError{Field: "Player.StartAmmo", Value: c.Player.StartAmmo, Reason: "must be within [0, MaxAmmo]"}
	}
	if c.Player.SizeFactor <= 0 {
		return &ValidationError{Field: "Player.SizeFactor", Value: c.Player.SizeFactor, Reason: "must be positive"}
	}
	if len(c.Player.HitBox) == 0 {
		return &ValidationError{Field: "Player.HitBox", Value: 0, Reason: "needs at least one circle"}
	}
	if c.Projectile.LifetimeMS <= 0 {
		return &ValidationError{Field: "Projectile.LifetimeMS", Value: c.Projectile.LifetimeMS, Reason: "must be positive"}
	}
	if c.Spawn.EnemyIntervalMS <= 0 {
		return &ValidationError{Field: "Spawn.EnemyIntervalMS", Value: c.Spawn.EnemyIntervalMS, Reason: "must be positive"}
	}
	if c.Spawn.PowerUpIntervalMS <= 0 {
		return &ValidationError{Field: "Spawn.PowerUpIntervalMS", Value: c.Spawn.PowerUpIntervalMS, Reason: "must be positive"}
	}
	if c.Particles.PoolSize < 0 {
		return &ValidationError{Field: "Particles.PoolSize", Value: c.Particles.PoolSize, Reason: "must not be negative"}
	}
	return nil
}

// DefaultConfig returns the reference tuning of the game.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		World: WorldConfig{
			ProjectileBound:    10,
			FieldHalfWidth:     5,
			SpawnBandHalfWidth: 4,
			SpawnY:             6,
			BottomY:            -6,
			PlayerMinY:         -5.5,
			PlayerMaxY:         0,
		},
		Player: PlayerConfig{
			MaxHealth:  100,
			StartAmmo:  50,
			MaxAmmo:    100,
			Speed:      5,
			StartX:     0,
			StartY:     -4,
			SizeFactor: 0.5,
			FireRate:   8,
			HitBox: []HitCircle{
				{Name: "nose", X: 0, Y: 0.6, Radius: 0.2},
				{Name: "cockpit", X: 0, Y: 0.2, Radius: 0.25},
				{Name: "leftWing", X: -0.5, Y: -0.1, Radius: 0.25},
				{Name: "rightWing", X: 0.5, Y: -0.1, Radius: 0.25},
				{Name: "engine", X: 0, Y: -0.4, Radius: 0.3},
			},
		},
		Projectile: ProjectileConfig{
			Speed:      15,
			Damage:     10,
			LifetimeMS: 3000,
			Radius:     0.1,
		},
		Enemies: EnemyConfig{
			Scale: 1,
			Types: map[string]EnemyTypeSpec{
				"basic": {Health: 20, Speed: 1.5, Radius: 0.3, Score: 10, EscapePenalty: 5, CollisionDamage: 10},
				"fast":  {Health: 10, Speed: 2.5, Radius: 0.2, Score: 25, EscapePenalty: 8, CollisionDamage: 15},
				"heavy": {Health: 50, Speed: 0.8, Radius: 0.5, Score: 50, EscapePenalty: 15, CollisionDamage: 25},
			},
		},
		PowerUps: map[string]PowerUpTypeSpec{
			"ammo":   {Effect: 15, LifetimeMS: 8000, Radius: 0.3, Speed: 1},
			"health": {Effect: 25, LifetimeMS: 8000, Radius: 0.3, Speed: 1},
			"shield": {Effect: 5000, LifetimeMS: 6000, Radius: 0.3, Speed: 1},
		},
		Spawn: SpawnConfig{
			EnemyIntervalMS:   1500,
			PowerUpIntervalMS: 10000,
		},
		Particles: ParticleConfig{
			PoolSize: 50,
		},
	}
}
