// pkg/event/topics.go
package event

import (
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// Inbound to the simulation core.
var (
	InputAction        = NewTopic[InputActionEvent]("input:action")
	CollisionCheck     = NewTopic[CollisionCheckEvent]("collision:check")
	ProjectileEnemy    = NewTopic[ProjectileEnemyEvent]("collision:projectile-enemy")
	PowerUpPlayer      = NewTopic[PowerUpPlayerEvent]("collision:powerup-player")
	ProjectileConsumed = NewTopic[ProjectileConsumedEvent]("projectile:consumed")
	ParticlesExplosion = NewTopic[ParticlesEvent]("particles:explosion")
	ParticlesHit       = NewTopic[ParticlesEvent]("particles:hit")
	GameStateChanged   = NewTopic[GameStateEvent]("game:state")
)

// Outbound to rendering, audio and UI collaborators.
var (
	SceneAddObject    = NewTopic[SceneObjectEvent]("scene:add-object")
	SceneRemoveObject = NewTopic[SceneObjectEvent]("scene:remove-object")
	AudioPlay         = NewTopic[AudioPlayEvent]("audio:play")
	UIUpdateHealth    = NewTopic[GaugeEvent]("ui:update-health")
	UIUpdateAmmo      = NewTopic[GaugeEvent]("ui:update-ammo")
	UIUpdateScore     = NewTopic[ScoreEvent]("ui:update-score")
	GameOver          = NewTopic[GameOverEvent]("game:over")
	EnemyEscaped      = NewTopic[EnemyEscapedEvent]("enemy:escaped")
	EnemyDestroyed    = NewTopic[EnemyDestroyedEvent]("enemy:destroyed")
	EnemyCrashed      = NewTopic[EnemyCrashedEvent]("enemy:crashed")
	PowerUpCollected  = NewTopic[PowerUpCollectedEvent]("powerup:collected")
	ProjectileRemoved = NewTopic[ProjectileRemovedEvent]("projectile:removed")
)

// Input actions carried by InputActionEvent.
const (
	ActionLeft  = "left"
	ActionRight = "right"
	ActionUp    = "up"
	ActionDown  = "down"
	ActionFire  = "fire"
	ActionPause = "pause"
)

// Sound ids carried by AudioPlayEvent.
const (
	SoundLaser     = "laser"
	SoundEmpty     = "empty"
	SoundHit       = "hit"
	SoundExplosion = "explosion"
	SoundPowerUp   = "powerup"
	SoundDamage    = "damage"
	SoundGameOver  = "gameover"
)

// InputActionEvent is a discrete press or release of an action.
type InputActionEvent struct {
	Action  string
	Pressed bool
}

// CollisionCheckEvent asks whether an entity touches the player.
type CollisionCheckEvent struct {
	EntityID uint64
	Type     string
	Position physics.Vector2D
	Radius   float64
	Damage   int
}

// ProjectileEnemyEvent asks which enemy, if any, a projectile hit.
type ProjectileEnemyEvent struct {
	ProjectileID uint64
	Position     physics.Vector2D
	Damage       int
	Radius       float64
}

// PowerUpPlayerEvent asks whether the player picked up a power-up.
type PowerUpPlayerEvent struct {
	PowerUpID uint64
	Type      string
	Position  physics.Vector2D
	Radius    float64
	Effect    float64
}

// ProjectileConsumedEvent confirms a hit; the projectile must be removed.
type ProjectileConsumedEvent struct {
	ProjectileID uint64
}

// ParticlesEvent requests a preset particle effect at a position.
type ParticlesEvent struct {
	Position physics.Vector2D
}

// SceneObjectEvent attaches or detaches a visual handle.
type SceneObjectEvent struct {
	Object *scene.Node
}

// AudioOptions tunes one playback.
type AudioOptions struct {
	Volume float64
}

// AudioPlayEvent is an intent to play a sound.
type AudioPlayEvent struct {
	SoundID string
	Options AudioOptions
}

// GaugeEvent carries a bounded value such as health or ammo.
type GaugeEvent struct {
	Current int
	Max     int
}

// ScoreEvent carries the running score.
type ScoreEvent struct {
	Score int
}

// PlayerStats is the stats block reported with game:over.
type PlayerStats struct {
	Health           int
	MaxHealth        int
	Ammo             int
	MaxAmmo          int
	Score            int
	ShotsFired       int
	EnemiesDestroyed int
	EnemiesEscaped   int
	TimeAlive        float64
	Accuracy         float64
}

// GameOverEvent is published once when the player dies.
type GameOverEvent struct {
	FinalScore int
	Stats      PlayerStats
}

// EnemyEscapedEvent reports an enemy leaving through the bottom boundary.
type EnemyEscapedEvent struct {
	EnemyID  uint64
	Type     string
	Position physics.Vector2D
	Penalty  int
}

// EnemyDestroyedEvent reports an enemy killed by damage.
type EnemyDestroyedEvent struct {
	EnemyID  uint64
	Type     string
	Position physics.Vector2D
	Score    int
}

// EnemyCrashedEvent reports an enemy destroyed by touching the player.
type EnemyCrashedEvent struct {
	EnemyID  uint64
	Type     string
	Position physics.Vector2D
	Damage   int
}

// PowerUpCollectedEvent reports a collected power-up.
type PowerUpCollectedEvent struct {
	PowerUpID uint64
	Type      string
	Effect    float64
}

// Reasons carried by ProjectileRemovedEvent.
const (
	RemovedExpired     = "expired"
	RemovedOutOfBounds = "out-of-bounds"
	RemovedHit         = "hit"
	RemovedTeardown    = "teardown"
)

// ProjectileRemovedEvent reports the single removal of a projectile.
type ProjectileRemovedEvent struct {
	ProjectileID uint64
	Reason       string
}

// Session states carried by GameStateEvent.
const (
	StateMenu     = "menu"
	StateRunning  = "running"
	StatePaused   = "paused"
	StateGameOver = "game-over"
)

// GameStateEvent reports a session state transition.
type GameStateEvent struct {
	State string
}
