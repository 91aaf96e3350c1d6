// Package autopilot flies the player ship from game-state snapshots by
// publishing the same input:action events a keyboard would.
package autopilot

import (
	"math"

	"github.com/opd-ai/go-starstrike/pkg/engine"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
)

// Behavior selects what the autopilot chases
type Behavior int

const (
	BehaviorAggressor Behavior = iota // tracks the lowest enemy and fires
	BehaviorCollector                 // goes for power-ups when a gauge runs low
)

// ParseBehavior maps a flag value to a Behavior
func ParseBehavior(name string) (Behavior, bool) {
	switch name {
	case "aggressor", "":
		return BehaviorAggressor, true
	case "collector":
		return BehaviorCollector, true
	default:
		return BehaviorAggressor, false
	}
}

// Deadzone is how close, in world units, the ship must be to its target x
// before it stops steering.
const Deadzone = 0.1

// Pilot publishes input for one ship. Held buttons are tracked so only
// press and release edges reach the bus.
type Pilot struct {
	bus      *event.Bus
	behavior Behavior
	held     map[string]bool
}

// New creates a pilot publishing on bus
func New(bus *event.Bus, behavior Behavior) *Pilot {
	return &Pilot{
		bus:      bus,
		behavior: behavior,
		held:     make(map[string]bool),
	}
}

// Step reads one snapshot and updates the held buttons
func (p *Pilot) Step(state *engine.GameState) {
	if state == nil || state.Status != engine.GameStatusActive {
		p.ReleaseAll()
		return
	}

	target, fire := p.choose(state)

	left, right := false, false
	if target != nil {
		dx := target.X - state.PlayerAt.X
		left = dx < -Deadzone
		right = dx > Deadzone
	}

	p.set(event.ActionLeft, left)
	p.set(event.ActionRight, right)
	p.set(event.ActionFire, fire && state.Player.Ammo > 0)
}

func (p *Pilot) choose(state *engine.GameState) (*physics.Vector2D, bool) {
	if p.behavior == BehaviorCollector && lowOnSomething(state.Player) {
		if pos, ok := nearestPowerUp(state); ok {
			return &pos, false
		}
	}
	if pos, ok := lowestEnemy(state); ok {
		return &pos, true
	}
	return nil, false
}

func lowOnSomething(stats event.PlayerStats) bool {
	return stats.Ammo*4 < stats.MaxAmmo || stats.Health*2 < stats.MaxHealth
}

// lowestEnemy returns the enemy closest to the bottom edge
func lowestEnemy(state *engine.GameState) (physics.Vector2D, bool) {
	best, found := physics.Vector2D{}, false
	for _, e := range state.Enemies {
		if !found || e.Position.Y < best.Y {
			best, found = e.Position, true
		}
	}
	return best, found
}

func nearestPowerUp(state *engine.GameState) (physics.Vector2D, bool) {
	best, found := physics.Vector2D{}, false
	bestDist := math.Inf(1)
	for _, pu := range state.PowerUps {
		if d := pu.Position.Distance(state.PlayerAt); d < bestDist {
			best, bestDist, found = pu.Position, d, true
		}
	}
	return best, found
}

func (p *Pilot) set(action string, down bool) {
	if p.held[action] == down {
		return
	}
	p.held[action] = down
	event.Publish(p.bus, event.InputAction, event.InputActionEvent{Action: action, Pressed: down})
}

// ReleaseAll lets go of every held button
func (p *Pilot) ReleaseAll() {
	for action, down := range p.held {
		if down {
			p.set(action, false)
		}
	}
}
