// Package scene defines the renderer-neutral visual handle that simulated
// objects own. The core only writes to a Node; rendering collaborators read
// it after receiving scene:add-object and stop reading it after
// scene:remove-object.
package scene

import (
	"image/color"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-starstrike/pkg/physics"
)

// Kind tells a renderer what a node depicts.
type Kind string

const (
	KindPlayer     Kind = "player"
	KindEnemy      Kind = "enemy"
	KindPowerUp    Kind = "powerup"
	KindProjectile Kind = "projectile"
	KindParticle   Kind = "particle"
	KindCollider   Kind = "collider"
)

// Node is the visual representation of one simulated object.
type Node struct {
	ecs.BasicEntity

	Kind     Kind
	Variant  string
	Position physics.Vector2D
	Radius   float64
	Scale    float64
	Opacity  float64
	Color    color.Color
	Visible  bool
}

// NewNode creates a visible node with full scale and opacity.
func NewNode(kind Kind, variant string, radius float64) *Node {
	return &Node{
		BasicEntity: ecs.NewBasic(),
		Kind:        kind,
		Variant:     variant,
		Radius:      radius,
		Scale:       1,
		Opacity:     1,
		Color:       color.White,
		Visible:     true,
	}
}
