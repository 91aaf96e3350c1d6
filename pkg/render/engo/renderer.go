// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// sprite is the engo side of one scene node
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent

	node *scene.Node
}

// SceneMirror keeps one engo sprite per attached scene node and copies node
// state into it every frame.
type SceneMirror struct {
	ctx          *entity.Context
	renderSystem *common.RenderSystem
	sprites      map[uint64]*sprite
	scope        *entity.Scope

	width         float32
	height        float32
	pixelsPerUnit float32
}

// NewSceneMirror creates a mirror for a screen of width x height pixels.
// pixelsPerUnit converts world units to pixels.
func NewSceneMirror(ctx *entity.Context, width, height, pixelsPerUnit float32) *SceneMirror {
	m := &SceneMirror{
		ctx:           ctx,
		sprites:       make(map[uint64]*sprite),
		scope:         entity.NewScope(),
		width:         width,
		height:        height,
		pixelsPerUnit: pixelsPerUnit,
	}
	entity.Listen(m.scope, ctx.Bus, event.SceneAddObject, m.handleAdd)
	entity.Listen(m.scope, ctx.Bus, event.SceneRemoveObject, m.handleRemove)
	return m
}

// Attach hands the mirror a render system. Sprites created before the call
// are added to it.
func (m *SceneMirror) Attach(rs *common.RenderSystem) {
	m.renderSystem = rs
	for _, s := range m.sprites {
		rs.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
}

func (m *SceneMirror) handleAdd(e event.SceneObjectEvent) {
	node := e.Object
	if node == nil {
		return
	}
	if _, exists := m.sprites[node.ID()]; exists {
		return
	}

	s := &sprite{
		BasicEntity: ecs.NewBasic(),
		RenderComponent: common.RenderComponent{
			Drawable: common.Circle{},
		},
		node: node,
	}
	s.SetZIndex(zIndex(node.Kind))
	m.sprites[node.ID()] = s
	m.sync(s)

	if m.renderSystem != nil {
		m.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
}

func (m *SceneMirror) handleRemove(e event.SceneObjectEvent) {
	if e.Object == nil {
		return
	}
	s, exists := m.sprites[e.Object.ID()]
	if !exists {
		return
	}
	if m.renderSystem != nil {
		m.renderSystem.Remove(s.BasicEntity)
	}
	delete(m.sprites, e.Object.ID())
}

// Sync copies every node's state into its sprite
func (m *SceneMirror) Sync() {
	for _, s := range m.sprites {
		m.sync(s)
	}
}

func (m *SceneMirror) sync(s *sprite) {
	node := s.node
	size := float32(2*node.Radius*node.Scale) * m.pixelsPerUnit
	center := m.worldToScreen(node.Position)

	s.SpaceComponent.Width = size
	s.SpaceComponent.Height = size
	s.SpaceComponent.Position = engo.Point{X: center.X - size/2, Y: center.Y - size/2}
	s.RenderComponent.Hidden = !node.Visible
	s.RenderComponent.Color = tint(baseColor(node), node.Opacity)
	if node.Kind == scene.KindCollider {
		s.RenderComponent.Drawable = common.Circle{BorderWidth: 1, BorderColor: s.RenderComponent.Color}
		s.RenderComponent.Color = color.Transparent
	}
}

// worldToScreen converts world coordinates to screen coordinates. The world
// origin is the screen center and world +Y is up.
func (m *SceneMirror) worldToScreen(pos physics.Vector2D) engo.Point {
	return engo.Point{
		X: m.width/2 + float32(pos.X)*m.pixelsPerUnit,
		Y: m.height/2 - float32(pos.Y)*m.pixelsPerUnit,
	}
}

// Len returns the number of mirrored nodes
func (m *SceneMirror) Len() int {
	return len(m.sprites)
}

// Close stops mirroring and drops every sprite from the render system
func (m *SceneMirror) Close() {
	m.scope.Close()
	for id, s := range m.sprites {
		if m.renderSystem != nil {
			m.renderSystem.Remove(s.BasicEntity)
		}
		delete(m.sprites, id)
	}
}

func zIndex(kind scene.Kind) float32 {
	switch kind {
	case scene.KindParticle:
		return 1
	case scene.KindProjectile:
		return 2
	case scene.KindPowerUp:
		return 3
	case scene.KindEnemy:
		return 4
	case scene.KindPlayer:
		return 5
	case scene.KindCollider:
		return 6
	default:
		return 0
	}
}

var (
	playerColor   = color.RGBA{90, 200, 255, 255}
	shieldedColor = color.RGBA{160, 120, 255, 255}
	basicColor    = color.RGBA{255, 80, 80, 255}
	fastColor     = color.RGBA{255, 200, 60, 255}
	heavyColor    = color.RGBA{170, 40, 40, 255}
	ammoColor     = color.RGBA{120, 255, 120, 255}
	healthColor   = color.RGBA{255, 120, 200, 255}
	shieldColor   = color.RGBA{120, 160, 255, 255}
	shotColor     = color.RGBA{255, 255, 160, 255}
	colliderColor = color.RGBA{0, 255, 0, 255}
)

// baseColor picks a color by kind and variant. Particles carry their own.
func baseColor(node *scene.Node) color.Color {
	switch node.Kind {
	case scene.KindPlayer:
		if node.Variant == "shielded" {
			return shieldedColor
		}
		return playerColor
	case scene.KindEnemy:
		switch node.Variant {
		case "fast":
			return fastColor
		case "heavy":
			return heavyColor
		default:
			return basicColor
		}
	case scene.KindPowerUp:
		switch node.Variant {
		case "health":
			return healthColor
		case "shield":
			return shieldColor
		default:
			return ammoColor
		}
	case scene.KindProjectile:
		return shotColor
	case scene.KindCollider:
		return colliderColor
	default:
		if node.Color != nil {
			return node.Color
		}
		return color.White
	}
}

// tint scales a color's alpha by opacity
func tint(c color.Color, opacity float64) color.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	rgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	rgba.A = uint8(float64(rgba.A) * opacity)
	return rgba
}
