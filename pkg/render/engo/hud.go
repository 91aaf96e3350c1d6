// pkg/render/engo/hud.go
package engo

import (
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
)

// HUDSystem tracks the gauges the simulation publishes and shows them in the
// window title.
type HUDSystem struct {
	scope *entity.Scope

	health    event.GaugeEvent
	ammo      event.GaugeEvent
	score     int
	state     string
	finalText string

	lastTitle string
	setTitle  func(string)
}

// NewHUDSystem creates a HUD listening on bus.
func NewHUDSystem(bus *event.Bus) *HUDSystem {
	hud := &HUDSystem{
		scope:    entity.NewScope(),
		state:    event.StateMenu,
		setTitle: engo.SetTitle,
	}

	entity.Listen(hud.scope, bus, event.UIUpdateHealth, func(e event.GaugeEvent) { hud.health = e })
	entity.Listen(hud.scope, bus, event.UIUpdateAmmo, func(e event.GaugeEvent) { hud.ammo = e })
	entity.Listen(hud.scope, bus, event.UIUpdateScore, func(e event.ScoreEvent) { hud.score = e.Score })
	entity.Listen(hud.scope, bus, event.GameStateChanged, func(e event.GameStateEvent) {
		hud.state = e.State
		if e.State == event.StateRunning {
			hud.finalText = ""
		}
	})
	entity.Listen(hud.scope, bus, event.GameOver, func(e event.GameOverEvent) {
		hud.finalText = fmt.Sprintf("GAME OVER  score %d  kills %d  accuracy %.0f%%",
			e.FinalScore, e.Stats.EnemiesDestroyed, e.Stats.Accuracy)
	})
	return hud
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the window title when the text changed
func (hud *HUDSystem) Update(dt float32) {
	text := hud.Text()
	if text == hud.lastTitle {
		return
	}
	hud.lastTitle = text
	if hud.setTitle != nil {
		hud.setTitle(text)
	}
}

// Text renders the HUD as one line
func (hud *HUDSystem) Text() string {
	if hud.finalText != "" {
		return hud.finalText
	}
	text := fmt.Sprintf("HP %d/%d  AMMO %d/%d  SCORE %d",
		hud.health.Current, hud.health.Max,
		hud.ammo.Current, hud.ammo.Max,
		hud.score)
	if hud.state == event.StatePaused {
		text += "  [PAUSED]"
	}
	return text
}

// Close stops listening
func (hud *HUDSystem) Close() {
	hud.scope.Close()
}
