package engo

import (
	"strings"
	"testing"

	"github.com/opd-ai/go-starstrike/pkg/event"
)

func newTestHUD(bus *event.Bus) (*HUDSystem, *[]string) {
	titles := []string{}
	hud := NewHUDSystem(bus)
	hud.setTitle = func(s string) { titles = append(titles, s) }
	return hud, &titles
}

func TestHUDSystem_TracksGauges(t *testing.T) {
	bus := event.NewEventBus()
	hud, titles := newTestHUD(bus)
	defer hud.Close()

	event.Publish(bus, event.UIUpdateHealth, event.GaugeEvent{Current: 85, Max: 100})
	event.Publish(bus, event.UIUpdateAmmo, event.GaugeEvent{Current: 49, Max: 100})
	event.Publish(bus, event.UIUpdateScore, event.ScoreEvent{Score: 25})

	if got, want := hud.Text(), "HP 85/100  AMMO 49/100  SCORE 25"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	hud.Update(0)
	hud.Update(0)
	if len(*titles) != 1 {
		t.Errorf("title set %d times, want 1", len(*titles))
	}

	event.Publish(bus, event.GameStateChanged, event.GameStateEvent{State: event.StatePaused})
	if !strings.HasSuffix(hud.Text(), "[PAUSED]") {
		t.Errorf("paused marker missing: %q", hud.Text())
	}
}

func TestHUDSystem_GameOverBanner(t *testing.T) {
	bus := event.NewEventBus()
	hud, _ := newTestHUD(bus)
	defer hud.Close()

	event.Publish(bus, event.GameOver, event.GameOverEvent{
		FinalScore: 120,
		Stats:      event.PlayerStats{EnemiesDestroyed: 9, Accuracy: 75},
	})

	if got, want := hud.Text(), "GAME OVER  score 120  kills 9  accuracy 75%"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	event.Publish(bus, event.GameStateChanged, event.GameStateEvent{State: event.StateRunning})
	if strings.HasPrefix(hud.Text(), "GAME OVER") {
		t.Error("banner survived a restart")
	}
}

func TestHUDSystem_Close(t *testing.T) {
	bus := event.NewEventBus()
	hud, _ := newTestHUD(bus)
	hud.Close()

	if bus.TotalHandlers() != 0 {
		t.Errorf("handlers = %d after Close", bus.TotalHandlers())
	}
}
