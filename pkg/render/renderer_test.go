package render

import (
	"context"
	"testing"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/entity"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

func newTestRegistry(t *testing.T) (*Registry, *event.Bus) {
	t.Helper()
	bus := event.NewEventBus()
	ctx := entity.NewContext(context.Background(), bus, nil, config.DebugConfig{})
	return NewRegistry(ctx), bus
}

func TestRegistry_TracksAddAndRemove(t *testing.T) {
	reg, bus := newTestRegistry(t)
	defer reg.Close()

	player := scene.NewNode(scene.KindPlayer, "", 0.5)
	enemy := scene.NewNode(scene.KindEnemy, "basic", 0.3)

	event.Publish(bus, event.SceneAddObject, event.SceneObjectEvent{Object: player})
	event.Publish(bus, event.SceneAddObject, event.SceneObjectEvent{Object: enemy})

	if reg.Len() != 2 || !reg.Has(player) || !reg.Has(enemy) {
		t.Fatalf("len = %d", reg.Len())
	}
	if reg.CountKind(scene.KindEnemy) != 1 {
		t.Errorf("enemies = %d", reg.CountKind(scene.KindEnemy))
	}

	event.Publish(bus, event.SceneRemoveObject, event.SceneObjectEvent{Object: enemy})

	if reg.Len() != 1 || reg.Has(enemy) {
		t.Errorf("enemy still tracked after removal")
	}
	if reg.Added != 2 || reg.Removed != 1 {
		t.Errorf("added = %d, removed = %d", reg.Added, reg.Removed)
	}
}

func TestRegistry_IgnoresDuplicatesAndUnknown(t *testing.T) {
	reg, bus := newTestRegistry(t)
	defer reg.Close()

	node := scene.NewNode(scene.KindProjectile, "", 0.1)
	stranger := scene.NewNode(scene.KindParticle, "", 0.1)

	tests := []struct {
		name  string
		topic event.Topic[event.SceneObjectEvent]
		node  *scene.Node
		want  int
	}{
		{"add", event.SceneAddObject, node, 1},
		{"add again", event.SceneAddObject, node, 1},
		{"remove unknown", event.SceneRemoveObject, stranger, 1},
		{"add nil", event.SceneAddObject, nil, 1},
		{"remove nil", event.SceneRemoveObject, nil, 1},
		{"remove", event.SceneRemoveObject, node, 0},
		{"remove again", event.SceneRemoveObject, node, 0},
	}

	for _, tt := range tests {
		event.Publish(bus, tt.topic, event.SceneObjectEvent{Object: tt.node})
		if reg.Len() != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.name, reg.Len(), tt.want)
		}
	}
	if reg.Has(nil) {
		t.Error("Has(nil) = true")
	}
}

func TestRegistry_NodesInDrawOrder(t *testing.T) {
	reg, bus := newTestRegistry(t)
	defer reg.Close()

	player := scene.NewNode(scene.KindPlayer, "", 0.5)
	spark := scene.NewNode(scene.KindParticle, "hit", 0.05)
	enemyA := scene.NewNode(scene.KindEnemy, "basic", 0.3)
	enemyB := scene.NewNode(scene.KindEnemy, "heavy", 0.5)
	for _, n := range []*scene.Node{player, enemyB, spark, enemyA} {
		event.Publish(bus, event.SceneAddObject, event.SceneObjectEvent{Object: n})
	}

	got := reg.Nodes()
	want := []*scene.Node{spark, enemyA, enemyB, player}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s/%s, want %s/%s", i, got[i].Kind, got[i].Variant, want[i].Kind, want[i].Variant)
		}
	}
}

func TestRegistry_Close(t *testing.T) {
	reg, bus := newTestRegistry(t)
	reg.Close()

	event.Publish(bus, event.SceneAddObject, event.SceneObjectEvent{Object: scene.NewNode(scene.KindEnemy, "", 1)})

	if reg.Len() != 0 || bus.TotalHandlers() != 0 {
		t.Errorf("closed registry still listening: len = %d, handlers = %d", reg.Len(), bus.TotalHandlers())
	}
}
