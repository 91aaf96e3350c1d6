// pkg/entity/entity_test.go
package entity

import (
	"context"
	"testing"

	"github.com/opd-ai/go-starstrike/pkg/config"
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/physics"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

func newTestContext(debug config.DebugConfig) *Context {
	return NewContext(context.Background(), event.NewEventBus(), nil, debug)
}

// collect records every payload published on topic for the rest of the test.
func collect[T any](t *testing.T, bus *event.Bus, topic event.Topic[T]) *[]T {
	t.Helper()
	var got []T
	sub := event.Subscribe(bus, topic, func(v T) { got = append(got, v) })
	t.Cleanup(sub.Cancel)
	return &got
}

func TestNewContext_Defaults(t *testing.T) {
	ctx := NewContext(nil, event.NewEventBus(), nil, config.DebugConfig{})
	if ctx.Ctx == nil {
		t.Error("nil context.Context not replaced")
	}
	if ctx.Logger == nil {
		t.Error("nil logger not replaced")
	}
}

func TestBaseEntity_AttachesAndDetachesNode(t *testing.T) {
	ctx := newTestContext(config.DebugConfig{})
	added := collect(t, ctx.Bus, event.SceneAddObject)
	removed := collect(t, ctx.Bus, event.SceneRemoveObject)

	node := scene.NewNode(scene.KindEnemy, "basic", 0.3)
	base := newBase(ctx, node, physics.Vector2D{X: 1, Y: 2}, nil)

	if len(*added) != 1 || (*added)[0].Object != node {
		t.Fatalf("expected one scene:add-object for the node, got %d", len(*added))
	}
	if base.ID != ID(node.ID()) {
		t.Errorf("entity id %d does not match node id %d", base.ID, node.ID())
	}
	if node.Position != (physics.Vector2D{X: 1, Y: 2}) {
		t.Errorf("node position = %v", node.Position)
	}

	base.Destroy()
	base.Destroy()

	if len(*removed) != 1 {
		t.Errorf("expected exactly one scene:remove-object, got %d", len(*removed))
	}
	if node.Visible {
		t.Error("detached node still visible")
	}
	if base.IsActive() {
		t.Error("entity active after Destroy")
	}
}

func TestBaseEntity_StepIntegratesAndRunsHook(t *testing.T) {
	ctx := newTestContext(config.DebugConfig{})
	base := newBase(ctx, scene.NewNode(scene.KindEnemy, "", 1), physics.Vector2D{}, nil)
	base.Velocity = physics.Vector2D{X: 2, Y: -4}

	hookCalls := 0
	base.step(0.5, func(dt float64) {
		hookCalls++
		if dt != 0.5 {
			t.Errorf("hook dt = %f", dt)
		}
	})

	if base.Position != (physics.Vector2D{X: 1, Y: -2}) {
		t.Errorf("Position = %v, want {1 -2}", base.Position)
	}
	if base.Node.Position != base.Position {
		t.Error("node not synced with entity position")
	}
	if hookCalls != 1 {
		t.Errorf("hook called %d times", hookCalls)
	}

	base.Destroy()
	base.step(0.5, func(float64) { hookCalls++ })
	if hookCalls != 1 || base.Position != (physics.Vector2D{X: 1, Y: -2}) {
		t.Error("step must be a no-op once inactive")
	}
}

func TestBaseEntity_ColliderOverlay(t *testing.T) {
	ctx := newTestContext(config.DebugConfig{ShowColliders: true})
	added := collect(t, ctx.Bus, event.SceneAddObject)
	removed := collect(t, ctx.Bus, event.SceneRemoveObject)

	shape := physics.CompoundShape{
		{Name: "a", Offset: physics.Vector2D{X: 1}, Radius: 0.5},
		{Name: "b", Offset: physics.Vector2D{X: -1}, Radius: 0.5},
	}
	base := newBase(ctx, scene.NewNode(scene.KindPlayer, "", 1.5), physics.Vector2D{}, shape)

	if len(*added) != 3 {
		t.Fatalf("expected node plus 2 overlays, got %d", len(*added))
	}
	overlay := (*added)[1].Object
	if overlay.Kind != scene.KindCollider || overlay.Variant != "a" {
		t.Errorf("unexpected overlay %+v", overlay)
	}

	base.Velocity = physics.Vector2D{Y: 1}
	base.step(1, nil)
	if overlay.Position != (physics.Vector2D{X: 1, Y: 1}) {
		t.Errorf("overlay did not follow: %v", overlay.Position)
	}

	base.Destroy()
	if len(*removed) != 3 {
		t.Errorf("expected 3 removals, got %d", len(*removed))
	}
}

func TestBaseEntity_NoOverlayByDefault(t *testing.T) {
	ctx := newTestContext(config.DebugConfig{})
	added := collect(t, ctx.Bus, event.SceneAddObject)

	newBase(ctx, scene.NewNode(scene.KindPlayer, "", 1), physics.Vector2D{}, physics.CompoundShape{{Radius: 1}})

	if len(*added) != 1 {
		t.Errorf("expected only the entity node, got %d", len(*added))
	}
}

func TestScope_ReleasesOnceInReverseOrder(t *testing.T) {
	s := NewScope()
	var order []int
	s.Defer(func() { order = append(order, 1) })
	s.Defer(func() { order = append(order, 2) })
	s.Defer(func() { order = append(order, 3) })

	if s.Len() != 3 {
		t.Fatalf("Len() = %d", s.Len())
	}

	s.Close()
	s.Close()

	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("release order = %v, want [3 2 1]", order)
	}
	if !s.Closed() || s.Len() != 0 {
		t.Error("scope not closed")
	}

	ran := false
	s.Defer(func() { ran = true })
	if !ran {
		t.Error("Defer on a closed scope should run immediately")
	}
}

func TestListen_CancelledOnClose(t *testing.T) {
	bus := event.NewEventBus()
	s := NewScope()
	calls := 0

	Listen(s, bus, event.UIUpdateScore, func(event.ScoreEvent) { calls++ })
	event.Publish(bus, event.UIUpdateScore, event.ScoreEvent{Score: 1})

	s.Close()
	event.Publish(bus, event.UIUpdateScore, event.ScoreEvent{Score: 2})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if bus.TotalHandlers() != 0 {
		t.Errorf("handlers left after close: %d", bus.TotalHandlers())
	}
}
