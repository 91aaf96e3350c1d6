// pkg/entity/scope.go
package entity

import (
	"github.com/opd-ai/go-starstrike/pkg/event"
	"github.com/opd-ai/go-starstrike/pkg/scene"
)

// Scope owns releases registered while something is being built and runs
// them exactly once, last-in first-out, when closed.
type Scope struct {
	releases []func()
	closed   bool
}

// NewScope returns an open scope
func NewScope() *Scope {
	return &Scope{}
}

// Defer registers fn to run on Close. On a closed scope fn runs immediately.
func (s *Scope) Defer(fn func()) {
	if s.closed {
		fn()
		return
	}
	s.releases = append(s.releases, fn)
}

// Close runs every release once.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}

// Closed reports whether Close has run
func (s *Scope) Closed() bool {
	return s.closed
}

// Len returns the number of pending releases
func (s *Scope) Len() int {
	return len(s.releases)
}

// Listen subscribes handler and cancels the subscription when s closes.
func Listen[T any](s *Scope, bus *event.Bus, topic event.Topic[T], handler func(T)) *event.Subscription {
	sub := event.Subscribe(bus, topic, handler)
	s.Defer(sub.Cancel)
	return sub
}

// Attach publishes scene:add-object for node and scene:remove-object when s
// closes.
func Attach(s *Scope, bus *event.Bus, node *scene.Node) {
	event.Publish(bus, event.SceneAddObject, event.SceneObjectEvent{Object: node})
	s.Defer(func() {
		node.Visible = false
		event.Publish(bus, event.SceneRemoveObject, event.SceneObjectEvent{Object: node})
	})
}
