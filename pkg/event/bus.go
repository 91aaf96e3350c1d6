// pkg/event/bus.go
package event

import (
	"sync"
)

// Topic names one channel on the bus and fixes its payload type, so a
// publisher and a subscriber that disagree on the payload do not compile.
type Topic[T any] struct {
	name string
}

// NewTopic declares a topic. Topic names must be unique per payload type.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the wire name of the topic
func (t Topic[T]) Name() string {
	return t.name
}

// Subscription is the token returned by Subscribe
type Subscription struct {
	ID     uint64
	Topic  string
	Cancel func()
}

type subscriber struct {
	id        uint64
	handler   func(any)
	cancelled bool
}

// Bus is a synchronous publish/subscribe router.
//
// Publish invokes every handler registered for the topic at the time of the
// call, in registration order, before returning. Handlers may publish again;
// nested dispatch completes before the outer dispatch moves on. A handler
// cancelled while a dispatch is in progress is not called afterwards; a
// handler added during a dispatch only sees later publishes.
type Bus struct {
	handlers map[string][]*subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[string][]*subscriber),
		nextID:   1,
	}
}

// Subscribe registers handler for topic and returns its token.
func Subscribe[T any](b *Bus, topic Topic[T], handler func(T)) *Subscription {
	return b.subscribe(topic.name, func(payload any) {
		handler(payload.(T))
	})
}

// Publish delivers payload to every current subscriber of topic.
func Publish[T any](b *Bus, topic Topic[T], payload T) {
	b.dispatch(topic.name, payload)
}

func (b *Bus) subscribe(name string, handler func(any)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{id: b.nextID, handler: handler}
	b.nextID++
	b.handlers[name] = append(b.handlers[name], sub)

	return &Subscription{
		ID:    sub.id,
		Topic: name,
		Cancel: func() {
			b.remove(name, sub.id)
		},
	}
}

// Unsubscribe removes exactly the handler behind sub. Unknown or already
// cancelled subscriptions are ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.remove(sub.Topic, sub.ID)
}

func (b *Bus) remove(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[name]
	for i, s := range handlers {
		if s.id != id {
			continue
		}
		s.cancelled = true
		// Copy so an in-flight dispatch keeps its own snapshot intact.
		next := make([]*subscriber, 0, len(handlers)-1)
		next = append(next, handlers[:i]...)
		next = append(next, handlers[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, name)
		} else {
			b.handlers[name] = next
		}
		return
	}
}

func (b *Bus) dispatch(name string, payload any) {
	b.mu.RLock()
	snapshot := b.handlers[name]
	b.mu.RUnlock()

	for _, s := range snapshot {
		b.mu.RLock()
		cancelled := s.cancelled
		b.mu.RUnlock()
		if cancelled {
			continue
		}
		s.handler(payload)
	}
}

// HandlerCount returns the number of live handlers for a topic name
func (b *Bus) HandlerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

// TotalHandlers returns the number of live handlers across all topics.
func (b *Bus) TotalHandlers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, hs := range b.handlers {
		total += len(hs)
	}
	return total
}
