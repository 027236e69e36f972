// Package eventbus provides a synchronous, typed publish/subscribe channel.
// Each event type gets its own Bus; buses that should be reset together are
// listed in a Registry.
package eventbus

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Binding is one subscriber. OnEvent receives the payload, OnEventNoArgs is
// called without it; a binding with both gets both, payload first.
type Binding[T any] struct {
	OnEvent       func(T)
	OnEventNoArgs func()
}

// NewBinding creates a binding that receives the event payload.
func NewBinding[T any](fn func(T)) *Binding[T] {
	return &Binding[T]{OnEvent: fn}
}

// NewNoArgsBinding creates a binding that is only told an event happened.
func NewNoArgsBinding[T any](fn func()) *Binding[T] {
	return &Binding[T]{OnEventNoArgs: fn}
}

// Bus delivers events of type T to its bindings, in registration order.
type Bus[T any] struct {
	mu       sync.RWMutex
	bindings []*Binding[T]
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Register appends b. Registering the same binding twice delivers to it twice.
func (bus *Bus[T]) Register(b *Binding[T]) {
	if b == nil {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.bindings = append(bus.bindings, b)
}

// Deregister removes the first registration of b.
func (bus *Bus[T]) Deregister(b *Binding[T]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, other := range bus.bindings {
		if other == b {
			bus.bindings = append(bus.bindings[:i:i], bus.bindings[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered bindings.
func (bus *Bus[T]) Len() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.bindings)
}

// Clear drops every binding.
func (bus *Bus[T]) Clear() {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.bindings = nil
}

// Raise delivers ev synchronously to the bindings registered when the call
// starts. Callbacks may register or deregister freely; changes apply to the
// next Raise. A panicking callback does not stop delivery: each panic is
// recovered and returned, combined, once every binding has run.
func (bus *Bus[T]) Raise(ev T) error {
	bus.mu.RLock()
	snapshot := make([]*Binding[T], len(bus.bindings))
	copy(snapshot, bus.bindings)
	bus.mu.RUnlock()

	var errs error
	for i, b := range snapshot {
		if b.OnEvent != nil {
			errs = multierr.Append(errs, deliver(i, func() { b.OnEvent(ev) }))
		}
		if b.OnEventNoArgs != nil {
			errs = multierr.Append(errs, deliver(i, b.OnEventNoArgs))
		}
	}
	return errs
}

func deliver(i int, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("binding %d panicked: %v", i, r)
		}
	}()
	fn()
	return nil
}

// Subscription ties a binding to the bus it is registered on, so the owner
// can tear it down with a single Close.
type Subscription[T any] struct {
	bus     *Bus[T]
	binding *Binding[T]
	once    sync.Once
}

// Subscribe registers fn on bus and returns the handle to remove it.
func Subscribe[T any](bus *Bus[T], fn func(T)) *Subscription[T] {
	b := NewBinding(fn)
	bus.Register(b)
	return &Subscription[T]{bus: bus, binding: b}
}

// Close deregisters the subscription. It is safe to call more than once.
func (s *Subscription[T]) Close() error {
	s.once.Do(func() {
		s.bus.Deregister(s.binding)
	})
	return nil
}
