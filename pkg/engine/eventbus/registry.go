package eventbus

import (
	"sort"
	"sync"
)

// Clearable is implemented by every Bus.
type Clearable interface {
	Clear()
	Len() int
}

// Registry lists buses by name so they can be cleared together, e.g. when a
// level is torn down. Buses are added explicitly at startup.
type Registry struct {
	mu    sync.Mutex
	buses map[string]Clearable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{buses: make(map[string]Clearable)}
}

// Add registers bus under name, replacing any previous entry.
func (r *Registry) Add(name string, bus Clearable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buses[name] = bus
}

// ClearAll clears every registered bus.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bus := range r.buses {
		bus.Clear()
	}
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.buses))
	for name := range r.buses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bindings returns the total number of bindings across all buses.
func (r *Registry) Bindings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, bus := range r.buses {
		n += bus.Len()
	}
	return n
}
