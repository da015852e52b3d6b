package bridge

import (
	"sort"
	"sync"
)

// Registry maps device categories to adapters.
//
// Registration happens once during process composition; re-registering a
// category silently overwrites (last writer wins), since categories are
// statically known at composition time.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register installs the adapter for a category, replacing any previous
// registration.
func (r *Registry) Register(category string, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[category] = adapter
}

// Lookup returns the adapter for a category. ok is false for unknown
// categories; callers treat that as "feature not supported for this
// device" and skip silently.
func (r *Registry) Lookup(category string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[category]
	return adapter, ok
}

// Categories returns the registered category names, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]string, 0, len(r.adapters))
	for category := range r.adapters {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
