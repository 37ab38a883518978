// Package registry provides a generic, thread-safe registry for named
// factory values.
//
// It backs the dispatch-type loading machinery: built-in and extension
// dispatch type factories are registered under a name and resolved by
// that name during setup.
//
// Example usage:
//
//	reg := registry.New[Factory]()
//	reg.Register("Path", newPathType)
//	factory, err := reg.Get("Path")
package registry

import (
	"fmt"
	"sync"

	"github.com/pangyre/catalyst-runtime/internal/common/errors"
)

// Registry provides a generic, thread-safe registry of named values.
type Registry[T any] struct {
	entries map[string]T
	mu      sync.RWMutex
}

// New creates a new empty registry for values of type T.
func New[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
	}
}

// Register adds a value under the given name.
// If the name is already taken, the value is replaced.
func (r *Registry[T]) Register(name string, value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = value
}

// Get retrieves a value by name.
// Returns a not-found error if the name is not registered.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	value, exists := r.entries[name]
	r.mu.RUnlock()

	if !exists {
		var zero T
		return zero, errors.NotFoundError(fmt.Sprintf("registry entry %q", name))
	}

	return value, nil
}

// Names returns a list of all registered names.
// The returned slice is a copy and safe to modify.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks whether a name is registered.
func (r *Registry[T]) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entries[name]
	return exists
}

// Count returns the number of registered entries.
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
