// Package service provides the in-process service container that policy
// declarations of the form ["@id", "Method"] resolve against.
package service

import (
	"maps"
	"slices"
	"sync"

	"github.com/Dome-Systems/indexability-go/internal/policy"
)

// Registry maps service identifiers to live instances. It is safe for
// concurrent use; registrations made after a policy has been resolved do not
// affect that policy.
type Registry struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]any)}
}

// Register binds id to svc, replacing any previous binding.
func (r *Registry) Register(id string, svc any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[id] = svc
}

// Lookup returns the instance registered as id, or an
// *policy.UnknownServiceError.
func (r *Registry) Lookup(id string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, &policy.UnknownServiceError{ID: id}
	}
	return svc, nil
}

// IDs lists the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.services))
}
