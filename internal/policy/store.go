// Package policy classifies, resolves, caches and evaluates per-type
// indexability policies.
//
// A raw declaration is whatever the operator configured for a type key: a Go
// func, a bound method pair, a method name, a service reference or an
// expression string. Classify turns it into a Declaration, the Resolver turns
// that into a Resolved predicate, and the Cache keeps one Resolved per
// (action, type key) for the lifetime of the cache.
package policy

import (
	"maps"
	"slices"
)

// Action selects which of the two policy tables applies.
type Action string

const (
	// ActionInclude decides whether an object belongs in the index at all.
	ActionInclude Action = "include"
	// ActionUpdate decides whether an indexed copy needs refreshing.
	ActionUpdate Action = "update"
)

// Store holds the raw declarations for both actions. It is never mutated
// after NewStore returns.
type Store struct {
	include map[string]any
	update  map[string]any
}

// NewStore copies the two declaration tables, keyed by type key.
func NewStore(include, update map[string]any) *Store {
	s := &Store{
		include: make(map[string]any, len(include)),
		update:  make(map[string]any, len(update)),
	}
	maps.Copy(s.include, include)
	maps.Copy(s.update, update)
	return s
}

// Lookup returns the raw declaration for typeKey. ok is false when nothing
// (or nil) is configured, which callers treat as "no policy".
func (s *Store) Lookup(action Action, typeKey string) (raw any, ok bool) {
	table := s.table(action)
	if table == nil {
		return nil, false
	}
	raw, ok = table[typeKey]
	if raw == nil {
		return nil, false
	}
	return raw, ok
}

// Keys lists the configured type keys for action in sorted order.
func (s *Store) Keys(action Action) []string {
	return slices.Sorted(maps.Keys(s.table(action)))
}

func (s *Store) table(action Action) map[string]any {
	switch action {
	case ActionInclude:
		return s.include
	case ActionUpdate:
		return s.update
	default:
		return nil
	}
}
