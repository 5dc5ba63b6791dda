package mdc

import (
	"context"
	"maps"
	"sync"
)

// Map is a read-write locked string map.
type Map struct {
	mu sync.RWMutex
	kv map[string]string
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{kv: make(map[string]string, 4)}
}

// Put sets key to value.
func (m *Map) Put(key, value string) {
	m.mu.Lock()
	m.kv[key] = value
	m.mu.Unlock()
}

// Get returns the value for key.
func (m *Map) Get(key string) (string, bool) {
	m.mu.RLock()
	v, ok := m.kv[key]
	m.mu.RUnlock()
	return v, ok
}

// Remove deletes the given keys.
func (m *Map) Remove(keys ...string) {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.kv, k)
	}
	m.mu.Unlock()
}

// Len returns the number of keys.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.kv)
}

// Snapshot returns a copy of the map, or nil when it is empty.
func (m *Map) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.kv) == 0 {
		return nil
	}
	return maps.Clone(m.kv)
}

// Range calls fn for each key until fn returns false. fn must not modify m.
func (m *Map) Range(fn func(key, value string) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.kv {
		if !fn(k, v) {
			return
		}
	}
}

type ctxKey struct{}

// WithMap returns a copy of ctx carrying m.
func WithMap(ctx context.Context, m *Map) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the Map carried by ctx, or nil.
func FromContext(ctx context.Context) *Map {
	if ctx == nil {
		return nil
	}
	m, _ := ctx.Value(ctxKey{}).(*Map)
	return m
}

// NewContext returns ctx unchanged if it already carries a Map, otherwise
// a copy of ctx carrying a fresh one.
func NewContext(ctx context.Context) context.Context {
	if FromContext(ctx) != nil {
		return ctx
	}
	return WithMap(ctx, NewMap())
}

// Fork returns a copy of ctx carrying a copy of its Map.
func Fork(ctx context.Context) context.Context {
	return WithMap(ctx, clone(FromContext(ctx)))
}

// clone copies parent into a new Map. A nil parent yields an empty one.
func clone(parent *Map) *Map {
	m := NewMap()
	if parent != nil {
		parent.mu.RLock()
		maps.Copy(m.kv, parent.kv)
		parent.mu.RUnlock()
	}
	return m
}
