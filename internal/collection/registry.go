package collection

import (
	"sort"
	"sync"

	"github.com/iliyamo/studentdev-hub/internal/model"
)

// Registry holds one Manager per scope, e.g. the modules of each track or
// the attachments of each project. Ids are sequential per scope.
type Registry[T model.Entity[T], P model.Patch[T]] struct {
	mu       sync.Mutex
	managers map[string]*Manager[T, P]
	hooks    []func(scope string, c Change[T])
}

// NewRegistry returns a registry whose scopes start with the given seed.
func NewRegistry[T model.Entity[T], P model.Patch[T]](seed map[string][]T) *Registry[T, P] {
	r := &Registry[T, P]{managers: make(map[string]*Manager[T, P], len(seed))}
	for scope, items := range seed {
		r.managers[scope] = r.newManager(scope, items)
	}
	return r
}

// OnChange registers fn for applied mutations in every scope, including
// scopes created later.
func (r *Registry[T, P]) OnChange(fn func(scope string, c Change[T])) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

func (r *Registry[T, P]) newManager(scope string, items []T) *Manager[T, P] {
	m := New[T, P](items...)
	m.OnChange(func(c Change[T]) {
		r.mu.Lock()
		hooks := r.hooks
		r.mu.Unlock()
		for _, fn := range hooks {
			fn(scope, c)
		}
	})
	return m
}

// Scope returns the manager for scope, creating an empty one on first use.
func (r *Registry[T, P]) Scope(scope string) *Manager[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[scope]
	if !ok {
		m = r.newManager(scope, nil)
		r.managers[scope] = m
	}
	return m
}

// List returns the items of scope. Unknown scopes read as empty and are
// not created.
func (r *Registry[T, P]) List(scope string) []T {
	r.mu.Lock()
	m, ok := r.managers[scope]
	r.mu.Unlock()
	if !ok {
		return []T{}
	}
	return m.List()
}

// Get looks up one item without creating the scope.
func (r *Registry[T, P]) Get(scope string, id int) (T, bool) {
	r.mu.Lock()
	m, ok := r.managers[scope]
	r.mu.Unlock()
	if !ok {
		var zero T
		return zero, false
	}
	return m.Get(id)
}

// Drop forgets a scope and everything in it.
func (r *Registry[T, P]) Drop(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, scope)
}

// Scopes lists the scopes that currently exist, sorted.
func (r *Registry[T, P]) Scopes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.managers))
	for k := range r.managers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
