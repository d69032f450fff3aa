// Package collection keeps ordered, admin-curated lists of catalog
// entities in memory.
package collection

import (
	"sync"

	"github.com/iliyamo/studentdev-hub/internal/model"
)

// Op names a mutation.
type Op string

const (
	OpCreate Op = "create" // new item appended
	OpUpdate Op = "update" // item patched in place
	OpDelete Op = "delete" // item removed
)

// Change describes an applied mutation. Item is the entity after the
// change, or the removed entity for OpDelete.
type Change[T any] struct {
	Op   Op
	ID   int
	Item T
}

// Manager is an insertion-ordered list of T. Anyone may read; only admins
// mutate. Mutations that are not allowed, or that target a missing id,
// change nothing and report false instead of failing.
type Manager[T model.Entity[T], P model.Patch[T]] struct {
	mu    sync.RWMutex
	items []T               // insertion order
	hooks []func(Change[T]) // run after applied mutations
}

// New returns a manager holding seed in order. Seed ids are kept as is.
func New[T model.Entity[T], P model.Patch[T]](seed ...T) *Manager[T, P] {
	items := make([]T, len(seed))
	copy(items, seed)
	return &Manager[T, P]{items: items}
}

// OnChange registers fn to run after every applied mutation, outside the
// manager's lock.
func (m *Manager[T, P]) OnChange(fn func(Change[T])) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// List returns a snapshot in insertion order.
func (m *Manager[T, P]) List() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of items.
func (m *Manager[T, P]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Get looks up the item with id.
func (m *Manager[T, P]) Get(id int) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(id); i >= 0 {
		return m.items[i], true
	}
	var zero T
	return zero, false
}

// Create appends item with id = max(ids, 0) + 1. The id sequence restarts
// at 1 once the list is empty.
func (m *Manager[T, P]) Create(caller *model.User, item T) (T, bool) {
	var zero T
	if !caller.IsAdmin() { // nil callers are never admins
		return zero, false
	}
	m.mu.Lock()
	maxID := 0 // ids restart at 1 on an empty list
	for _, it := range m.items {
		if id := it.EntityID(); id > maxID {
			maxID = id
		}
	}
	item = item.WithID(maxID + 1)   // any id in the body is replaced
	m.items = append(m.items, item) // new items go last
	m.mu.Unlock()

	m.emit(Change[T]{Op: OpCreate, ID: item.EntityID(), Item: item})
	return item, true
}

// Update applies patch to the entity with id, keeping its position.
func (m *Manager[T, P]) Update(caller *model.User, id int, patch P) (T, bool) {
	var zero T
	if !caller.IsAdmin() {
		return zero, false
	}
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return zero, false
	}
	// the id is not patchable
	updated := patch.Apply(m.items[i]).WithID(id)
	m.items[i] = updated
	m.mu.Unlock()

	m.emit(Change[T]{Op: OpUpdate, ID: id, Item: updated})
	return updated, true
}

// Delete removes the entity with id. Order of the rest is unchanged.
func (m *Manager[T, P]) Delete(caller *model.User, id int) bool {
	if !caller.IsAdmin() {
		return false
	}
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	removed := m.items[i]                             // handed to delete hooks
	m.items = append(m.items[:i:i], m.items[i+1:]...) // fresh backing array, snapshots stay intact
	m.mu.Unlock()

	m.emit(Change[T]{Op: OpDelete, ID: id, Item: removed})
	return true
}

// index returns the position of id, or -1. Callers hold mu.
func (m *Manager[T, P]) index(id int) int {
	for i, it := range m.items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}

// emit runs the hooks without holding mu; hooks may call back in.
func (m *Manager[T, P]) emit(c Change[T]) {
	m.mu.RLock()
	hooks := m.hooks
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn(c)
	}
}
