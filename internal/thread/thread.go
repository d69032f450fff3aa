// Package thread implements authored, ownership-gated lists: submission
// boards with nested responses and per-resource chat.
//
// Anyone may post. Only the author may edit, where "author" means the
// caller's email equals the stored email exactly and is non-empty, so
// items posted anonymously can never be edited. Only admins may delete.
// A mutation whose precondition fails leaves state untouched and reports
// false.
package thread

import (
	"strconv" // formats the millisecond prefix of ids
	"strings" // strips dashes from the random suffix
	"sync"    // guards the item list
	"time"    // timestamps

	"github.com/google/uuid" // random id suffix

	"github.com/iliyamo/studentdev-hub/internal/clock" // injectable time source
	"github.com/iliyamo/studentdev-hub/internal/model" // authored item types
)

// Thread is an insertion-ordered list of authored items.
type Thread[T model.Authored[T], P model.Patch[T]] struct {
	clock clock.Clock // stamps ids and timestamps

	mu    sync.RWMutex
	items []T // posting order
}

func NewThread[T model.Authored[T], P model.Patch[T]](c clock.Clock) *Thread[T, P] {
	if c == nil {
		c = clock.Real()
	}
	return &Thread[T, P]{clock: c}
}

// Post stamps id, author, email and ts on item and appends it.
func (t *Thread[T, P]) Post(caller *model.User, item T) T {
	now := t.clock.Now()
	item = item.Stamp(NewID(now), caller.AuthorName(), caller.OwnerEmail(), now.UnixMilli())

	t.mu.Lock()
	t.items = append(t.items, item)
	t.mu.Unlock()
	return item
}

// Edit applies patch when caller owns the item. The timestamp keeps the
// creation time.
func (t *Thread[T, P]) Edit(caller *model.User, id string, patch P) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	i := t.index(id)                                     // -1 when missing
	if i < 0 || !caller.Owns(t.items[i].AuthorEmail()) { // guests own nothing
		return zero, false
	}
	t.items[i] = patch.Apply(t.items[i]) // id, author and ts are not patchable
	return t.items[i], true
}

// Delete removes the item when caller is an admin.
func (t *Thread[T, P]) Delete(caller *model.User, id string) bool {
	if !caller.IsAdmin() { // nil callers are never admins
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return false
	}
	t.items = append(t.items[:i:i], t.items[i+1:]...)
	return true
}

// Get looks up one item by id.
func (t *Thread[T, P]) Get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.index(id); i >= 0 {
		return t.items[i], true
	}
	var zero T
	return zero, false
}

// List returns a snapshot in posting order.
func (t *Thread[T, P]) List() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

// Len returns the number of items.
func (t *Thread[T, P]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

func (t *Thread[T, P]) index(id string) int {
	for i, it := range t.items {
		if it.ItemID() == id {
			return i
		}
	}
	return -1
}

// NewID returns "<unix millis>_<random suffix>". Unique enough for one
// process; not a security token.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12] // 48 random-ish bits
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix
}
