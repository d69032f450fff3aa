// Package kvstore holds the durable key-value records of the service:
// the per-session identity record and the admin allow-list. Values are
// opaque bytes; callers own the encoding.
package kvstore

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a last-writer-wins key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
