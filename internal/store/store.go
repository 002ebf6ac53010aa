// internal/store/store.go
//
// Puzzle persistence keyed by calendar date (YYYY-MM-DD).
// Values are opaque bytes (the JSON-encoded board); parsing and validation
// belong to the caller so that a corrupt record can be treated as a miss.
//
// Implementations:
//   - memory.go: map + RWMutex, for development and tests.
//   - sqlite.go: puzzles table on a *sql.DB.
//   - gcs.go:    one object per date in a Google Cloud Storage bucket.
//
// Put is last-write-wins on every backend. Nothing here locks across
// processes; two writers for the same day both succeed.

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for daily puzzles.
type Store interface {
	// Exists reports whether a record exists for key.
	Exists(ctx context.Context, key string) (bool, error)

	// Get returns the stored value, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes or replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
}
