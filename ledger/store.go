/*
store.go - Persistence port for ledger snapshots

PURPOSE:
  Defines the boundary between the pure engine and durable storage. The
  engine only ever produces whole snapshots; a Store persists and reloads
  them. Persistence is a side effect wrapped around the pure core.

IMPLEMENTATIONS:
  - store/memory:   In-memory, for tests and ephemeral runs
  - store/sqlite:   Relational tables (products, daily_logs, operations)
  - store/jsonfile: The single JSON document format

LOAD CONTRACT:
  Load never returns a nil-collection snapshot. A store with nothing saved
  yet returns ErrNoSnapshot so the caller can seed the default catalog.

SEE ALSO:
  - inventory/persister.go: Fire-and-forget saves after each mutation
  - factory/document.go: JSON document decoding and migration
*/
package ledger

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Store.Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no saved snapshot")

// Store persists whole ledger snapshots.
type Store interface {
	// Load returns the last saved snapshot.
	Load(ctx context.Context) (AppData, error)

	// Save replaces the stored snapshot with data.
	Save(ctx context.Context, data AppData) error
}
