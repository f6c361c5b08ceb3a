// Package memory provides an in-memory ledger.Store.
package memory

import (
	"context"
	"sync"

	"github.com/warp/inventory-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu    sync.RWMutex
	data  ledger.AppData
	saved bool
	saves int
}

func New() *Store {
	return &Store{}
}

// NewWith returns a store that already holds data, as if it had been saved.
func NewWith(data ledger.AppData) *Store {
	return &Store{data: data.Clone(), saved: true}
}

// Load returns a deep copy of the last saved snapshot.
func (m *Store) Load(_ context.Context) (ledger.AppData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.saved {
		return ledger.AppData{}, ledger.ErrNoSnapshot
	}
	return m.data.Clone(), nil
}

// Save keeps a deep copy of data. Later changes to data are not visible.
func (m *Store) Save(_ context.Context, data ledger.AppData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = data.Normalized().Clone()
	m.saved = true
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *Store) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
