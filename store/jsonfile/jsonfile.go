/*
Package jsonfile provides a ledger.Store backed by one JSON document on disk.

PURPOSE:
  Keeps the ledger in the same document format that backups use, so a data
  file can be copied, inspected or restored by hand.

DURABILITY:
  Save writes to a temporary file in the same directory and renames it over
  the target. A crash mid-write leaves the previous document in place.

LOAD:
  A missing file is ledger.ErrNoSnapshot. A corrupt file decodes to the
  default document and the error wraps ledger.ErrMalformedDocument, so the
  caller decides whether to continue.

SEE ALSO:
  - factory/document.go: Document decoding and migration
*/
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/warp/inventory-ledger/factory"
	"github.com/warp/inventory-ledger/ledger"
)

// Store reads and writes a single JSON document.
type Store struct {
	path    string
	factory *factory.DocumentFactory
	mu      sync.Mutex
}

// New returns a store for the document at path. The parent directory is
// created on first save.
func New(path string, f *factory.DocumentFactory) *Store {
	if f == nil {
		f = factory.NewDocumentFactory()
	}
	return &Store{path: path, factory: f}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads and decodes the document.
func (s *Store) Load(_ context.Context) (ledger.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.AppData{}, ledger.ErrNoSnapshot
	}
	if err != nil {
		return ledger.AppData{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return s.factory.ParseDocument(raw)
}

// Save encodes data and atomically replaces the document.
func (s *Store) Save(ctx context.Context, data ledger.AppData) error {
	raw, err := s.factory.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteAtomic(s.path, raw)
}

// WriteAtomic writes raw to path through a temp file and a rename.
func WriteAtomic(path string, raw []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
