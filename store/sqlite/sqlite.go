/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Persists whole ledger snapshots in relational form, so the data can be
  inspected and queried with ordinary SQL tools while the engine keeps
  working on in-memory snapshots.

INTERFACES IMPLEMENTED:
  ledger.Store: Load / Save of the whole snapshot

KEY TABLES:
  products:    Catalog, ordered by position (the display order)
  daily_logs:  One row per (date, product_id); optional counts are NULL when unset
  operations:  Audit trail, ordered by seq (0 = newest, as written)
  meta:        saved_at marker; its absence means nothing was saved yet

SAVE SEMANTICS:
  Save replaces the three tables inside one transaction. A reader never sees
  a half-written snapshot and a failed save leaves the previous one intact.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and a single connection so that
  ":memory:" databases are shared by every statement.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/inventory.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc, err := inventory.Open(ctx, store, ...)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - ledger/store.go: Interface definition
  - store/memory: In-memory implementation for testing
  - store/jsonfile: Single JSON document implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/inventory-ledger/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Product catalog
	CREATE TABLE IF NOT EXISTS products (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_products_id
		ON products(id);

	-- Daily log entries
	CREATE TABLE IF NOT EXISTS daily_logs (
		date TEXT NOT NULL,
		product_id TEXT NOT NULL,
		opening_stock REAL NOT NULL DEFAULT 0,
		manual_opening_stock REAL,
		purchase_in REAL NOT NULL DEFAULT 0,
		return_in REAL NOT NULL DEFAULT 0,
		sales_out REAL NOT NULL DEFAULT 0,
		gift_out REAL NOT NULL DEFAULT 0,
		claim_out REAL NOT NULL DEFAULT 0,
		feedback_out REAL NOT NULL DEFAULT 0,
		package_gift_out REAL NOT NULL DEFAULT 0,
		manual_check REAL,
		re_check REAL,
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (date, product_id)
	);

	-- Prior-day lookups walk a product's dates in order
	CREATE INDEX IF NOT EXISTS idx_daily_logs_product_date
		ON daily_logs(product_id, date);

	-- Audit trail
	CREATE TABLE IF NOT EXISTS operations (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		type TEXT NOT NULL,
		product_name TEXT NOT NULL,
		detail TEXT NOT NULL,
		delta REAL
	);

	CREATE INDEX IF NOT EXISTS idx_operations_timestamp
		ON operations(timestamp DESC);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT STORE (ledger.Store interface)
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Save replaces the stored snapshot atomically.
func (s *Store) Save(ctx context.Context, data ledger.AppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, table := range []string{"products", "daily_logs", "operations"} {
		if _, err := sqlTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := saveProducts(ctx, sqlTx, data.Products); err != nil {
		return err
	}
	if err := saveLogs(ctx, sqlTx, data.Logs); err != nil {
		return err
	}
	if err := saveOperations(ctx, sqlTx, data.Operations); err != nil {
		return err
	}
	if _, err := sqlTx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('saved_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to mark snapshot: %w", err)
	}

	return sqlTx.Commit()
}

func saveProducts(ctx context.Context, db execer, products []ledger.Product) error {
	query := `
		INSERT INTO products (id, position, name, unit, price, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, p := range products {
		if _, err := db.ExecContext(ctx, query,
			string(p.ID), i, p.Name, p.Unit, p.Price.Float(), p.Category,
		); err != nil {
			return fmt.Errorf("failed to save product %s: %w", p.ID, err)
		}
	}
	return nil
}

func saveLogs(ctx context.Context, db execer, logs map[ledger.Date]ledger.DailyLog) error {
	query := `
		INSERT INTO daily_logs
		(date, product_id, opening_stock, manual_opening_stock, purchase_in, return_in,
		 sales_out, gift_out, claim_out, feedback_out, package_gift_out,
		 manual_check, re_check, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for date, day := range logs {
		for id, e := range day {
			if _, err := db.ExecContext(ctx, query,
				string(date), string(id),
				e.OpeningStock.Float(), nullQuantity(e.ManualOpeningStock),
				e.PurchaseIn.Float(), e.ReturnIn.Float(),
				e.SalesOut.Float(), e.GiftOut.Float(), e.ClaimOut.Float(),
				e.FeedbackOut.Float(), e.PackageGiftOut.Float(),
				nullQuantity(e.ManualCheck), nullQuantity(e.ReCheck),
				e.Notes,
			); err != nil {
				return fmt.Errorf("failed to save log %s/%s: %w", date, id, err)
			}
		}
	}
	return nil
}

func saveOperations(ctx context.Context, db execer, ops []ledger.OperationLog) error {
	query := `
		INSERT INTO operations (id, seq, timestamp, type, product_name, detail, delta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, op := range ops {
		var delta sql.NullFloat64
		if op.Delta != nil {
			delta = sql.NullFloat64{Float64: *op.Delta, Valid: true}
		}
		if _, err := db.ExecContext(ctx, query,
			op.ID, i, op.Timestamp, string(op.Type), op.ProductName, op.Detail, delta,
		); err != nil {
			return fmt.Errorf("failed to save operation %s: %w", op.ID, err)
		}
	}
	return nil
}

// Load assembles the stored snapshot. It returns ledger.ErrNoSnapshot when
// Save was never called on this database.
func (s *Store) Load(ctx context.Context) (ledger.AppData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var savedAt string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'saved_at'").Scan(&savedAt)
	if err == sql.ErrNoRows {
		return ledger.AppData{}, ledger.ErrNoSnapshot
	}
	if err != nil {
		return ledger.AppData{}, fmt.Errorf("failed to read snapshot marker: %w", err)
	}

	data := ledger.AppData{}.Normalized()
	if data.Products, err = s.loadProducts(ctx); err != nil {
		return ledger.AppData{}, err
	}
	if data.Logs, err = s.loadLogs(ctx); err != nil {
		return ledger.AppData{}, err
	}
	if data.Operations, err = s.loadOperations(ctx); err != nil {
		return ledger.AppData{}, err
	}
	return data, nil
}

func (s *Store) loadProducts(ctx context.Context) ([]ledger.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, unit, price, category FROM products ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []ledger.Product{}
	for rows.Next() {
		var p ledger.Product
		var id string
		var price float64
		if err := rows.Scan(&id, &p.Name, &p.Unit, &price, &p.Category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.ID = ledger.ProductID(id)
		p.Price = ledger.Quantity(price)
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) loadLogs(ctx context.Context) (map[ledger.Date]ledger.DailyLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, product_id, opening_stock, manual_opening_stock, purchase_in, return_in,
		       sales_out, gift_out, claim_out, feedback_out, package_gift_out,
		       manual_check, re_check, notes
		FROM daily_logs
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily logs: %w", err)
	}
	defer rows.Close()

	logs := map[ledger.Date]ledger.DailyLog{}
	for rows.Next() {
		var e ledger.DailyLogEntry
		var date, productID string
		var opening, purchase, ret, sales, gift, claim, feedback, pkg float64
		var manualOpening, manualCheck, reCheck sql.NullFloat64
		if err := rows.Scan(&date, &productID, &opening, &manualOpening, &purchase, &ret,
			&sales, &gift, &claim, &feedback, &pkg, &manualCheck, &reCheck, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		e.ProductID = ledger.ProductID(productID)
		e.OpeningStock = ledger.Quantity(opening)
		e.ManualOpeningStock = quantityOf(manualOpening)
		e.PurchaseIn = ledger.Quantity(purchase)
		e.ReturnIn = ledger.Quantity(ret)
		e.SalesOut = ledger.Quantity(sales)
		e.GiftOut = ledger.Quantity(gift)
		e.ClaimOut = ledger.Quantity(claim)
		e.FeedbackOut = ledger.Quantity(feedback)
		e.PackageGiftOut = ledger.Quantity(pkg)
		e.ManualCheck = quantityOf(manualCheck)
		e.ReCheck = quantityOf(reCheck)

		d := ledger.Date(date)
		if logs[d] == nil {
			logs[d] = ledger.DailyLog{}
		}
		logs[d][e.ProductID] = e
	}
	return logs, rows.Err()
}

func (s *Store) loadOperations(ctx context.Context) ([]ledger.OperationLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, type, product_name, detail, delta
		FROM operations
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	ops := []ledger.OperationLog{}
	for rows.Next() {
		var op ledger.OperationLog
		var typ string
		var delta sql.NullFloat64
		if err := rows.Scan(&op.ID, &op.Timestamp, &typ, &op.ProductName, &op.Detail, &delta); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.Type = ledger.OperationType(typ)
		if delta.Valid {
			v := delta.Float64
			op.Delta = &v
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset deletes all stored data, including the snapshot marker.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"products", "daily_logs", "operations", "meta"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullQuantity(q *ledger.Quantity) sql.NullFloat64 {
	v, ok := q.Value()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func quantityOf(v sql.NullFloat64) *ledger.Quantity {
	if !v.Valid {
		return nil
	}
	return ledger.Q(v.Float64)
}
