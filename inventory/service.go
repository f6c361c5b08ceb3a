/*
Package inventory is the stateful shell around the pure ledger engine.

PURPOSE:
  Holds the current snapshot, serializes writes, and turns each mutation
  into: engine call -> new snapshot -> persistence scheduled -> logs/metrics.

CONCURRENCY:
  One writer at a time (mu). Readers take the current *ledger.History under
  a read lock and then work lock-free: snapshots are never mutated after
  they are published, every write builds a new one.

PERSISTENCE:
  Saves are fire-and-forget and latest-wins (see persister.go). A failed
  save is logged; the in-memory state stays authoritative until the next
  successful save.

SEE ALSO:
  - ledger/mutation.go: The engine this service drives
  - api/handlers.go: HTTP surface over this service
*/
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/inventory-ledger/factory"
	"github.com/warp/inventory-ledger/ledger"
	"github.com/warp/inventory-ledger/metrics"
	"github.com/warp/inventory-ledger/report"
)

// Options configures a Service. Store is required.
type Options struct {
	Store             ledger.Store
	Engine            *ledger.Engine
	Factory           *factory.DocumentFactory
	Logger            logrus.FieldLogger
	Metrics           *metrics.Metrics
	Location          *time.Location
	LowStockThreshold float64
	SaveTimeout       time.Duration
}

// Service owns the current ledger snapshot.
type Service struct {
	mu      sync.RWMutex
	history *ledger.History

	engine    *ledger.Engine
	factory   *factory.DocumentFactory
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
	loc       *time.Location
	lowStock  float64
	persister *persister
}

// Open loads the last snapshot from opts.Store. An empty store is seeded with
// the default catalog; a corrupt one is logged and replaced by the default
// document on the next save.
func Open(ctx context.Context, opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("inventory: store is required")
	}
	if opts.Engine == nil {
		opts.Engine = ledger.NewEngine()
	}
	if opts.Factory == nil {
		opts.Factory = factory.NewDocumentFactory()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = report.DefaultLowStockThreshold
	}

	s := &Service{
		engine:   opts.Engine,
		factory:  opts.Factory,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		loc:      opts.Location,
		lowStock: opts.LowStockThreshold,
	}
	s.persister = newPersister(opts.Store, opts.Logger, opts.Metrics, opts.SaveTimeout)

	data, err := opts.Store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrNoSnapshot):
		s.log.Info("no saved ledger, starting from the default catalog")
		data = s.factory.Default()
		s.persister.schedule(data)
	case errors.Is(err, ledger.ErrMalformedDocument):
		s.log.WithError(err).Warn("saved ledger is corrupt, starting from the default catalog")
	default:
		s.persister.close()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	s.history = ledger.NewHistory(data.Normalized())
	s.recordCatalogSize(len(data.Products))
	s.log.WithFields(logrus.Fields{
		"products": len(data.Products),
		"days":     len(data.Logs),
	}).Info("ledger loaded")
	return s, nil
}

// Close flushes any pending save and stops the persister.
func (s *Service) Close() {
	s.persister.close()
}

// Flush saves the current pending snapshot synchronously.
func (s *Service) Flush() error {
	return s.persister.flush()
}

// =============================================================================
// READS
// =============================================================================

// History returns the current snapshot with its date index. Callers must not
// mutate the returned data.
func (s *Service) History() *ledger.History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}

// Snapshot returns the current ledger. Callers must not mutate it.
func (s *Service) Snapshot() ledger.AppData {
	return s.History().Data()
}

// Location is the time zone used for calendar days.
func (s *Service) Location() *time.Location { return s.loc }

// Today is the current calendar day in the service's time zone.
func (s *Service) Today() ledger.Date { return ledger.DateOf(s.engine.Now(), s.loc) }

// Products returns the catalog in display order.
func (s *Service) Products() []ledger.Product {
	return s.Snapshot().Products
}

// Table returns the day's rows, filtered by query when non-empty.
func (s *Service) Table(date ledger.Date, query string) []ledger.Row {
	return ledger.FilterRows(s.History().Table(date), query)
}

// Operations returns the audit records written on date, newest first.
func (s *Service) Operations(date ledger.Date) []ledger.OperationLog {
	return ledger.OperationsForDate(s.Snapshot().Operations, date, s.loc)
}

// Summary returns the analytics view of date.
func (s *Service) Summary(date ledger.Date) report.Summary {
	return report.Summarize(s.History(), date, s.lowStock)
}

// ExportXLSX renders the day's (filtered) table as a spreadsheet.
func (s *Service) ExportXLSX(date ledger.Date, query string) ([]byte, error) {
	return report.ExportXLSX(date, s.Table(date, query))
}

// ExportBackup returns the whole ledger as an indented JSON document.
func (s *Service) ExportBackup() ([]byte, error) {
	return s.factory.Marshal(s.Snapshot())
}

// =============================================================================
// WRITES
// =============================================================================

// UpdateResult is the outcome of a field update.
type UpdateResult struct {
	Entry     ledger.DailyLogEntry
	Stock     ledger.Stock
	Operation *ledger.OperationLog
}

// UpdateField applies one field update to the (date, productID) entry.
func (s *Service) UpdateField(date ledger.Date, productID ledger.ProductID, u ledger.Update) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, res := s.engine.ApplyFieldUpdate(s.history.Data(), date, productID, u)
	s.commit(next)

	opType := ""
	if res.Operation != nil {
		opType = string(res.Operation.Type)
	}
	if s.metrics != nil {
		s.metrics.RecordFieldUpdate(string(u.Field()), opType)
	}
	s.log.WithFields(logrus.Fields{
		"date":       date,
		"product_id": productID,
		"field":      u.Field(),
		"op_type":    opType,
		"created":    res.Created,
	}).Debug("field updated")

	return UpdateResult{Entry: res.Entry, Stock: ledger.ComputeRow(res.Entry), Operation: res.Operation}
}

// OverrideStock sets the day's calculated stock by shifting its opening stock.
func (s *Service) OverrideStock(productID ledger.ProductID, date ledger.Date, stock float64) (ledger.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, _, err := s.engine.OverrideStock(s.history.Data(), productID, date, stock)
	if err != nil {
		return ledger.Row{}, err
	}
	s.commit(next)
	s.log.WithFields(logrus.Fields{
		"date":       date,
		"product_id": productID,
		"stock":      stock,
	}).Info("stock overridden")

	row, _ := s.history.Row(productID, date)
	return row, nil
}

// AddProduct adds a catalog product, opened at initialStock on date when positive.
func (s *Service) AddProduct(p ledger.Product, initialStock float64, date ledger.Date) (ledger.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, added, err := s.engine.AddProduct(s.history.Data(), p, initialStock, date)
	if err != nil {
		return ledger.Product{}, err
	}
	s.commit(next)
	s.log.WithFields(logrus.Fields{"product_id": added.ID, "name": added.Name}).Info("product added")
	return added, nil
}

// EditProduct replaces the catalog product with the same id.
func (s *Service) EditProduct(p ledger.Product) (ledger.Product, error) {
	return s.catalogEdit("product edited", func(data ledger.AppData) (ledger.AppData, error) {
		return ledger.EditProduct(data, p)
	}, p.ID)
}

// DeleteProducts removes products from the catalog. History is kept.
func (s *Service) DeleteProducts(ids ...ledger.ProductID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, n := ledger.DeleteProducts(s.history.Data(), ids...)
	if n > 0 {
		s.commit(next)
		s.log.WithField("count", n).Info("products deleted")
	}
	return n
}

// SetCategory assigns category to the listed products.
func (s *Service) SetCategory(ids []ledger.ProductID, category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, n := ledger.SetCategory(s.history.Data(), ids, category)
	if n > 0 {
		s.commit(next)
	}
	return n
}

// MoveProduct moves a product to index in the catalog order.
func (s *Service) MoveProduct(id ledger.ProductID, index int) (ledger.Product, error) {
	return s.catalogEdit("product moved", func(data ledger.AppData) (ledger.AppData, error) {
		return ledger.MoveProduct(data, id, index)
	}, id)
}

func (s *Service) catalogEdit(msg string, fn func(ledger.AppData) (ledger.AppData, error), id ledger.ProductID) (ledger.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.history.Data())
	if err != nil {
		return ledger.Product{}, err
	}
	s.commit(next)
	s.log.WithField("product_id", id).Info(msg)
	p, _ := next.Product(id)
	return p, nil
}

// ImportBackup validates raw and replaces the whole ledger with it. On error
// the current state is untouched.
func (s *Service) ImportBackup(raw []byte) error {
	data, err := s.factory.ParseImport(raw)
	if err != nil {
		return err
	}
	s.Replace(data)
	return nil
}

// Replace swaps in data as the whole ledger.
func (s *Service) Replace(data ledger.AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(data.Normalized())
	s.log.WithFields(logrus.Fields{
		"products":   len(data.Products),
		"days":       len(data.Logs),
		"operations": len(data.Operations),
	}).Info("ledger replaced")
}

// commit publishes next and schedules its save. Callers hold mu.
func (s *Service) commit(next ledger.AppData) {
	s.history = ledger.NewHistory(next)
	s.recordCatalogSize(len(next.Products))
	s.persister.schedule(next)
}

func (s *Service) recordCatalogSize(n int) {
	if s.metrics != nil {
		s.metrics.SetCatalogSize(n)
	}
}
