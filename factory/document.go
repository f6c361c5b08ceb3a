/*
Package factory provides JSON to Go conversion of the ledger document.

PURPOSE:
  Converts the persisted JSON document into ledger.AppData and back. The
  document is the single source of durable state (and the backup format),
  so every store and the import endpoint decode through here.

JSON SCHEMA:
  {
    "products": [
      {"id": "5", "name": "雪花纯生", "unit": "瓶", "price": 18, "category": "啤酒"}
    ],
    "logs": {
      "2024-01-01": {
        "5": {"productId": "5", "openingStock": 0, "purchaseIn": 10,
              "salesOut": 3, "manualCheck": 9, "notes": ""}
      }
    },
    "operations": [
      {"id": "...", "timestamp": 1704099600000, "type": "SALE",
       "productName": "雪花纯生", "detail": "从 0 修改为 3", "delta": 3}
    ]
  }

MIGRATION (ParseDocument only):
  - Missing "operations" becomes an empty list
  - A "products" array shorter than the default catalog gets the missing
    default products appended (matched by id, existing ones untouched)
  - Log days whose key is not a YYYY-MM-DD date are dropped
  - Entries without a productId take it from their map key
  - Numbers stored as strings, null or garbage decode as 0

  Corrupt input returns the default document together with an error wrapping
  ledger.ErrMalformedDocument, so callers can log and keep going.

IMPORT (ParseImport):
  Requires "products" and "logs" keys. No catalog merge: an import replaces
  the whole state with exactly what was exported.

USAGE:
  f := factory.NewDocumentFactory()
  data, err := f.ParseDocument(raw)
  if errors.Is(err, ledger.ErrMalformedDocument) { log and continue with data }

SEE ALSO:
  - factory/catalog.go: The default product catalog
  - store/jsonfile: Reads and writes this document on disk
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/warp/inventory-ledger/ledger"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// DocumentJSON is the JSON representation of the whole ledger.
type DocumentJSON struct {
	Products   []ledger.Product                           `json:"products"`
	Logs       map[string]map[string]ledger.DailyLogEntry `json:"logs"`
	Operations []ledger.OperationLog                      `json:"operations"`
}

// =============================================================================
// DOCUMENT FACTORY
// =============================================================================

// DocumentFactory converts JSON documents to ledger snapshots.
type DocumentFactory struct {
	// Defaults is the catalog used for fresh ledgers and for migration.
	Defaults []ledger.Product
}

// NewDocumentFactory creates a factory seeded with the default catalog.
func NewDocumentFactory() *DocumentFactory {
	return &DocumentFactory{Defaults: DefaultProducts()}
}

// Default returns a fresh ledger holding only the default catalog.
func (f *DocumentFactory) Default() ledger.AppData {
	return ledger.AppData{
		Products: append([]ledger.Product{}, f.Defaults...),
	}.Normalized()
}

// ParseDocument decodes a persisted document, applying migrations. On
// corrupt input it returns the default document and an error wrapping
// ledger.ErrMalformedDocument.
func (f *DocumentFactory) ParseDocument(raw []byte) (ledger.AppData, error) {
	var dj DocumentJSON
	if err := json.Unmarshal(raw, &dj); err != nil {
		return f.Default(), fmt.Errorf("%w: %v", ledger.ErrMalformedDocument, err)
	}
	data := f.FromJSON(dj)
	data.Products = f.mergeDefaults(data.Products)
	return data, nil
}

// ParseImport decodes a user-supplied backup. It rejects documents without
// "products" or "logs" with ledger.ErrInvalidImport.
func (f *DocumentFactory) ParseImport(raw []byte) (ledger.AppData, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return ledger.AppData{}, fmt.Errorf("%w: %v", ledger.ErrInvalidImport, err)
	}
	for _, k := range []string{"products", "logs"} {
		v, ok := keys[k]
		if !ok || isNull(v) {
			return ledger.AppData{}, fmt.Errorf("%w: missing %q", ledger.ErrInvalidImport, k)
		}
	}

	var dj DocumentJSON
	if err := json.Unmarshal(raw, &dj); err != nil {
		return ledger.AppData{}, fmt.Errorf("%w: %v", ledger.ErrInvalidImport, err)
	}
	return f.FromJSON(dj), nil
}

// FromJSON converts DocumentJSON to a normalized snapshot.
func (f *DocumentFactory) FromJSON(dj DocumentJSON) ledger.AppData {
	data := ledger.AppData{
		Products:   dj.Products,
		Logs:       make(map[ledger.Date]ledger.DailyLog, len(dj.Logs)),
		Operations: dj.Operations,
	}
	for key, day := range dj.Logs {
		date, err := ledger.ParseDate(key)
		if err != nil {
			continue
		}
		log := make(ledger.DailyLog, len(day))
		for id, e := range day {
			if e.ProductID == "" {
				e.ProductID = ledger.ProductID(id)
			}
			log[ledger.ProductID(id)] = e
		}
		data.Logs[date] = log
	}
	return data.Normalized()
}

// ToJSON converts a snapshot to DocumentJSON.
func (f *DocumentFactory) ToJSON(data ledger.AppData) DocumentJSON {
	data = data.Normalized()
	dj := DocumentJSON{
		Products:   data.Products,
		Logs:       make(map[string]map[string]ledger.DailyLogEntry, len(data.Logs)),
		Operations: data.Operations,
	}
	for date, day := range data.Logs {
		log := make(map[string]ledger.DailyLogEntry, len(day))
		for id, e := range day {
			log[string(id)] = e
		}
		dj.Logs[string(date)] = log
	}
	return dj
}

// Marshal encodes a snapshot as an indented document.
func (f *DocumentFactory) Marshal(data ledger.AppData) ([]byte, error) {
	b, err := json.MarshalIndent(f.ToJSON(data), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return b, nil
}

// =============================================================================
// MIGRATION HELPERS
// =============================================================================

// mergeDefaults appends missing default products when the stored catalog is
// shorter than the defaults. A catalog at least as long is left alone.
func (f *DocumentFactory) mergeDefaults(products []ledger.Product) []ledger.Product {
	if len(products) >= len(f.Defaults) {
		return products
	}
	have := make(map[ledger.ProductID]bool, len(products))
	for _, p := range products {
		have[p.ID] = true
	}
	out := append([]ledger.Product{}, products...)
	for _, p := range f.Defaults {
		if !have[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
