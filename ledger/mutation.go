/*
mutation.go - The single write path for the daily log

PURPOSE:
  Engine applies one typed field update to one (date, product) entry and
  appends at most one audit record. It is pure apart from the clock and the
  id generator it was built with: old snapshot in, new snapshot out.

GUARANTEES (per ApplyFieldUpdate call):
  1. Exactly one entry is created or changed: (date, productID)
  2. Zero or one OperationLog is prepended, never more
  3. No other day's entry is touched, and the input snapshot is not mutated

AUDIT RULES:
  - A record is appended only when the before and after values are both
    defined and differ. Clearing an optional count, or setting it for the
    first time, writes the field without an audit record.
  - Delta is after - before, only for numeric fields.
  - ProductName is copied from the catalog at edit time. When the product is
    not in the catalog the field edit is still persisted, but no record is
    written because there is no name to denormalize.

SEE ALSO:
  - field.go: The Update commands and their audit classification
  - resolver.go: Opening stock for freshly created entries
*/
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	Now   func() time.Time
	NewID func() string
}

// NewEngine returns an engine using the wall clock and random UUIDs.
func NewEngine() *Engine {
	return &Engine{Now: time.Now, NewID: uuid.NewString}
}

// Result describes what ApplyFieldUpdate did.
type Result struct {
	Entry     DailyLogEntry
	Created   bool          // the entry did not exist before
	Operation *OperationLog // nil when no audit record was written
}

// ApplyFieldUpdate sets one field of the (date, productID) entry.
// A missing entry is created with zeroed movements and the resolved opening stock.
func (en *Engine) ApplyFieldUpdate(data AppData, date Date, productID ProductID, u Update) (AppData, Result) {
	entry, exists := data.Entry(date, productID)
	if !exists {
		entry = newEntry(productID, ResolveOpeningStock(data, productID, date))
	}
	created := !exists
	entry = entry.clone()
	entry.ProductID = productID
	before, after := u.apply(&entry)

	out := data
	out.Logs = withEntry(data.Logs, date, productID, entry)

	res := Result{Entry: entry, Created: created}
	if before.Defined() && after.Defined() && !before.Equal(after) {
		if p, ok := data.Product(productID); ok {
			op := en.newOperation(OperationTypeFor(u), p.Name, before, after)
			out.Operations = prepend(data.Operations, op)
			res.Operation = &op
		}
	}
	return out, res
}

func (en *Engine) newOperation(typ OperationType, productName string, before, after Value) OperationLog {
	op := OperationLog{
		ID:          en.NewID(),
		Timestamp:   en.Now().UnixMilli(),
		Type:        typ,
		ProductName: productName,
		Detail:      fmt.Sprintf("从 %s 修改为 %s", before, after),
	}
	if before.Numeric() && after.Numeric() {
		d := after.Number() - before.Number()
		op.Delta = &d
	}
	return op
}

// withEntry copies the top-level map and the touched day; other days are shared.
func withEntry(logs map[Date]DailyLog, date Date, productID ProductID, e DailyLogEntry) map[Date]DailyLog {
	out := make(map[Date]DailyLog, len(logs)+1)
	for d, day := range logs {
		out[d] = day
	}
	day := make(DailyLog, len(logs[date])+1)
	for id, v := range logs[date] {
		day[id] = v
	}
	day[productID] = e
	out[date] = day
	return out
}

func prepend(ops []OperationLog, op OperationLog) []OperationLog {
	out := make([]OperationLog, 0, len(ops)+1)
	out = append(out, op)
	return append(out, ops...)
}

// =============================================================================
// STOCK OVERRIDE - Correct the displayed stock without touching movements
// =============================================================================

// OverrideStock makes the day's calculated stock equal newStock by shifting
// the opening stock by the difference. It is a day-scoped adjustment, not a
// movement, and goes through ApplyFieldUpdate like any other edit.
//
// When the row is manually opened the stored OpeningStock does not drive the
// calculation, so the shift is applied to ManualOpeningStock instead.
func (en *Engine) OverrideStock(data AppData, productID ProductID, date Date, newStock float64) (AppData, Result, error) {
	h := NewHistory(data)
	row, ok := h.Row(productID, date)
	if !ok {
		return data, Result{}, fmt.Errorf("override stock of %s: %w", productID, ErrProductNotFound)
	}
	diff := sanitize(newStock) - row.CalculatedStock

	var u Update
	if row.IsManualOpening {
		u = SetManualOpeningStock{Value: Q(row.EffectiveOpening() + diff)}
	} else {
		u = SetOpeningStock(row.OpeningStock.Float() + diff)
	}
	out, res := en.ApplyFieldUpdate(data, date, productID, u)
	return out, res, nil
}
