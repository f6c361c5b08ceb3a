/*
Package ledger provides the daily stock ledger engine.

PURPOSE:
  This package contains the rules of a single-shop inventory ledger: how a
  product's opening stock for a day is derived from history, how the
  end-of-day calculated stock and the discrepancy against a physical count
  are computed, and how every edit is recorded in an append-only audit trail.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: A sellable catalog item (id, name, unit, price, category)
  - DailyLogEntry: One product's movements for one calendar day
  - DailyLog / AppData: The whole ledger state as one immutable snapshot
  - OperationLog: An immutable audit record of a single field change

DESIGN PRINCIPLES:
  1. Snapshots: AppData is treated as immutable; every mutation returns a new
     snapshot sharing untouched maps with the old one (copy-on-write)
  2. Totality: the engine never fails on data. Missing or non-numeric values
     read as 0, orphaned log entries are ignored by catalog-joined views
  3. Denormalized audit: OperationLog.ProductName is a snapshot of the name at
     edit time and stays valid after renames or deletes

USAGE:
  engine := ledger.NewEngine()
  data, op := engine.ApplyFieldUpdate(data, date, "p1", ledger.SetSalesOut(5))
  rows := ledger.TableForDate(data, date)

SEE ALSO:
  - resolver.go: Opening-stock resolution
  - calculator.go: Calculated stock and discrepancy
  - mutation.go: The single write path for log entries
*/
package ledger

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProductID string

// DefaultCategory is used for products saved without a category.
const DefaultCategory = "其他"

// =============================================================================
// PRODUCT - Catalog item
// =============================================================================

type Product struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Unit     string    `json:"unit"`
	Price    Quantity  `json:"price"`
	Category string    `json:"category,omitempty"`
}

// CategoryOrDefault returns the product category, falling back to DefaultCategory.
func (p Product) CategoryOrDefault() string {
	if p.Category == "" {
		return DefaultCategory
	}
	return p.Category
}

// =============================================================================
// DAILY LOG ENTRY - One product, one day
// =============================================================================

// DailyLogEntry holds the movements of a product on a single day.
//
// Inflows:  PurchaseIn, ReturnIn (customer deposit)
// Outflows: SalesOut, GiftOut, ClaimOut (deposit reclaim), FeedbackOut, PackageGiftOut
//
// OpeningStock is the value resolved when the entry was created. It is not
// authoritative once ManualOpeningStock is set.
type DailyLogEntry struct {
	ProductID          ProductID `json:"productId"`
	OpeningStock       Quantity  `json:"openingStock"`
	ManualOpeningStock *Quantity `json:"manualOpeningStock,omitempty"`

	PurchaseIn Quantity `json:"purchaseIn"`
	ReturnIn   Quantity `json:"returnIn"`

	SalesOut       Quantity `json:"salesOut"`
	GiftOut        Quantity `json:"giftOut"`
	ClaimOut       Quantity `json:"claimOut"`
	FeedbackOut    Quantity `json:"feedbackOut"`
	PackageGiftOut Quantity `json:"packageGiftOut"`

	ManualCheck *Quantity `json:"manualCheck,omitempty"`
	ReCheck     *Quantity `json:"reCheck,omitempty"`

	Notes string `json:"notes"`
}

// EffectiveOpening returns ManualOpeningStock when set, else OpeningStock.
func (e DailyLogEntry) EffectiveOpening() float64 {
	if e.ManualOpeningStock != nil {
		return e.ManualOpeningStock.Float()
	}
	return e.OpeningStock.Float()
}

// Inflows is the sum of stock-increasing movements.
func (e DailyLogEntry) Inflows() float64 {
	return e.PurchaseIn.Float() + e.ReturnIn.Float()
}

// Outflows is the sum of stock-decreasing movements.
func (e DailyLogEntry) Outflows() float64 {
	return e.SalesOut.Float() + e.GiftOut.Float() + e.ClaimOut.Float() +
		e.FeedbackOut.Float() + e.PackageGiftOut.Float()
}

// Closing is the stock at the end of the day, ignoring any physical count.
func (e DailyLogEntry) Closing() float64 {
	return sanitize(e.EffectiveOpening() + e.Inflows() - e.Outflows())
}

// newEntry returns a zeroed entry for productID opened at opening.
func newEntry(productID ProductID, opening float64) DailyLogEntry {
	return DailyLogEntry{
		ProductID:    productID,
		OpeningStock: Quantity(opening),
	}
}

// DailyLog maps product id to that day's entry.
type DailyLog map[ProductID]DailyLogEntry

// =============================================================================
// APP DATA - Whole ledger snapshot (the persisted document)
// =============================================================================

type AppData struct {
	Products   []Product         `json:"products"`
	Logs       map[Date]DailyLog `json:"logs"`
	Operations []OperationLog    `json:"operations"`
}

// Product looks up a catalog product by id.
func (d AppData) Product(id ProductID) (Product, bool) {
	for _, p := range d.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Entry returns the log entry for (date, productID) if one exists.
func (d AppData) Entry(date Date, productID ProductID) (DailyLogEntry, bool) {
	day, ok := d.Logs[date]
	if !ok {
		return DailyLogEntry{}, false
	}
	e, ok := day[productID]
	return e, ok
}

// Normalized returns d with nil collections replaced by empty ones.
func (d AppData) Normalized() AppData {
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Logs == nil {
		d.Logs = map[Date]DailyLog{}
	}
	if d.Operations == nil {
		d.Operations = []OperationLog{}
	}
	return d
}

// Clone returns a deep copy of d. Stores use it to hand out snapshots that
// callers may not alias.
func (d AppData) Clone() AppData {
	out := AppData{
		Products:   append([]Product{}, d.Products...),
		Logs:       make(map[Date]DailyLog, len(d.Logs)),
		Operations: make([]OperationLog, len(d.Operations)),
	}
	for date, day := range d.Logs {
		cp := make(DailyLog, len(day))
		for id, e := range day {
			cp[id] = e.clone()
		}
		out.Logs[date] = cp
	}
	for i, op := range d.Operations {
		if op.Delta != nil {
			v := *op.Delta
			op.Delta = &v
		}
		out.Operations[i] = op
	}
	return out
}

func (e DailyLogEntry) clone() DailyLogEntry {
	e.ManualOpeningStock = e.ManualOpeningStock.copy()
	e.ManualCheck = e.ManualCheck.copy()
	e.ReCheck = e.ReCheck.copy()
	return e
}

// =============================================================================
// OPERATION LOG - Audit trail record
// =============================================================================

type OperationType string

const (
	OpStockIn  OperationType = "STOCK_IN"
	OpSale     OperationType = "SALE"
	OpGift     OperationType = "GIFT"
	OpReturn   OperationType = "RETURN"
	OpPackage  OperationType = "PACKAGE"
	OpClaim    OperationType = "CLAIM"
	OpFeedback OperationType = "FEEDBACK"
	OpCheck    OperationType = "CHECK"
	OpReCheck  OperationType = "RECHECK"
	OpModify   OperationType = "MODIFY"
)

// Label returns the display label used by the shop staff.
func (t OperationType) Label() string {
	switch t {
	case OpStockIn:
		return "进货"
	case OpSale:
		return "销售"
	case OpCheck:
		return "初盘"
	case OpReCheck:
		return "复盘"
	case OpGift:
		return "赠送"
	case OpReturn:
		return "寄存"
	case OpClaim:
		return "寄领"
	case OpFeedback:
		return "回馈"
	case OpPackage:
		return "套餐"
	default:
		return "修改"
	}
}

// OperationLog is immutable once created.
type OperationLog struct {
	ID          string        `json:"id"`
	Timestamp   int64         `json:"timestamp"` // epoch milliseconds
	Type        OperationType `json:"type"`
	ProductName string        `json:"productName"`
	Detail      string        `json:"detail"`
	Delta       *float64      `json:"delta,omitempty"`
}
