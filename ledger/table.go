package ledger

import "strings"

// =============================================================================
// TABLE ROW - Catalog-joined view model for one day
// =============================================================================

// Row is the per-product projection for a date: every Product field, every
// DailyLogEntry field, and the derived stock figures. It is the contract
// read by spreadsheet export and analytics.
type Row struct {
	Product
	DailyLogEntry
	Stock
	IsManualOpening bool `json:"isManualOpening"`
}

// TableForDate returns one row per catalog product, in catalog order.
// Log entries whose product is no longer in the catalog are skipped.
func TableForDate(data AppData, date Date) []Row {
	return NewHistory(data).Table(date)
}

// Table is TableForDate over an indexed snapshot.
func (h *History) Table(date Date) []Row {
	rows := make([]Row, 0, len(h.data.Products))
	for _, p := range h.data.Products {
		rows = append(rows, h.row(p, date))
	}
	return rows
}

// Row returns the row of a single catalog product.
func (h *History) Row(productID ProductID, date Date) (Row, bool) {
	p, ok := h.data.Product(productID)
	if !ok {
		return Row{}, false
	}
	return h.row(p, date), true
}

func (h *History) row(p Product, date Date) Row {
	entry, opening := h.entryFor(p.ID, date)
	return Row{
		Product:         p,
		DailyLogEntry:   entry,
		Stock:           ComputeRow(entry),
		IsManualOpening: opening.Manual,
	}
}

// entryFor returns the stored entry, or a fresh one opened at the resolved
// opening stock when the day has none yet.
func (h *History) entryFor(productID ProductID, date Date) (DailyLogEntry, Opening) {
	opening := h.Opening(productID, date)
	if e, ok := h.data.Entry(date, productID); ok {
		return e, opening
	}
	return newEntry(productID, opening.Stock), opening
}

// FilterRows keeps rows whose name or category contains query, ignoring case.
// An empty query keeps everything.
func FilterRows(rows []Row, query string) []Row {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Category), q) {
			out = append(out, r)
		}
	}
	return out
}
