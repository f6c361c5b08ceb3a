/*
resolver.go - Opening-stock resolution

PURPOSE:
  Answers "how many units did this product have when the day started?"
  for any (product, date), using only the ledger snapshot.

PRIORITY ORDER (highest first):
  1. The day's own entry has ManualOpeningStock -> use it (row is "manually opened")
  2. The day's own entry exists -> use its stored OpeningStock
  3. Otherwise take the most recent earlier day holding an entry for the product:
       - it has a ManualCheck -> that physical count is the opening stock
       - else its closing stock (effective opening + inflows - outflows)
  4. No history at all -> 0

KNOWN LIMITATION:
  A stored OpeningStock is never invalidated. Editing an old day does not
  ripple forward into days whose entries already exist.

COMPLEXITY:
  ResolveOpening scans every date in the snapshot: O(days) per call.
  History builds a per-product sorted date index once per snapshot and
  answers in O(log days). Both must always agree.

SEE ALSO:
  - calculator.go: Uses the resolved opening stock
  - table.go: Resolves every catalog product through a History
*/
package ledger

import "sort"

// Opening is a resolved opening stock.
type Opening struct {
	Stock float64
	// Manual is true when the day's ManualOpeningStock was used.
	Manual bool
}

// ResolveOpeningStock returns the opening stock of productID on date.
// It never fails; absent data defaults to 0 at every level.
func ResolveOpeningStock(data AppData, productID ProductID, date Date) float64 {
	return ResolveOpening(data, productID, date).Stock
}

// ResolveOpening is ResolveOpeningStock with the manual-opening flag.
func ResolveOpening(data AppData, productID ProductID, date Date) Opening {
	if e, ok := data.Entry(date, productID); ok {
		return openingOf(e)
	}

	var (
		prevDate  Date
		prevEntry DailyLogEntry
		found     bool
	)
	for d, day := range data.Logs {
		if !d.Before(date) {
			continue
		}
		e, ok := day[productID]
		if !ok {
			continue
		}
		if !found || d.After(prevDate) {
			prevDate, prevEntry, found = d, e, true
		}
	}
	if !found {
		return Opening{}
	}
	return Opening{Stock: carryForward(prevEntry)}
}

func openingOf(e DailyLogEntry) Opening {
	if v, ok := e.ManualOpeningStock.Value(); ok {
		return Opening{Stock: v, Manual: true}
	}
	return Opening{Stock: e.OpeningStock.Float()}
}

// carryForward is the stock a day hands to the next one: its physical
// count when there is one, else its calculated closing.
func carryForward(e DailyLogEntry) float64 {
	if v, ok := e.ManualCheck.Value(); ok {
		return v
	}
	return e.Closing()
}

// =============================================================================
// HISTORY - Per-product date index over one snapshot
// =============================================================================

// History indexes a snapshot for repeated resolution. It must be rebuilt
// whenever the snapshot changes; the engine never mutates a snapshot in
// place, so a History stays valid for the AppData it was built from.
type History struct {
	data  AppData
	dates map[ProductID][]Date
}

// NewHistory builds the index for data.
func NewHistory(data AppData) *History {
	h := &History{data: data, dates: make(map[ProductID][]Date)}
	for d, day := range data.Logs {
		for id := range day {
			h.dates[id] = append(h.dates[id], d)
		}
	}
	for id := range h.dates {
		ds := h.dates[id]
		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
	}
	return h
}

// Data returns the snapshot the index was built from.
func (h *History) Data() AppData { return h.data }

// Opening resolves like ResolveOpening.
func (h *History) Opening(productID ProductID, date Date) Opening {
	if e, ok := h.data.Entry(date, productID); ok {
		return openingOf(e)
	}
	ds := h.dates[productID]
	// first index with ds[i] >= date; the one before it is the latest earlier day
	i := sort.Search(len(ds), func(i int) bool { return !ds[i].Before(date) })
	if i == 0 {
		return Opening{}
	}
	prev, _ := h.data.Entry(ds[i-1], productID)
	return Opening{Stock: carryForward(prev)}
}

// Dates returns the ascending dates holding an entry for productID.
func (h *History) Dates(productID ProductID) []Date {
	return append([]Date(nil), h.dates[productID]...)
}
