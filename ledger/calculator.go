package ledger

// =============================================================================
// STOCK CALCULATOR
// =============================================================================

// Stock is the derived state of one entry.
type Stock struct {
	// CalculatedStock = opening + inflows - outflows. Never persisted.
	CalculatedStock float64 `json:"calculatedStock"`
	// Discrepancy = manualCheck - calculatedStock, 0 without a manual check.
	// Negative means shrinkage, positive means surplus.
	Discrepancy float64 `json:"discrepancy"`
	// ReCheckDiscrepancy is the same comparison against the second count.
	ReCheckDiscrepancy float64 `json:"reCheckDiscrepancy"`
}

// ComputeRow derives calculated stock and discrepancy for an entry whose
// opening has already been resolved. Pure; NaN never reaches the result.
func ComputeRow(entry DailyLogEntry) Stock {
	calc := entry.Closing()
	s := Stock{CalculatedStock: calc}
	if v, ok := entry.ManualCheck.Value(); ok {
		s.Discrepancy = sanitize(v - calc)
	}
	if v, ok := entry.ReCheck.Value(); ok {
		s.ReCheckDiscrepancy = sanitize(v - calc)
	}
	return s
}
