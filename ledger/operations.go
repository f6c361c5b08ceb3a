package ledger

import (
	"sort"
	"time"
)

// =============================================================================
// OPERATION LOG QUERIES
// =============================================================================
// Operations are stored newest-first as written, but nothing relies on the
// order at rest: reads sort by timestamp.

// OperationsForDate returns the operations whose timestamp falls on date in
// loc, newest first.
func OperationsForDate(ops []OperationLog, date Date, loc *time.Location) []OperationLog {
	out := make([]OperationLog, 0)
	for _, op := range ops {
		if DateOf(time.UnixMilli(op.Timestamp), loc) == date {
			out = append(out, op)
		}
	}
	SortOperations(out)
	return out
}

// SortOperations orders ops by timestamp, newest first. Ties keep their
// stored order.
func SortOperations(ops []OperationLog) {
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Timestamp > ops[j].Timestamp })
}
