package ledger

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day key (YYYY-MM-DD)
// =============================================================================

// Date is a zero-padded ISO calendar date. Ledger history is keyed and
// ordered by Date, and ordering is plain string comparison, which is only
// chronological for zero-padded dates. ParseDate enforces the format.
type Date string

const dateLayout = "2006-01-02"

// ParseDate validates s as a zero-padded YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	if len(s) != len(dateLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil || t.Format(dateLayout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date(s), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return Date(t.In(loc).Format(dateLayout))
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) Date { return DateOf(time.Now(), loc) }

// Comparison
func (d Date) Before(other Date) bool { return d < other }
func (d Date) After(other Date) bool  { return d > other }

// Time returns midnight UTC of d. Zero time for malformed dates.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date(d.Time().AddDate(0, 0, n).Format(dateLayout)) }
func (d Date) Previous() Date     { return d.AddDays(-1) }
func (d Date) Next() Date         { return d.AddDays(1) }

func (d Date) String() string { return string(d) }
