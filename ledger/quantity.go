package ledger

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// QUANTITY - Tolerant numeric field
// =============================================================================

// Quantity is a stock count or price. Documents written by older clients may
// carry strings, nulls or garbage where a number belongs; all of those decode
// to 0 rather than failing the whole document. NaN and ±Inf never leave a
// Quantity: Float() reports them as 0.
type Quantity float64

// Q returns a pointer to a Quantity, for optional fields.
func Q(v float64) *Quantity {
	q := Quantity(v)
	return &q
}

// Float returns the value as float64 with NaN/Inf mapped to 0.
func (q Quantity) Float() float64 {
	return sanitize(float64(q))
}

func (q *Quantity) copy() *Quantity {
	if q == nil {
		return nil
	}
	v := *q
	return &v
}

// Value dereferences an optional quantity. ok is false when q is nil.
func (q *Quantity) Value() (v float64, ok bool) {
	if q == nil {
		return 0, false
	}
	return q.Float(), true
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(q.Float(), 'f', -1, 64)), nil
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	*q = Quantity(coerce(b))
	return nil
}

// coerce turns any JSON scalar into a finite number, defaulting to 0.
func coerce(b []byte) float64 {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0
		}
		return ParseNumber(s)
	case 't':
		return 1
	case 'f', '{', '[':
		return 0
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0
	}
	return sanitize(v)
}

// ParseNumber parses user input the way a spreadsheet cell would: surrounding
// space is ignored and anything unparseable is 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return sanitize(v)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// formatNumber renders v without trailing zeros ("5", "2.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(sanitize(v), 'f', -1, 64)
}
