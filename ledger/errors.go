/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The pure engine itself never fails on stored data (absent values read
  as 0); these errors cover invalid caller input and document handling.

ERROR CATEGORIES:
  1. Input errors - bad dates, unknown fields, invalid products
  2. Lookup errors - missing products
  3. Document errors - corrupt persisted state, rejected imports

SEE ALSO:
  - factory/document.go: ErrMalformedDocument, ErrInvalidImport
  - api/handlers.go: Maps these errors onto HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned for dates that are not zero-padded YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

	// ErrProductNotFound is returned when a referenced product is not in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateProduct is returned when adding a product whose id already exists.
	ErrDuplicateProduct = errors.New("duplicate product id")

	// ErrInvalidProduct is returned when a product fails validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrUnknownField is returned when a field name does not map to a log entry field.
	ErrUnknownField = errors.New("unknown log field")

	// ErrInvalidValue is returned when a field value has the wrong shape.
	ErrInvalidValue = errors.New("invalid field value")

	// ErrMalformedDocument is returned when persisted state cannot be decoded.
	// Callers recover by falling back to the default document.
	ErrMalformedDocument = errors.New("malformed ledger document")

	// ErrInvalidImport is returned when an imported document lacks required keys.
	// State is left untouched.
	ErrInvalidImport = errors.New("invalid import document")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FieldError describes a rejected field update.
type FieldError struct {
	Field  Field
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrDuplicateProduct) ||
		errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInvalidImport)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}
