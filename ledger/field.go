package ledger

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// FIELDS - Wire names of editable DailyLogEntry fields
// =============================================================================

type Field string

const (
	FieldOpeningStock       Field = "openingStock"
	FieldManualOpeningStock Field = "manualOpeningStock"
	FieldPurchaseIn         Field = "purchaseIn"
	FieldReturnIn           Field = "returnIn"
	FieldSalesOut           Field = "salesOut"
	FieldGiftOut            Field = "giftOut"
	FieldClaimOut           Field = "claimOut"
	FieldFeedbackOut        Field = "feedbackOut"
	FieldPackageGiftOut     Field = "packageGiftOut"
	FieldManualCheck        Field = "manualCheck"
	FieldReCheck            Field = "reCheck"
	FieldNotes              Field = "notes"
)

// =============================================================================
// UPDATE - One typed edit of one field
// =============================================================================

// Update is a single-field edit of a DailyLogEntry. The set of
// implementations is closed; OperationTypeFor switches over all of them.
type Update interface {
	Field() Field
	apply(e *DailyLogEntry) (before, after Value)
}

// Movement fields.
type (
	SetOpeningStock   float64
	SetPurchaseIn     float64
	SetReturnIn       float64
	SetSalesOut       float64
	SetGiftOut        float64
	SetClaimOut       float64
	SetFeedbackOut    float64
	SetPackageGiftOut float64
)

// Optional count fields. A nil Value clears the field.
type (
	SetManualOpeningStock struct{ Value *Quantity }
	SetManualCheck        struct{ Value *Quantity }
	SetReCheck            struct{ Value *Quantity }
)

// SetNotes replaces the free-text notes.
type SetNotes string

func (SetOpeningStock) Field() Field       { return FieldOpeningStock }
func (SetPurchaseIn) Field() Field         { return FieldPurchaseIn }
func (SetReturnIn) Field() Field           { return FieldReturnIn }
func (SetSalesOut) Field() Field           { return FieldSalesOut }
func (SetGiftOut) Field() Field            { return FieldGiftOut }
func (SetClaimOut) Field() Field           { return FieldClaimOut }
func (SetFeedbackOut) Field() Field        { return FieldFeedbackOut }
func (SetPackageGiftOut) Field() Field     { return FieldPackageGiftOut }
func (SetManualOpeningStock) Field() Field { return FieldManualOpeningStock }
func (SetManualCheck) Field() Field        { return FieldManualCheck }
func (SetReCheck) Field() Field            { return FieldReCheck }
func (SetNotes) Field() Field              { return FieldNotes }

func (u SetOpeningStock) apply(e *DailyLogEntry) (Value, Value)   { return setQuantity(&e.OpeningStock, float64(u)) }
func (u SetPurchaseIn) apply(e *DailyLogEntry) (Value, Value)     { return setQuantity(&e.PurchaseIn, float64(u)) }
func (u SetReturnIn) apply(e *DailyLogEntry) (Value, Value)       { return setQuantity(&e.ReturnIn, float64(u)) }
func (u SetSalesOut) apply(e *DailyLogEntry) (Value, Value)       { return setQuantity(&e.SalesOut, float64(u)) }
func (u SetGiftOut) apply(e *DailyLogEntry) (Value, Value)        { return setQuantity(&e.GiftOut, float64(u)) }
func (u SetClaimOut) apply(e *DailyLogEntry) (Value, Value)       { return setQuantity(&e.ClaimOut, float64(u)) }
func (u SetFeedbackOut) apply(e *DailyLogEntry) (Value, Value)    { return setQuantity(&e.FeedbackOut, float64(u)) }
func (u SetPackageGiftOut) apply(e *DailyLogEntry) (Value, Value) { return setQuantity(&e.PackageGiftOut, float64(u)) }

func (u SetManualOpeningStock) apply(e *DailyLogEntry) (Value, Value) {
	return setOptional(&e.ManualOpeningStock, u.Value)
}
func (u SetManualCheck) apply(e *DailyLogEntry) (Value, Value) {
	return setOptional(&e.ManualCheck, u.Value)
}
func (u SetReCheck) apply(e *DailyLogEntry) (Value, Value) { return setOptional(&e.ReCheck, u.Value) }

func (u SetNotes) apply(e *DailyLogEntry) (Value, Value) {
	before := TextValue(e.Notes)
	e.Notes = string(u)
	return before, TextValue(e.Notes)
}

func setQuantity(dst *Quantity, v float64) (Value, Value) {
	before := NumberValue(dst.Float())
	*dst = Quantity(sanitize(v))
	return before, NumberValue(dst.Float())
}

func setOptional(dst **Quantity, v *Quantity) (Value, Value) {
	before := optionalValue(*dst)
	if v != nil {
		v = Q(v.Float())
	}
	*dst = v
	return before, optionalValue(*dst)
}

// OperationTypeFor classifies an update for the audit trail.
func OperationTypeFor(u Update) OperationType {
	switch u.(type) {
	case SetPurchaseIn:
		return OpStockIn
	case SetSalesOut:
		return OpSale
	case SetGiftOut:
		return OpGift
	case SetReturnIn:
		return OpReturn
	case SetPackageGiftOut:
		return OpPackage
	case SetManualCheck:
		return OpCheck
	case SetReCheck:
		return OpReCheck
	case SetClaimOut:
		return OpClaim
	case SetFeedbackOut:
		return OpFeedback
	case SetOpeningStock, SetManualOpeningStock, SetNotes:
		return OpModify
	default:
		return OpModify
	}
}

// =============================================================================
// VALUE - Before/after value of an edited field
// =============================================================================

// Value is a field value as seen by the audit trail: a number, a text, or
// undefined (a cleared optional field).
type Value struct {
	defined bool
	numeric bool
	num     float64
	text    string
}

func NumberValue(v float64) Value { return Value{defined: true, numeric: true, num: v} }
func TextValue(s string) Value    { return Value{defined: true, text: s} }

func optionalValue(q *Quantity) Value {
	v, ok := q.Value()
	if !ok {
		return Value{}
	}
	return NumberValue(v)
}

func (v Value) Defined() bool { return v.defined }
func (v Value) Numeric() bool { return v.numeric }
func (v Value) Number() float64 {
	return v.num
}

func (v Value) Equal(o Value) bool {
	if v.defined != o.defined || v.numeric != o.numeric {
		return false
	}
	if v.numeric {
		return v.num == o.num
	}
	return v.text == o.text
}

func (v Value) String() string {
	switch {
	case !v.defined:
		return "undefined"
	case v.numeric:
		return formatNumber(v.num)
	default:
		return v.text
	}
}

// =============================================================================
// PARSING - Wire form {"field": "...", "value": ...} to an Update
// =============================================================================

// ParseUpdate builds an Update from a field name and its JSON value.
// Numeric fields accept numbers or numeric strings (garbage reads as 0);
// optional count fields accept null to clear; notes must be a string.
func ParseUpdate(field string, raw json.RawMessage) (Update, error) {
	f := Field(field)
	switch f {
	case FieldOpeningStock:
		return SetOpeningStock(coerce(raw)), nil
	case FieldPurchaseIn:
		return SetPurchaseIn(coerce(raw)), nil
	case FieldReturnIn:
		return SetReturnIn(coerce(raw)), nil
	case FieldSalesOut:
		return SetSalesOut(coerce(raw)), nil
	case FieldGiftOut:
		return SetGiftOut(coerce(raw)), nil
	case FieldClaimOut:
		return SetClaimOut(coerce(raw)), nil
	case FieldFeedbackOut:
		return SetFeedbackOut(coerce(raw)), nil
	case FieldPackageGiftOut:
		return SetPackageGiftOut(coerce(raw)), nil
	case FieldManualOpeningStock:
		return SetManualOpeningStock{Value: optionalFromJSON(raw)}, nil
	case FieldManualCheck:
		return SetManualCheck{Value: optionalFromJSON(raw)}, nil
	case FieldReCheck:
		return SetReCheck{Value: optionalFromJSON(raw)}, nil
	case FieldNotes:
		var s string
		if isNull(raw) {
			return SetNotes(""), nil
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &FieldError{Field: f, Reason: "notes must be a string", Err: ErrInvalidValue}
		}
		return SetNotes(s), nil
	default:
		return nil, &FieldError{Field: f, Reason: "not an editable field", Err: ErrUnknownField}
	}
}

func optionalFromJSON(raw json.RawMessage) *Quantity {
	if isNull(raw) {
		return nil
	}
	if s := bytes.TrimSpace(raw); len(s) == 2 && s[0] == '"' && s[1] == '"' {
		return nil
	}
	return Q(coerce(raw))
}

func isNull(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || bytes.Equal(s, []byte("null"))
}
