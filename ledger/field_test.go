package ledger_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/inventory-ledger/ledger"
)

// =============================================================================
// FIELD UPDATE PARSING
// =============================================================================

func TestParseUpdate_NumericFields_Coerce(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`5`, 5},
		{`"12"`, 12},
		{`" 2.5 "`, 2.5},
		{`"abc"`, 0},
		{`null`, 0},
		{`""`, 0},
		{`{}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			u, err := ledger.ParseUpdate("salesOut", json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, ledger.SetSalesOut(tc.want), u)
		})
	}
}

func TestParseUpdate_OptionalFields_NullClears(t *testing.T) {
	u, err := ledger.ParseUpdate("manualCheck", json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Equal(t, ledger.SetManualCheck{}, u)

	u, err = ledger.ParseUpdate("reCheck", json.RawMessage(`""`))
	require.NoError(t, err)
	assert.Equal(t, ledger.SetReCheck{}, u)

	u, err = ledger.ParseUpdate("manualOpeningStock", json.RawMessage(`"7"`))
	require.NoError(t, err)
	set, ok := u.(ledger.SetManualOpeningStock)
	require.True(t, ok)
	v, defined := set.Value.Value()
	assert.True(t, defined)
	assert.Equal(t, 7.0, v)
}

func TestParseUpdate_Notes(t *testing.T) {
	u, err := ledger.ParseUpdate("notes", json.RawMessage(`"到货晚"`))
	require.NoError(t, err)
	assert.Equal(t, ledger.SetNotes("到货晚"), u)

	_, err = ledger.ParseUpdate("notes", json.RawMessage(`42`))
	assert.ErrorIs(t, err, ledger.ErrInvalidValue)
	assert.True(t, ledger.IsClientError(err))
}

func TestParseUpdate_UnknownField(t *testing.T) {
	_, err := ledger.ParseUpdate("calculatedStock", json.RawMessage(`1`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrUnknownField)

	var fe *ledger.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ledger.Field("calculatedStock"), fe.Field)
}

// =============================================================================
// QUANTITY DECODING
// =============================================================================

func TestQuantity_TolerantDecoding(t *testing.T) {
	var entry ledger.DailyLogEntry
	err := json.Unmarshal([]byte(`{
		"productId": "p1",
		"openingStock": "10",
		"purchaseIn": null,
		"salesOut": "oops",
		"giftOut": 2,
		"manualCheck": 9,
		"notes": "x"
	}`), &entry)
	require.NoError(t, err)

	assert.Equal(t, 10.0, entry.OpeningStock.Float())
	assert.Zero(t, entry.PurchaseIn.Float())
	assert.Zero(t, entry.SalesOut.Float())
	assert.Equal(t, 2.0, entry.GiftOut.Float())
	assert.Nil(t, entry.ManualOpeningStock)
	assert.Nil(t, entry.ReCheck)
	v, ok := entry.ManualCheck.Value()
	assert.True(t, ok)
	assert.Equal(t, 9.0, v)
}

func TestQuantity_EncodesPlainNumbers(t *testing.T) {
	b, err := json.Marshal(ledger.DailyLogEntry{ProductID: "p1", OpeningStock: 2.5})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"openingStock":2.5`)
	assert.NotContains(t, string(b), "manualCheck")
}

// =============================================================================
// DATES
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := ledger.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.Next().String())
	assert.Equal(t, "2024-02-28", d.Previous().String())

	for _, bad := range []string{"2024-1-5", "2023-02-29", "20240105", "", "2024-01-05T00:00"} {
		_, err := ledger.ParseDate(bad)
		assert.ErrorIs(t, err, ledger.ErrInvalidDate, bad)
	}
}

func TestDate_OrderingIsChronological(t *testing.T) {
	assert.True(t, ledger.MustParseDate("2023-12-31").Before(ledger.MustParseDate("2024-01-01")))
	assert.True(t, ledger.MustParseDate("2024-10-01").After(ledger.MustParseDate("2024-09-30")))
}

// =============================================================================
// CATALOG
// =============================================================================

func TestAddProduct_WithInitialStock(t *testing.T) {
	en := newTestEngine()
	out, p, err := en.AddProduct(newTestData(), ledger.Product{Name: "  百威 ", Unit: "瓶", Price: 20}, 24, jan2)
	require.NoError(t, err)

	assert.Equal(t, "百威", p.Name)
	assert.Equal(t, ledger.DefaultCategory, p.Category)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, out.Products, 3)

	e, ok := out.Entry(jan2, p.ID)
	require.True(t, ok)
	assert.Equal(t, 24.0, e.OpeningStock.Float())
	assert.Equal(t, ledger.InitialStockNote, e.Notes)
	assert.Equal(t, 24.0, ledger.ResolveOpeningStock(out, p.ID, jan3))
}

func TestAddProduct_Rejections(t *testing.T) {
	en := newTestEngine()
	data := newTestData()

	_, _, err := en.AddProduct(data, ledger.Product{Name: " "}, 0, jan1)
	assert.ErrorIs(t, err, ledger.ErrInvalidProduct)

	_, _, err = en.AddProduct(data, ledger.Product{Name: "x", Price: -1}, 0, jan1)
	assert.ErrorIs(t, err, ledger.ErrInvalidProduct)

	_, _, err = en.AddProduct(data, ledger.Product{ID: "p1", Name: "dup"}, 0, jan1)
	assert.ErrorIs(t, err, ledger.ErrDuplicateProduct)

	out, _, err := en.AddProduct(data, ledger.Product{Name: "no stock"}, 0, jan1)
	require.NoError(t, err)
	assert.Empty(t, out.Logs)
}

func TestEditProduct(t *testing.T) {
	data := newTestData()
	out, err := ledger.EditProduct(data, ledger.Product{ID: "p2", Name: "苏打水", Unit: "瓶", Price: 8})
	require.NoError(t, err)
	p, _ := out.Product("p2")
	assert.Equal(t, "苏打水", p.Name)
	assert.Equal(t, ledger.DefaultCategory, p.Category)

	orig, _ := data.Product("p2")
	assert.Equal(t, "矿泉水", orig.Name, "input catalog must not change")

	_, err = ledger.EditProduct(data, ledger.Product{ID: "nope", Name: "x"})
	assert.True(t, ledger.IsNotFound(err))
}

func TestSetCategoryAndMove(t *testing.T) {
	data := newTestData()
	data.Products = append(data.Products, ledger.Product{ID: "p3", Name: "花生", Category: "小吃"})

	out, n := ledger.SetCategory(data, []ledger.ProductID{"p1", "p3", "ghost"}, "特价")
	assert.Equal(t, 2, n)
	p, _ := out.Product("p3")
	assert.Equal(t, "特价", p.Category)

	moved, err := ledger.MoveProduct(out, "p3", 0)
	require.NoError(t, err)
	assert.Equal(t, []ledger.ProductID{"p3", "p1", "p2"}, ids(moved.Products))

	moved, err = ledger.MoveProduct(out, "p1", 99)
	require.NoError(t, err)
	assert.Equal(t, []ledger.ProductID{"p2", "p3", "p1"}, ids(moved.Products))

	_, err = ledger.MoveProduct(out, "ghost", 0)
	assert.ErrorIs(t, err, ledger.ErrProductNotFound)
}

func TestDeleteProducts_KeepsHistory(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(3))

	out, n := ledger.DeleteProducts(data, "p1", "ghost")
	assert.Equal(t, 1, n)
	assert.Equal(t, []ledger.ProductID{"p2"}, ids(out.Products))
	assert.Equal(t, data.Logs, out.Logs)
	assert.Equal(t, data.Operations, out.Operations)
}

func ids(products []ledger.Product) []ledger.ProductID {
	out := make([]ledger.ProductID, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// =============================================================================
// OPERATION LOG QUERIES
// =============================================================================

func TestOperationsForDate(t *testing.T) {
	at := func(day, hour int) int64 {
		return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC).UnixMilli()
	}
	ops := []ledger.OperationLog{
		{ID: "a", Timestamp: at(1, 9), Type: ledger.OpSale},
		{ID: "b", Timestamp: at(2, 8), Type: ledger.OpSale},
		{ID: "c", Timestamp: at(1, 23), Type: ledger.OpGift},
		{ID: "d", Timestamp: at(1, 0), Type: ledger.OpCheck},
	}

	got := ledger.OperationsForDate(ops, jan1, time.UTC)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "d", got[2].ID)

	// 23:00 UTC on Jan 1 is already Jan 2 in Shanghai
	shanghai := time.FixedZone("CST", 8*3600)
	got = ledger.OperationsForDate(ops, jan2, shanghai)
	assert.Len(t, got, 2)

	assert.Empty(t, ledger.OperationsForDate(ops, jan5, time.UTC))
	assert.Equal(t, "a", ops[0].ID, "input order is untouched")
}

func TestOperationType_Label(t *testing.T) {
	assert.Equal(t, "销售", ledger.OpSale.Label())
	assert.Equal(t, "进货", ledger.OpStockIn.Label())
	assert.Equal(t, "初盘", ledger.OpCheck.Label())
}
