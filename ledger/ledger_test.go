package ledger_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/inventory-ledger/ledger"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	jan1 = ledger.MustParseDate("2024-01-01")
	jan2 = ledger.MustParseDate("2024-01-02")
	jan3 = ledger.MustParseDate("2024-01-03")
	jan5 = ledger.MustParseDate("2024-01-05")
)

func newTestEngine() *ledger.Engine {
	n := 0
	clock := time.Date(2024, time.January, 2, 12, 0, 0, 0, time.UTC)
	return &ledger.Engine{
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("op-%d", n)
		},
	}
}

func newTestData() ledger.AppData {
	return ledger.AppData{
		Products: []ledger.Product{
			{ID: "p1", Name: "雪花纯生", Unit: "瓶", Price: 18, Category: "啤酒"},
			{ID: "p2", Name: "矿泉水", Unit: "瓶", Price: 6, Category: "饮料"},
		},
	}.Normalized()
}

func nanValue() float64 { return math.NaN() }

func apply(t *testing.T, en *ledger.Engine, data ledger.AppData, date ledger.Date, id ledger.ProductID, updates ...ledger.Update) ledger.AppData {
	t.Helper()
	for _, u := range updates {
		data, _ = en.ApplyFieldUpdate(data, date, id, u)
	}
	return data
}

func rowFor(t *testing.T, data ledger.AppData, date ledger.Date, id ledger.ProductID) ledger.Row {
	t.Helper()
	row, ok := ledger.NewHistory(data).Row(id, date)
	require.True(t, ok, "product %s should be in the catalog", id)
	return row
}

// =============================================================================
// END-TO-END SCENARIO
// =============================================================================

func TestLedger_ReconciliationScenario(t *testing.T) {
	// GIVEN: Product p1 with no history
	en := newTestEngine()
	data := newTestData()

	// WHEN: Jan 1 purchaseIn=10, salesOut=3
	data = apply(t, en, data, jan1, "p1", ledger.SetPurchaseIn(10), ledger.SetSalesOut(3))

	// THEN: calculated stock is 7 from an opening of 0
	row := rowFor(t, data, jan1, "p1")
	assert.Equal(t, 0.0, row.OpeningStock.Float())
	assert.Equal(t, 7.0, row.CalculatedStock)

	// AND: Jan 2 opens at 7 without any explicit log
	assert.Equal(t, 7.0, ledger.ResolveOpeningStock(data, "p1", jan2))

	// WHEN: Jan 2 purchaseIn=5, salesOut=2
	data = apply(t, en, data, jan2, "p1", ledger.SetPurchaseIn(5), ledger.SetSalesOut(2))
	assert.Equal(t, 10.0, rowFor(t, data, jan2, "p1").CalculatedStock)

	// WHEN: a physical count of 9 is entered on Jan 2
	data = apply(t, en, data, jan2, "p1", ledger.SetManualCheck{Value: ledger.Q(9)})
	assert.Equal(t, -1.0, rowFor(t, data, jan2, "p1").Discrepancy)

	// THEN: Jan 3 opens at the count, not at the calculated 10
	assert.Equal(t, 9.0, ledger.ResolveOpeningStock(data, "p1", jan3))
}

// =============================================================================
// OPENING-STOCK RESOLVER
// =============================================================================

func TestResolve_NoHistory_IsZero(t *testing.T) {
	assert.Equal(t, 0.0, ledger.ResolveOpeningStock(newTestData(), "p1", jan1))
	assert.Equal(t, 0.0, ledger.ResolveOpeningStock(ledger.AppData{}, "missing", jan1))
}

func TestResolve_ManualOpeningStock_HasPriority(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(10))
	data = apply(t, en, data, jan2, "p1",
		ledger.SetOpeningStock(4),
		ledger.SetManualOpeningStock{Value: ledger.Q(20)},
	)

	opening := ledger.ResolveOpening(data, "p1", jan2)
	assert.Equal(t, 20.0, opening.Stock)
	assert.True(t, opening.Manual)

	row := rowFor(t, data, jan2, "p1")
	assert.True(t, row.IsManualOpening)
	assert.Equal(t, 20.0, row.CalculatedStock)
}

func TestResolve_StoredOpeningStock_NotRecomputed(t *testing.T) {
	// GIVEN: Jan 2 entry created while Jan 1 closed at 10
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(10))
	data = apply(t, en, data, jan2, "p1", ledger.SetSalesOut(1))
	require.Equal(t, 10.0, ledger.ResolveOpeningStock(data, "p1", jan2))

	// WHEN: Jan 1 is corrected afterwards
	data = apply(t, en, data, jan1, "p1", ledger.SetPurchaseIn(50))

	// THEN: Jan 2 keeps its stored opening (no forward cascade)
	assert.Equal(t, 10.0, ledger.ResolveOpeningStock(data, "p1", jan2))
}

func TestResolve_UsesMostRecentPriorDay_AcrossGaps(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(10))
	data = apply(t, en, data, jan3, "p1", ledger.SetSalesOut(4))

	// Jan 3 opened at Jan 1's closing; Jan 5 follows Jan 3, not Jan 1
	assert.Equal(t, 10.0, ledger.ResolveOpeningStock(data, "p1", jan3))
	assert.Equal(t, 6.0, ledger.ResolveOpeningStock(data, "p1", jan5))
	// Days before any history stay at 0
	assert.Equal(t, 0.0, ledger.ResolveOpeningStock(data, "p1", ledger.MustParseDate("2023-12-31")))
}

func TestResolve_PriorDayUsesItsManualOpening(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1",
		ledger.SetPurchaseIn(2),
		ledger.SetManualOpeningStock{Value: ledger.Q(30)},
	)
	assert.Equal(t, 32.0, ledger.ResolveOpeningStock(data, "p1", jan2))
}

func TestResolve_ChainProperty_AllOutflowFields(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1",
		ledger.SetOpeningStock(100),
		ledger.SetPurchaseIn(10), ledger.SetReturnIn(5),
		ledger.SetSalesOut(7), ledger.SetGiftOut(1), ledger.SetClaimOut(2),
		ledger.SetFeedbackOut(3), ledger.SetPackageGiftOut(4),
	)
	calc := rowFor(t, data, jan1, "p1").CalculatedStock
	assert.Equal(t, 98.0, calc)
	assert.Equal(t, calc, ledger.ResolveOpeningStock(data, "p1", jan2))
}

func TestResolve_Idempotent(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(3))
	first := ledger.ResolveOpeningStock(data, "p1", jan5)
	second := ledger.ResolveOpeningStock(data, "p1", jan5)
	assert.Equal(t, first, second)
}

func TestHistory_AgreesWithResolver(t *testing.T) {
	en := newTestEngine()
	data := newTestData()
	data = apply(t, en, data, jan1, "p1", ledger.SetPurchaseIn(10), ledger.SetSalesOut(3))
	data = apply(t, en, data, jan2, "p1", ledger.SetManualCheck{Value: ledger.Q(5)})
	data = apply(t, en, data, jan3, "p2", ledger.SetManualOpeningStock{Value: ledger.Q(8)})
	data = apply(t, en, data, jan5, "p2", ledger.SetGiftOut(1))

	h := ledger.NewHistory(data)
	start := ledger.MustParseDate("2023-12-30")
	for d := start; d <= ledger.MustParseDate("2024-01-07"); d = d.Next() {
		for _, id := range []ledger.ProductID{"p1", "p2", "ghost"} {
			assert.Equal(t, ledger.ResolveOpening(data, id, d), h.Opening(id, d), "product %s on %s", id, d)
		}
	}
	assert.Equal(t, []ledger.Date{jan1, jan2}, h.Dates("p1"))
}

// =============================================================================
// STOCK CALCULATOR
// =============================================================================

func TestComputeRow_Formula(t *testing.T) {
	entry := ledger.DailyLogEntry{
		OpeningStock: 20, PurchaseIn: 5, ReturnIn: 1,
		SalesOut: 6, GiftOut: 1, ClaimOut: 1, FeedbackOut: 1, PackageGiftOut: 2,
	}
	got := ledger.ComputeRow(entry)
	assert.Equal(t, 15.0, got.CalculatedStock)
	assert.Zero(t, got.Discrepancy, "no manual check means no discrepancy")
}

func TestComputeRow_Discrepancy_SignedAgainstCount(t *testing.T) {
	entry := ledger.DailyLogEntry{OpeningStock: 10, ManualCheck: ledger.Q(12), ReCheck: ledger.Q(9)}
	got := ledger.ComputeRow(entry)
	assert.Equal(t, 2.0, got.Discrepancy, "surplus is positive")
	assert.Equal(t, -1.0, got.ReCheckDiscrepancy, "shrinkage is negative")
}

func TestComputeRow_NaNNeverPropagates(t *testing.T) {
	nan := ledger.Quantity(nanValue())
	entry := ledger.DailyLogEntry{OpeningStock: nan, PurchaseIn: 4, SalesOut: nan, ManualCheck: &nan}
	got := ledger.ComputeRow(entry)
	assert.Equal(t, 4.0, got.CalculatedStock)
	assert.Equal(t, -4.0, got.Discrepancy)
}

// =============================================================================
// LEDGER MUTATION SERVICE
// =============================================================================

func TestApplyFieldUpdate_AuditRecord(t *testing.T) {
	// GIVEN: salesOut of p1 is 0 on Jan 1
	en := newTestEngine()
	data := newTestData()

	// WHEN: it is changed to 5
	out, res := en.ApplyFieldUpdate(data, jan1, "p1", ledger.SetSalesOut(5))

	// THEN: exactly one SALE record is prepended
	require.NotNil(t, res.Operation)
	require.Len(t, out.Operations, 1)
	op := out.Operations[0]
	assert.Equal(t, ledger.OpSale, op.Type)
	assert.Equal(t, "雪花纯生", op.ProductName)
	assert.Equal(t, "从 0 修改为 5", op.Detail)
	require.NotNil(t, op.Delta)
	assert.Equal(t, 5.0, *op.Delta)
	assert.True(t, res.Created)

	// AND: the next change is prepended with the signed delta
	out, _ = en.ApplyFieldUpdate(out, jan1, "p1", ledger.SetSalesOut(2))
	require.Len(t, out.Operations, 2)
	assert.Equal(t, -3.0, *out.Operations[0].Delta)
	assert.Equal(t, "op-2", out.Operations[0].ID)
}

func TestApplyFieldUpdate_NoOp_WritesNoAudit(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetSalesOut(5))
	before := len(data.Operations)

	out, res := en.ApplyFieldUpdate(data, jan1, "p1", ledger.SetSalesOut(5))
	assert.Nil(t, res.Operation)
	assert.Len(t, out.Operations, before)
}

func TestApplyFieldUpdate_TypeClassification(t *testing.T) {
	cases := []struct {
		update ledger.Update
		want   ledger.OperationType
	}{
		{ledger.SetPurchaseIn(1), ledger.OpStockIn},
		{ledger.SetSalesOut(1), ledger.OpSale},
		{ledger.SetGiftOut(1), ledger.OpGift},
		{ledger.SetReturnIn(1), ledger.OpReturn},
		{ledger.SetPackageGiftOut(1), ledger.OpPackage},
		{ledger.SetClaimOut(1), ledger.OpClaim},
		{ledger.SetFeedbackOut(1), ledger.OpFeedback},
		{ledger.SetOpeningStock(1), ledger.OpModify},
		{ledger.SetNotes("x"), ledger.OpModify},
	}
	for _, tc := range cases {
		t.Run(string(tc.update.Field()), func(t *testing.T) {
			en := newTestEngine()
			out, res := en.ApplyFieldUpdate(newTestData(), jan1, "p1", tc.update)
			require.NotNil(t, res.Operation)
			assert.Equal(t, tc.want, out.Operations[0].Type)
		})
	}
}

func TestApplyFieldUpdate_Checks_AuditedOnlyWhenBothDefined(t *testing.T) {
	en := newTestEngine()
	data := newTestData()

	// first count: previous value undefined, field written without a record
	data, res := en.ApplyFieldUpdate(data, jan1, "p1", ledger.SetManualCheck{Value: ledger.Q(4)})
	assert.Nil(t, res.Operation)
	e, _ := data.Entry(jan1, "p1")
	v, ok := e.ManualCheck.Value()
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	// recount: CHECK record with delta
	data, res = en.ApplyFieldUpdate(data, jan1, "p1", ledger.SetManualCheck{Value: ledger.Q(6)})
	require.NotNil(t, res.Operation)
	assert.Equal(t, ledger.OpCheck, res.Operation.Type)
	assert.Equal(t, 2.0, *res.Operation.Delta)

	data, _ = en.ApplyFieldUpdate(data, jan1, "p1", ledger.SetReCheck{Value: ledger.Q(1)})
	_, res = en.ApplyFieldUpdate(data, jan1, "p1", ledger.SetReCheck{Value: ledger.Q(2)})
	assert.Equal(t, ledger.OpReCheck, res.Operation.Type)

	// clearing: no record
	_, res = en.ApplyFieldUpdate(data, jan1, "p1", ledger.SetManualCheck{})
	assert.Nil(t, res.Operation)
}

func TestApplyFieldUpdate_Notes_NoDelta(t *testing.T) {
	en := newTestEngine()
	_, res := en.ApplyFieldUpdate(newTestData(), jan1, "p1", ledger.SetNotes("破损 2 瓶"))
	require.NotNil(t, res.Operation)
	assert.Nil(t, res.Operation.Delta)
	assert.Equal(t, "从  修改为 破损 2 瓶", res.Operation.Detail)
}

func TestApplyFieldUpdate_UnknownProduct_WritesLogWithoutAudit(t *testing.T) {
	en := newTestEngine()
	out, res := en.ApplyFieldUpdate(newTestData(), jan1, "ghost", ledger.SetSalesOut(3))

	assert.Nil(t, res.Operation)
	assert.Empty(t, out.Operations)
	e, ok := out.Entry(jan1, "ghost")
	require.True(t, ok)
	assert.Equal(t, 3.0, e.SalesOut.Float())
}

func TestApplyFieldUpdate_CreatesEntryAtResolvedOpening(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(12))

	_, res := en.ApplyFieldUpdate(data, jan2, "p1", ledger.SetSalesOut(1))
	assert.True(t, res.Created)
	assert.Equal(t, 12.0, res.Entry.OpeningStock.Float())
	assert.Equal(t, ledger.ProductID("p1"), res.Entry.ProductID)
}

func TestApplyFieldUpdate_DoesNotMutateInputOrOtherDays(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(10))
	data = apply(t, en, data, jan1, "p2", ledger.SetManualCheck{Value: ledger.Q(1)})
	snapshot := data.Clone()

	out, _ := en.ApplyFieldUpdate(data, jan2, "p1", ledger.SetSalesOut(4))
	out, _ = en.ApplyFieldUpdate(out, jan1, "p2", ledger.SetManualCheck{Value: ledger.Q(3)})

	assert.Equal(t, snapshot, data, "input snapshot must not change")
	e, _ := out.Entry(jan1, "p1")
	assert.Equal(t, 10.0, e.PurchaseIn.Float())
	assert.Len(t, out.Logs, 2)
}

func TestOverrideStock_ShiftsOpening(t *testing.T) {
	// GIVEN: Jan 1 opening 0, purchase 10, sale 3 (calculated 7)
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(10), ledger.SetSalesOut(3))

	// WHEN: the manager says there are really 12
	out, res, err := en.OverrideStock(data, "p1", jan1, 12)
	require.NoError(t, err)

	// THEN: opening moves by +5 and movements are untouched
	row := rowFor(t, out, jan1, "p1")
	assert.Equal(t, 5.0, row.OpeningStock.Float())
	assert.Equal(t, 12.0, row.CalculatedStock)
	assert.Equal(t, 10.0, row.PurchaseIn.Float())
	require.NotNil(t, res.Operation)
	assert.Equal(t, ledger.OpModify, res.Operation.Type)
	assert.Equal(t, 5.0, *res.Operation.Delta)
}

func TestOverrideStock_ManualOpeningRow(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1",
		ledger.SetManualOpeningStock{Value: ledger.Q(10)}, ledger.SetSalesOut(2))

	out, _, err := en.OverrideStock(data, "p1", jan1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, rowFor(t, out, jan1, "p1").CalculatedStock)
}

func TestOverrideStock_UnknownProduct(t *testing.T) {
	en := newTestEngine()
	_, _, err := en.OverrideStock(newTestData(), "ghost", jan1, 3)
	assert.ErrorIs(t, err, ledger.ErrProductNotFound)
	assert.True(t, ledger.IsNotFound(err))
}

// =============================================================================
// TABLE VIEW
// =============================================================================

func TestTable_OrphanedEntriesExcluded(t *testing.T) {
	en := newTestEngine()
	data := apply(t, en, newTestData(), jan1, "p1", ledger.SetPurchaseIn(5))
	data = apply(t, en, data, jan1, "p2", ledger.SetPurchaseIn(1))
	data, _ = ledger.DeleteProducts(data, "p1")

	var rows []ledger.Row
	assert.NotPanics(t, func() { rows = ledger.TableForDate(data, jan2) })
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.ProductID("p2"), rows[0].ID)

	// raw history is preserved
	_, ok := data.Entry(jan1, "p1")
	assert.True(t, ok)
}

func TestFilterRows(t *testing.T) {
	rows := ledger.TableForDate(newTestData(), jan1)
	assert.Len(t, ledger.FilterRows(rows, ""), 2)
	assert.Len(t, ledger.FilterRows(rows, "啤酒"), 1)
	assert.Len(t, ledger.FilterRows(rows, " 矿泉 "), 1)
	assert.Empty(t, ledger.FilterRows(rows, "wine"))
}
