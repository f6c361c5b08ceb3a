package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/inventory-ledger/ledger"
	"github.com/warp/inventory-ledger/report"
	"github.com/xuri/excelize/v2"
)

var day = ledger.MustParseDate("2024-06-10")

func sampleHistory(t *testing.T) *ledger.History {
	t.Helper()
	en := ledger.NewEngine()
	data := ledger.AppData{Products: []ledger.Product{
		{ID: "beer", Name: "雪花纯生", Unit: "瓶", Price: 18, Category: "啤酒"},
		{ID: "water", Name: "矿泉水", Unit: "瓶", Price: 6, Category: "饮料"},
		{ID: "cola", Name: "百事可乐", Unit: "瓶", Price: 10, Category: "饮料"},
		{ID: "cards", Name: "扑克牌", Unit: "副", Price: 10.5},
	}}.Normalized()

	set := func(d ledger.Date, id ledger.ProductID, updates ...ledger.Update) {
		for _, u := range updates {
			data, _ = en.ApplyFieldUpdate(data, d, id, u)
		}
	}
	set(day, "beer", ledger.SetOpeningStock(20), ledger.SetSalesOut(12))
	set(day, "water", ledger.SetOpeningStock(30), ledger.SetSalesOut(3))
	set(day, "cola", ledger.SetOpeningStock(4))
	set(day, "cards", ledger.SetOpeningStock(10), ledger.SetSalesOut(2), ledger.SetManualCheck{Value: ledger.Q(7)})
	set(day.AddDays(-2), "water", ledger.SetSalesOut(1))
	set(day.AddDays(-9), "beer", ledger.SetSalesOut(100))
	return ledger.NewHistory(data)
}

func TestSummarize(t *testing.T) {
	// GIVEN: sales on the day and two days earlier
	h := sampleHistory(t)

	// WHEN: the day is summarized
	s := report.Summarize(h, day, report.DefaultLowStockThreshold)

	// THEN: amounts use salesOut x price
	assert.Equal(t, "255", s.TotalSalesAmount.String()) // 12*18 + 3*6 + 2*10.5
	assert.Equal(t, 17.0, s.TotalItemsSold)

	// AND: cola (4) is low but not out of stock
	require.Len(t, s.LowStock, 1)
	assert.Equal(t, ledger.ProductID("cola"), s.LowStock[0].ProductID)
	assert.False(t, s.LowStock[0].OutOfStock)

	// AND: top sellers exclude zero sales, highest first
	require.Len(t, s.TopSellers, 3)
	assert.Equal(t, ledger.ProductID("beer"), s.TopSellers[0].ProductID)
	assert.Equal(t, "216", s.TopSellers[0].Amount.String())

	// AND: uncategorized sales count under the default category
	require.Len(t, s.Categories, 3)
	assert.Equal(t, report.CategorySales{Category: "啤酒", SalesOut: 12}, s.Categories[0])
	assert.Equal(t, report.CategorySales{Category: "饮料", SalesOut: 3}, s.Categories[1])
	assert.Equal(t, report.CategorySales{Category: ledger.DefaultCategory, SalesOut: 2}, s.Categories[2])
}

func TestTrend(t *testing.T) {
	h := sampleHistory(t)
	trend := report.Trend(h, day, report.TrendDays)

	require.Len(t, trend, 7)
	assert.Equal(t, day.AddDays(-6), trend[0].Date)
	assert.Equal(t, day, trend[6].Date)
	assert.Equal(t, "6", trend[4].Amount.String())
	assert.Equal(t, "255", trend[6].Amount.String())
	assert.True(t, trend[0].Amount.IsZero(), "day -9 is outside the window")
}

func TestSummarize_EmptyCatalog(t *testing.T) {
	s := report.Summarize(ledger.NewHistory(ledger.AppData{}.Normalized()), day, 5)
	assert.True(t, s.TotalSalesAmount.IsZero())
	assert.NotNil(t, s.LowStock)
	assert.NotNil(t, s.TopSellers)
	assert.Len(t, s.Trend, 7)
}

func TestExportXLSX(t *testing.T) {
	h := sampleHistory(t)
	raw, err := report.ExportXLSX(day, h.Table(day))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2024-06-10"}, f.GetSheetList())
	rows, err := f.GetRows("2024-06-10")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, report.Columns, rows[0])

	beer := rows[1]
	assert.Equal(t, "雪花纯生", beer[0])
	assert.Equal(t, "20", beer[3])
	assert.Equal(t, "8", beer[11])

	cards := rows[4]
	assert.Equal(t, "7", cards[12])
	assert.Equal(t, "-1", cards[14])
}
