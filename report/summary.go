/*
Package report derives read-only analytics from a ledger snapshot.

PURPOSE:
  Everything here is computed from the same table view the shop staff see,
  so a summary never disagrees with the table for the same date.

CONTENTS:
  summary.go: Daily sales summary and 7-day trend
  xlsx.go:    Spreadsheet export of a day's table

MONEY:
  Sales amounts are salesOut x price, accumulated with shopspring/decimal and
  rounded to cents. Quantities stay float64.
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/inventory-ledger/ledger"
)

// DefaultLowStockThreshold is the calculated stock at or below which a
// product is reported as low.
const DefaultLowStockThreshold = 5

// TrendDays is the length of the sales trend, ending at the summary date.
const TrendDays = 7

// TopSellersLimit caps Summary.TopSellers.
const TopSellersLimit = 5

// =============================================================================
// SUMMARY TYPES
// =============================================================================

// Summary is the analytics view of one day.
type Summary struct {
	Date             ledger.Date     `json:"date"`
	TotalSalesAmount decimal.Decimal `json:"totalSalesAmount"`
	TotalItemsSold   float64         `json:"totalItemsSold"`
	LowStock         []StockLevel    `json:"lowStock"`
	TopSellers       []ProductSales  `json:"topSellers"`
	Categories       []CategorySales `json:"categories"`
	Trend            []DailySales    `json:"trend"`
}

// StockLevel is a product whose calculated stock is at or below the threshold.
type StockLevel struct {
	ProductID       ledger.ProductID `json:"productId"`
	Name            string           `json:"name"`
	Unit            string           `json:"unit"`
	CalculatedStock float64          `json:"calculatedStock"`
	OutOfStock      bool             `json:"outOfStock"`
}

// ProductSales is one product's sales on the day.
type ProductSales struct {
	ProductID ledger.ProductID `json:"productId"`
	Name      string           `json:"name"`
	SalesOut  float64          `json:"salesOut"`
	Amount    decimal.Decimal  `json:"amount"`
}

// CategorySales is the number of items sold in a category.
type CategorySales struct {
	Category string  `json:"category"`
	SalesOut float64 `json:"salesOut"`
}

// DailySales is the sales amount of one day of the trend.
type DailySales struct {
	Date   ledger.Date     `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Summarize builds the summary of date from h's snapshot.
func Summarize(h *ledger.History, date ledger.Date, lowStockThreshold float64) Summary {
	rows := h.Table(date)
	s := Summary{
		Date:             date,
		TotalSalesAmount: SalesAmount(rows),
		LowStock:         []StockLevel{},
		TopSellers:       []ProductSales{},
		Categories:       []CategorySales{},
	}

	byCategory := map[string]float64{}
	for _, r := range rows {
		sold := r.SalesOut.Float()
		s.TotalItemsSold += sold
		byCategory[r.CategoryOrDefault()] += sold

		if r.CalculatedStock <= lowStockThreshold {
			s.LowStock = append(s.LowStock, StockLevel{
				ProductID:       r.ID,
				Name:            r.Name,
				Unit:            r.Unit,
				CalculatedStock: r.CalculatedStock,
				OutOfStock:      r.CalculatedStock <= 0,
			})
		}
		if sold > 0 {
			s.TopSellers = append(s.TopSellers, ProductSales{
				ProductID: r.ID,
				Name:      r.Name,
				SalesOut:  sold,
				Amount:    rowAmount(r),
			})
		}
	}

	sort.SliceStable(s.TopSellers, func(i, j int) bool {
		return s.TopSellers[i].SalesOut > s.TopSellers[j].SalesOut
	})
	if len(s.TopSellers) > TopSellersLimit {
		s.TopSellers = s.TopSellers[:TopSellersLimit]
	}

	for cat, sold := range byCategory {
		if sold > 0 {
			s.Categories = append(s.Categories, CategorySales{Category: cat, SalesOut: sold})
		}
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].SalesOut != s.Categories[j].SalesOut {
			return s.Categories[i].SalesOut > s.Categories[j].SalesOut
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	s.Trend = Trend(h, date, TrendDays)
	return s
}

// Trend returns the sales amount of the n days ending at date, oldest first.
func Trend(h *ledger.History, date ledger.Date, n int) []DailySales {
	out := make([]DailySales, n)
	d := date
	for i := n - 1; i >= 0; i-- {
		out[i] = DailySales{Date: d, Amount: SalesAmount(h.Table(d))}
		d = d.Previous()
	}
	return out
}

// SalesAmount is the sum of salesOut x price over rows, rounded to cents.
func SalesAmount(rows []ledger.Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(rowAmount(r))
	}
	return total.Round(2)
}

func rowAmount(r ledger.Row) decimal.Decimal {
	return decimal.NewFromFloat(r.SalesOut.Float()).Mul(decimal.NewFromFloat(r.Price.Float()))
}
