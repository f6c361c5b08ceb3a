package report

import (
	"fmt"

	"github.com/warp/inventory-ledger/ledger"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SPREADSHEET EXPORT
// =============================================================================

// Columns of the exported day sheet, in order.
var Columns = []string{
	"名称", "单位", "单价", "上日库存", "进货", "寄存", "销售", "赠送",
	"寄领", "回馈", "套餐赠送", "计算库存", "初盘", "复盘", "差异", "备注",
}

// ExportFileName is the download name of the export for date.
func ExportFileName(date ledger.Date) string {
	return fmt.Sprintf("库存表_%s.xlsx", date)
}

// ExportXLSX renders rows as a workbook with one sheet named after date.
// Unset counts are left blank.
func ExportXLSX(date ledger.Date, rows []ledger.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(date)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range Columns {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for i, r := range rows {
		values := []any{
			r.Name,
			r.Unit,
			r.Price.Float(),
			r.EffectiveOpening(),
			r.PurchaseIn.Float(),
			r.ReturnIn.Float(),
			r.SalesOut.Float(),
			r.GiftOut.Float(),
			r.ClaimOut.Float(),
			r.FeedbackOut.Float(),
			r.PackageGiftOut.Float(),
			r.CalculatedStock,
			optional(r.ManualCheck),
			optional(r.ReCheck),
			discrepancy(r),
			r.Notes,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", lastCol, 10)
	_ = f.SetColWidth(sheet, lastCol, lastCol, 28)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optional(q *ledger.Quantity) any {
	if v, ok := q.Value(); ok {
		return v
	}
	return ""
}

func discrepancy(r ledger.Row) any {
	if r.ManualCheck == nil {
		return ""
	}
	return r.Discrepancy
}
