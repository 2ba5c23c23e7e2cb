// Package report renders account summaries into XLSX workbooks.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"paper-trader/cache"
)

const sheetName = "Account"

// AccountXLSX builds a one-sheet workbook with the user's currency
// balances and stock holdings and returns the file bytes.
func AccountXLSX(summary cache.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	f.SetCellValue(sheetName, "A1", "Balances")
	f.SetCellStyle(sheetName, "A1", "A1", header)
	f.SetCellValue(sheetName, "A2", "Currency")
	f.SetCellValue(sheetName, "B2", "Amount")

	row := 3
	for _, line := range summary.Currencies {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.Sign)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.Amount.InexactFloat64())
		row++
	}

	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Holdings")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), header)
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Ticker")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "Amount")
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), "Avg buy cost")
	row++

	for _, line := range summary.Stocks {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.Ticker)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), line.Avg.InexactFloat64())
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
