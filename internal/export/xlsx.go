package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ordercash/internal/tabular"
)

// ToXLSX converts a pipeline CSV output into a workbook for the finance
// team. Numeric cells are written as numbers so spreadsheet formulas work on
// them; everything else stays text.
func ToXLSX(csvPath, outputPath string) error {
	t, err := tabular.Read(csvPath)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for ri, row := range t.Rows {
		r := ri + 2
		for ci, h := range t.Headers {
			cell, _ := excelize.CoordinatesToCellName(ci+1, r)
			_ = f.SetCellValue(sheet, cell, cellValue(row[h]))
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// DeriveOutputPath swaps a csv extension for xlsx.
func DeriveOutputPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"
}

func cellValue(raw string) any {
	if raw == "" {
		return ""
	}
	// Identifiers keep leading zeros only as text; amounts carry a decimal
	// point, so restrict numeric conversion to those.
	if !strings.Contains(raw, ".") {
		return raw
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	v, _ := d.Float64()
	return v
}
