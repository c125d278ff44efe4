package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestToXLSX(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "results.csv")
	body := "mp_order_id,reconciliation_status,amount_variance\n" +
		"12345678,Matched,0.00\n" +
		"22334455,Missing_in_Warehouse,5.50\n"
	if err := os.WriteFile(csvPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := DeriveOutputPath(csvPath)
	if filepath.Base(outPath) != "results.xlsx" {
		t.Fatalf("derived path = %s", outPath)
	}

	if err := ToXLSX(csvPath, outPath); err != nil {
		t.Fatalf("ToXLSX: %v", err)
	}

	f, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "B1")
	if err != nil || header != "reconciliation_status" {
		t.Fatalf("B1 = %q, %v", header, err)
	}
	// Identifiers stay text, variances become numbers.
	id, _ := f.GetCellValue(sheet, "A2")
	if id != "12345678" {
		t.Fatalf("A2 = %q", id)
	}
	variance, _ := f.GetCellValue(sheet, "C3")
	if variance != "5.5" {
		t.Fatalf("C3 = %q, want numeric 5.5", variance)
	}
}

func TestToXLSXMissingInput(t *testing.T) {
	dir := t.TempDir()
	if err := ToXLSX(filepath.Join(dir, "absent.csv"), filepath.Join(dir, "out.xlsx")); err == nil {
		t.Fatal("expected error for missing input")
	}
}
