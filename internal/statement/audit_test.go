package statement

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"ordercash/internal"
	"ordercash/internal/tabular"
)

func TestWriteAudit(t *testing.T) {
	payment := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	stmt := &internal.Statement{
		SourceFile: "25.08.04 Statement.pdf",
		Window: internal.StatementWindow{
			Start: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		},
		PaymentDate: &payment,
		Deductions: []internal.DeductionLineItem{
			{
				Description:     "Customer compensation for missing items query 22334455 Outside the scope of VAT",
				Amount:          mustDecimal(t, "5.00"),
				Reason:          "missing items",
				OrderID:         "22334455",
				OutsideVATScope: true,
			},
			{
				Description: "Commission charges",
				Amount:      mustDecimal(t, "100.00"),
			},
		},
	}

	dir := t.TempDir()
	path, err := WriteAudit(stmt, dir)
	if err != nil {
		t.Fatalf("WriteAudit: %v", err)
	}
	if filepath.Base(path) != "25.08.04 Statement_DeductionDetails.csv" {
		t.Fatalf("audit name = %s", filepath.Base(path))
	}

	audit, err := tabular.Read(path)
	if err != nil {
		t.Fatalf("read audit: %v", err)
	}
	if !reflect.DeepEqual(audit.Headers, auditColumns) {
		t.Fatalf("headers = %v, want %v", audit.Headers, auditColumns)
	}
	if len(audit.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(audit.Rows))
	}

	refund := audit.Rows[0]
	if refund["reason"] != "missing items" || refund["order_id"] != "22334455" {
		t.Fatalf("refund row = %v", refund)
	}
	if refund["amount"] != "5.00" || refund["outside_vat_scope"] != "true" {
		t.Fatalf("refund row = %v", refund)
	}
	if refund["statement_start"] != "2025-08-04" || refund["payment_date"] != "2025-08-15" {
		t.Fatalf("refund row metadata = %v", refund)
	}

	commission := audit.Rows[1]
	if commission["outside_vat_scope"] != "false" || commission["reason"] != "" {
		t.Fatalf("commission row = %v", commission)
	}
}

func TestWriteAuditEmptyDeductions(t *testing.T) {
	stmt := &internal.Statement{
		SourceFile: "s.pdf",
		Window: internal.StatementWindow{
			Start: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	dir := t.TempDir()
	path, err := WriteAudit(stmt, dir)
	if err != nil {
		t.Fatalf("WriteAudit: %v", err)
	}
	audit, err := tabular.Read(path)
	if err != nil {
		t.Fatalf("read audit: %v", err)
	}
	if len(audit.Rows) != 0 {
		t.Fatalf("got %d rows, want header-only file", len(audit.Rows))
	}
}
