package statement

import (
	"path/filepath"
	"strconv"
	"strings"

	"ordercash/internal"
	"ordercash/internal/tabular"
	"ordercash/internal/util"
)

var auditColumns = []string{
	"description", "amount", "reason", "order_id", "outside_vat_scope",
	"source_file", "statement_start", "statement_end", "payment_date",
}

// WriteAudit writes one deduction-detail CSV per statement so every
// classified line item can be traced back to its source PDF. The file sits
// next to the other outputs as "<stem>_DeductionDetails.csv".
func WriteAudit(stmt *internal.Statement, auditDir string) (string, error) {
	stem := strings.TrimSuffix(stmt.SourceFile, filepath.Ext(stmt.SourceFile))
	path := filepath.Join(auditDir, stem+"_DeductionDetails.csv")

	t := tabular.New(auditColumns...)
	for _, item := range stmt.Deductions {
		payment := ""
		if stmt.PaymentDate != nil {
			payment = util.FormatISODate(*stmt.PaymentDate)
		}
		t.AddRow(map[string]string{
			"description":       item.Description,
			"amount":            item.Amount.StringFixed(2),
			"reason":            item.Reason,
			"order_id":          item.OrderID,
			"outside_vat_scope": strconv.FormatBool(item.OutsideVATScope),
			"source_file":       stmt.SourceFile,
			"statement_start":   util.FormatISODate(stmt.Window.Start),
			"statement_end":     util.FormatISODate(stmt.Window.End),
			"payment_date":      payment,
		})
	}

	if err := t.Write(path); err != nil {
		return "", err
	}
	return path, nil
}
