package reconcile

import (
	"fmt"
	"strings"

	"ordercash/internal"
	"ordercash/internal/tabular"
)

// Summary aggregates a reconciliation output for reporting.
type Summary struct {
	Total              int
	Matched            int
	MissingInWarehouse int
	MissingFromStmt    int
	Accrual            int
	NonOrder           int
	AmountMismatches   int
}

// Summarize counts statuses in a written reconciliation file.
func Summarize(path string) (Summary, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return Summary{}, err
	}
	return summarizeTable(t), nil
}

func summarizeTable(t *tabular.Table) Summary {
	s := Summary{Total: len(t.Rows)}
	for _, row := range t.Rows {
		switch internal.ReconStatus(row[statusColumn]) {
		case internal.StatusMatched:
			s.Matched++
		case internal.StatusMissingInWarehouse:
			s.MissingInWarehouse++
		case internal.StatusMissingFromStmt:
			s.MissingFromStmt++
		case internal.StatusAccrual:
			s.Accrual++
		case internal.StatusNonOrder:
			s.NonOrder++
		}
		if row[flagColumn] == string(internal.AmountNotMatched) {
			s.AmountMismatches++
		}
	}
	return s
}

// HumanSummary renders the counts for terminal output.
func (s Summary) HumanSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows reconciled\n", s.Total)
	fmt.Fprintf(&b, "  matched:                %d\n", s.Matched)
	fmt.Fprintf(&b, "  missing in warehouse:   %d\n", s.MissingInWarehouse)
	fmt.Fprintf(&b, "  missing from statement: %d\n", s.MissingFromStmt)
	fmt.Fprintf(&b, "  accrual:                %d\n", s.Accrual)
	fmt.Fprintf(&b, "  non-order:              %d\n", s.NonOrder)
	if s.AmountMismatches > 0 {
		fmt.Fprintf(&b, "  amount mismatches:      %d\n", s.AmountMismatches)
	}
	return b.String()
}
