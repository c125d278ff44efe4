package reconcile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ordercash/internal"
	"ordercash/internal/config"
	"ordercash/internal/tabular"
	"ordercash/internal/util"
	"ordercash/internal/warehouse"
)

// Boundaries are the two windows a reconciliation run spans: the accounting
// period being closed and the statement weeks covering it.
type Boundaries struct {
	AccPeriod  util.Window
	StmtPeriod util.Window
}

// AutoEnd extends the last statement week by six days: orders placed up to
// then would have appeared on the next statement had it been issued, so
// their absence is a real discrepancy rather than a timing artifact.
func (b Boundaries) AutoEnd() time.Time {
	return b.StmtPeriod.End.AddDate(0, 0, 6)
}

var (
	statusColumn   = "reconciliation_status"
	flagColumn     = "matched_amount_flag"
	varianceColumn = "amount_variance"
)

var ledgerNamePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2}) - (\d{2})\.(\d{2})\.(\d{2}) - Order Level Detail\.csv$`)

// FindLedgerFile locates the consolidated statement ledger whose filename
// window overlaps the statement period.
func FindLedgerFile(outputDir string, stmtPeriod util.Window) (string, error) {
	matches, err := filepath.Glob(filepath.Join(outputDir, "* - * - Order Level Detail.csv"))
	if err != nil {
		return "", err
	}
	for _, path := range matches {
		m := ledgerNamePattern.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		first, err1 := util.ParseFileDate(m[1], m[2], m[3])
		last, err2 := util.ParseFileDate(m[4], m[5], m[6])
		if err1 != nil || err2 != nil {
			continue
		}
		// The last token is a week start; the ledger covers through its Sunday.
		covered := util.Window{Start: first, End: last.AddDate(0, 0, 6)}
		if covered.Overlaps(stmtPeriod) {
			return path, nil
		}
	}
	return "", &internal.NotFoundError{
		What: "statement ledger for requested period",
		Hint: "run the statement processing step first",
	}
}

// Reconciler joins the statement ledger against the combined warehouse file
// and classifies every order for a period.
type Reconciler struct {
	cfg config.Config
	log zerolog.Logger
}

func New(cfg config.Config, log zerolog.Logger) *Reconciler {
	return &Reconciler{cfg: cfg, log: log}
}

// Run reconciles the period and writes the result CSV, returning its path.
// Missing inputs surface as NotFoundError; any other failure is logged in
// full and reported as a period-alignment error. Nothing is written unless
// the whole run succeeds.
func (r *Reconciler) Run(b Boundaries) (string, error) {
	path, err := r.run(b)
	if err != nil {
		var notFound *internal.NotFoundError
		if errors.As(err, &notFound) {
			return "", err
		}
		r.log.Error().Err(err).Msg("reconciliation failed")
		return "", fmt.Errorf("reconciliation could not align the requested periods (%s to %s); see log for the underlying failure",
			util.FormatISODate(b.StmtPeriod.Start), util.FormatISODate(b.StmtPeriod.End))
	}
	return path, nil
}

func (r *Reconciler) run(b Boundaries) (string, error) {
	ledgerPath, err := FindLedgerFile(r.cfg.OutputDir, b.StmtPeriod)
	if err != nil {
		return "", err
	}
	ledger, err := tabular.Read(ledgerPath)
	if err != nil {
		return "", err
	}

	warehousePath := r.cfg.WarehouseCombinedPath()
	records, warehouseHeaders, err := warehouse.Load(warehousePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &internal.NotFoundError{
				What: "combined warehouse file",
				Hint: "run the warehouse combine step first",
			}
		}
		return "", err
	}
	idx := warehouse.BuildIndex(records)

	out := tabular.New(ledger.Headers...)
	for _, h := range warehouseHeaders {
		out.EnsureColumn(h)
	}
	out.EnsureColumn(statusColumn)
	out.EnsureColumn(flagColumn)
	out.EnsureColumn(varianceColumn)

	ledgerOrderIDs := map[string]struct{}{}
	for _, row := range ledger.Rows {
		id := util.CleanOrderID(row["mp_order_id"])
		if id != "" {
			ledgerOrderIDs[id] = struct{}{}
		}
		out.AddRow(r.classifyLedgerRow(row, idx))
	}

	injected := r.injectWarehouseRows(out, idx, b, ledgerOrderIDs)

	out.SortBy(func(a, b map[string]string) bool {
		if a["mp_order_id"] != b["mp_order_id"] {
			return a["mp_order_id"] < b["mp_order_id"]
		}
		if a["transaction_type"] != b["transaction_type"] {
			return a["transaction_type"] < b["transaction_type"]
		}
		return a["gp_order_id"] < b["gp_order_id"]
	})

	name := fmt.Sprintf("%s - %s - Reconciliation Results.csv",
		util.FormatFileDate(b.StmtPeriod.Start), util.FormatFileDate(b.StmtPeriod.End))
	outPath := filepath.Join(r.cfg.OutputDir, name)
	if err := out.Write(outPath); err != nil {
		return "", err
	}

	r.log.Info().
		Int("ledger_rows", len(ledger.Rows)).
		Int("injected_rows", injected).
		Str("path", outPath).
		Msg("reconciliation written")
	return outPath, nil
}

// classifyLedgerRow assigns a status and amount comparison to one statement
// ledger row. Commission and Marketing aggregates never join the warehouse;
// anything a glob of identifiers happened to match is dropped.
func (r *Reconciler) classifyLedgerRow(row map[string]string, idx *warehouse.Index) map[string]string {
	out := make(map[string]string, len(row)+8)
	for k, v := range row {
		out[k] = v
	}
	out[flagColumn] = string(internal.AmountIgnore)
	out[varianceColumn] = "0.00"

	txType := internal.TransactionType(row["transaction_type"])
	if txType == internal.TypeCommission || txType == internal.TypeMarketing {
		out[statusColumn] = string(internal.StatusNonOrder)
		return out
	}

	rec, ok := idx.Lookup(row["mp_order_id"])
	if !ok {
		out[statusColumn] = string(internal.StatusMissingInWarehouse)
		return out
	}

	out[statusColumn] = string(internal.StatusMatched)
	for k, v := range rec {
		if k == "mp_order_id" {
			continue
		}
		out[k] = v
	}

	if txType != internal.TypeOrder {
		return out
	}

	stmtTotal, okStmt := decimalFrom(row["mp_total"])
	whTotal, okWh := rec.Total()
	if !okStmt || !okWh {
		return out
	}
	variance := util.Round2(stmtTotal.Sub(whTotal))
	out[varianceColumn] = variance.StringFixed(2)
	if variance.IsZero() {
		out[flagColumn] = string(internal.AmountMatched)
	} else {
		out[flagColumn] = string(internal.AmountNotMatched)
	}
	return out
}

// injectWarehouseRows appends completed warehouse orders the ledger never
// saw: inside the statement coverage they are missing from the statement,
// after it but inside the accounting period they are accruals.
func (r *Reconciler) injectWarehouseRows(out *tabular.Table, idx *warehouse.Index, b Boundaries, ledgerOrderIDs map[string]struct{}) int {
	coverage := util.Window{Start: b.StmtPeriod.Start, End: b.AutoEnd()}
	accrual := util.Window{Start: b.AutoEnd().AddDate(0, 0, 1), End: b.AccPeriod.End}
	withAccrual := b.AutoEnd().Before(b.AccPeriod.End)

	seen := map[string]struct{}{}
	injected := 0
	for _, rec := range idx.All {
		if !rec.Completed() {
			continue
		}
		id := rec.MPOrderID()
		if id == "" {
			continue
		}
		if _, ok := ledgerOrderIDs[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		date, ok := rec.GPDate()
		if !ok {
			continue
		}

		var status internal.ReconStatus
		switch {
		case coverage.Contains(date):
			status = internal.StatusMissingFromStmt
		case withAccrual && accrual.Contains(date):
			status = internal.StatusAccrual
		default:
			continue
		}
		seen[id] = struct{}{}

		row := make(map[string]string, len(rec)+8)
		for k, v := range rec {
			row[k] = v
		}
		row["mp_order_id"] = id
		row["transaction_type"] = string(internal.TypeOrder)
		row[statusColumn] = string(status)
		row[flagColumn] = string(internal.AmountIgnore)
		row[varianceColumn] = "0.00"
		out.AddRow(row)
		injected++
	}
	return injected
}

func decimalFrom(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
