package statement

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ordercash/internal"
	"ordercash/internal/config"
	"ordercash/internal/tabular"
	"ordercash/internal/util"
)

// ColumnRenameMap maps raw statement columns onto ledger names. mp_ marks
// marketplace-sourced figures.
var ColumnRenameMap = map[string]string{
	"order_id":       "mp_order_id",
	"date":           "mp_date",
	"total_incl_vat": "mp_total",
	"refund_amount":  "mp_refund",
	"type":           "transaction_type",
}

var rawColumns = []string{
	"order_id", "date", "order_type", "total_incl_vat", "refund_amount",
	"type", "source_file", "statement_start", "statement_end", "payment_date",
}

// Statement filenames carry the start Monday as yy.mm.dd.
var fileDatePattern = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{2})`)

// Processor drives statement discovery, parsing and consolidation into the
// order-level ledger for a requested period.
type Processor struct {
	cfg    config.Config
	parser *Parser
	log    zerolog.Logger
}

func NewProcessor(cfg config.Config, log zerolog.Logger) (*Processor, error) {
	parser, err := NewParser(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, parser: parser, log: log}, nil
}

// Parser exposes the underlying parser so callers can swap the text source.
func (p *Processor) Parser() *Parser { return p.parser }

// Discover lists statement PDFs whose filename window overlaps the requested
// period. The filename date token is the statement's start Monday; each
// statement then covers that Monday plus six days.
func (p *Processor) Discover(period util.Window) ([]string, error) {
	pattern := filepath.Join(p.cfg.StatementDir, "*"+p.cfg.StatementMarker+"*.pdf")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	selected := []string{}
	for _, path := range matches {
		m := fileDatePattern.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			p.log.Warn().Str("file", filepath.Base(path)).Msg("no date token in filename, skipped")
			continue
		}
		start, err := util.ParseFileDate(m[1], m[2], m[3])
		if err != nil {
			p.log.Warn().Str("file", filepath.Base(path)).Msg("bad date token in filename, skipped")
			continue
		}
		fileWindow := util.Window{Start: start, End: start.AddDate(0, 0, 6)}
		if fileWindow.Overlaps(period) {
			selected = append(selected, path)
		}
	}
	sort.Strings(selected)
	return selected, nil
}

// Process parses every discovered statement, validates it, writes its audit
// file and consolidates all transactions into one ledger CSV. A statement
// that fails to parse is logged and skipped; the rest of the batch proceeds.
// The ledger path is returned.
func (p *Processor) Process(period util.Window) (string, error) {
	files, err := p.Discover(period)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", &internal.NotFoundError{
			What: "statement files for requested period",
			Hint: fmt.Sprintf("no PDF in %s matches *%s* with a date token inside %s to %s",
				p.cfg.StatementDir, p.cfg.StatementMarker,
				util.FormatISODate(period.Start), util.FormatISODate(period.End)),
		}
	}

	ledger := tabular.New(rawColumns...)
	parsed := 0
	for _, path := range files {
		stmt, err := p.parser.ParseFile(path)
		if err != nil {
			p.log.Error().Err(err).Str("file", filepath.Base(path)).Msg("statement parse failed, skipped")
			continue
		}
		Validate(stmt, p.log)
		if _, err := WriteAudit(stmt, p.cfg.AuditDir); err != nil {
			p.log.Error().Err(err).Str("file", stmt.SourceFile).Msg("audit write failed")
		}
		appendTransactions(ledger, stmt)
		parsed++
	}
	if parsed == 0 {
		return "", fmt.Errorf("all %d matching statements failed to parse", len(files))
	}

	ledger.SortBy(func(a, b map[string]string) bool {
		if a["statement_start"] != b["statement_start"] {
			return a["statement_start"] < b["statement_start"]
		}
		if a["order_id"] != b["order_id"] {
			return a["order_id"] < b["order_id"]
		}
		return a["type"] < b["type"]
	})

	ledger.Rename(ColumnRenameMap)
	ledger.Transform("mp_order_id", util.CleanOrderID)

	path := filepath.Join(p.cfg.OutputDir, ledgerFileName(ledger))
	if err := ledger.Write(path); err != nil {
		return "", err
	}
	p.log.Info().Int("statements", parsed).Int("rows", len(ledger.Rows)).Str("path", path).Msg("ledger written")
	return path, nil
}

func appendTransactions(t *tabular.Table, stmt *internal.Statement) {
	payment := ""
	if stmt.PaymentDate != nil {
		payment = util.FormatISODate(*stmt.PaymentDate)
	}
	for _, tx := range stmt.Transactions {
		t.AddRow(map[string]string{
			"order_id":        tx.OrderID,
			"date":            util.FormatISODate(tx.Date),
			"order_type":      tx.OrderType,
			"total_incl_vat":  tx.Total.StringFixed(2),
			"refund_amount":   tx.Refund.StringFixed(2),
			"type":            string(tx.Type),
			"source_file":     tx.SourceFile,
			"statement_start": util.FormatISODate(tx.Window.Start),
			"statement_end":   util.FormatISODate(tx.Window.End),
			"payment_date":    payment,
		})
	}
}

// ledgerFileName derives the output name from the earliest and latest
// statement start in the consolidated rows, independent of row order.
func ledgerFileName(t *tabular.Table) string {
	first, last := "", ""
	for _, row := range t.Rows {
		s := row["statement_start"]
		if s == "" {
			continue
		}
		if first == "" || s < first {
			first = s
		}
		if last == "" || s > last {
			last = s
		}
	}
	return fmt.Sprintf("%s - %s - Order Level Detail.csv", fileDateToken(first), fileDateToken(last))
}

func fileDateToken(isoDate string) string {
	d, err := time.Parse(util.ISODate, isoDate)
	if err != nil {
		return strings.ReplaceAll(isoDate, "-", ".")
	}
	return util.FormatFileDate(d)
}
