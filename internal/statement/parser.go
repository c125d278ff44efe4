package statement

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ordercash/internal"
	"ordercash/internal/config"
	"ordercash/internal/util"
)

// Commission and Marketing deductions are listed net of VAT; payouts deduct
// them gross, hence the fixed 20% uplift.
var vatUplift = decimal.RequireFromString("1.20")

// TextExtractor yields the plain text of each statement page. The default
// reads PDFs; tests and alternate templates inject their own.
type TextExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// PDFExtractor extracts page text with the pdf reader library.
type PDFExtractor struct{}

func (PDFExtractor) ExtractPages(path string) ([]string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := pdf.NewReader(strings.NewReader(string(blob)), int64(len(blob)))
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

var (
	periodPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2}\s+[A-Za-z]{3,}\s+\d{4})\s*[-–to]+\s*(\d{1,2}\s+[A-Za-z]{3,}\s+\d{4})`),
		regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/\d{2,4})\s*[-–to]+\s*(\d{1,2}/\d{1,2}/\d{2,4})`),
	}

	// One order line: sequence number, dd/mm/yy date, numeric order id, a
	// type token, then free text holding one or more currency amounts.
	orderLinePattern = regexp.MustCompile(`(?m)^\s*\d+\s+(\d{2}/\d{2}/\d{2})\s+(\d+)\s+([A-Za-z/&\-]+)\s+(.*)$`)
	tailMoneyPattern = regexp.MustCompile(`£\s*([\d.,]+)`)

	outsideVATMarker = "Outside the scope of VAT"
)

// Parser turns one statement PDF into typed transaction records.
type Parser struct {
	layout     Layout
	classifier *Classifier
	extractor  TextExtractor
	log        zerolog.Logger
}

func NewParser(cfg config.Config, log zerolog.Logger) (*Parser, error) {
	layout := DefaultLayout()
	if cfg.SegmentStart != "" {
		layout.StartAnchor = cfg.SegmentStart
	}
	if cfg.SegmentEnd != "" {
		layout.EndAnchor = cfg.SegmentEnd
	}

	rules := DefaultRules()
	if cfg.RulesPath != "" {
		extra, err := LoadRules(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = append(rules, extra...)
	}

	return &Parser{
		layout:     layout,
		classifier: NewClassifier(rules),
		extractor:  PDFExtractor{},
		log:        log,
	}, nil
}

// WithExtractor swaps the page-text source, used by tests and alternate
// statement formats.
func (p *Parser) WithExtractor(e TextExtractor) *Parser {
	p.extractor = e
	return p
}

func (p *Parser) ParseFile(path string) (*internal.Statement, error) {
	pages, err := p.extractor.ExtractPages(path)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", path, err)
	}
	name := baseName(path)
	return p.ParsePages(pages, name)
}

// ParsePages parses a statement from its per-page plain text.
func (p *Parser) ParsePages(pages []string, sourceName string) (*internal.Statement, error) {
	fullText := strings.Join(pages, "\n")

	window, ok := detectPeriod(pages)
	if !ok {
		return nil, fmt.Errorf("%s: could not extract statement period from header", sourceName)
	}

	header := extractHeader(fullText)

	stmt := &internal.Statement{
		SourceFile:  sourceName,
		Window:      window,
		PaymentDate: header.PaymentDate,
		Header:      header,
	}

	stmt.Transactions = append(stmt.Transactions, p.parseOrderRows(fullText, stmt)...)

	segment := p.layout.ExtractSegment(fullText)
	stmt.Deductions = p.buildDeductions(segment, sourceName)
	stmt.Transactions = append(stmt.Transactions, p.aggregateDeductions(stmt)...)

	return stmt, nil
}

func detectPeriod(pages []string) (internal.StatementWindow, bool) {
	for _, page := range pages {
		for _, pattern := range periodPatterns {
			m := pattern.FindStringSubmatch(page)
			if m == nil {
				continue
			}
			start, okStart := util.ParseDateTolerant(m[1])
			end, okEnd := util.ParseDateTolerant(m[2])
			if okStart && okEnd {
				return internal.StatementWindow{Start: start, End: end}, true
			}
		}
	}
	return internal.StatementWindow{}, false
}

func (p *Parser) parseOrderRows(fullText string, stmt *internal.Statement) []internal.StatementTransaction {
	out := []internal.StatementTransaction{}
	for _, m := range orderLinePattern.FindAllStringSubmatch(fullText, -1) {
		date, orderID, orderType, tail := m[1], m[2], m[3], m[4]

		amounts := tailMoneyPattern.FindAllStringSubmatch(tail, -1)
		if len(amounts) == 0 {
			continue
		}
		// The rightmost amount on the line is the order total.
		total, ok := util.ParseAmount(amounts[len(amounts)-1][1])
		if !ok {
			continue
		}

		parsedDate, err := time.Parse(util.OrderRowDate, date)
		if err != nil {
			p.log.Warn().Str("file", stmt.SourceFile).Str("date", date).Msg("unparseable order date, row skipped")
			continue
		}

		out = append(out, internal.StatementTransaction{
			OrderID:     orderID,
			Date:        parsedDate,
			OrderType:   orderType,
			Type:        internal.TypeOrder,
			Total:       total,
			Refund:      decimal.Zero,
			SourceFile:  stmt.SourceFile,
			Window:      stmt.Window,
			PaymentDate: stmt.PaymentDate,
		})
	}
	return out
}

func (p *Parser) buildDeductions(segment, sourceName string) []internal.DeductionLineItem {
	descriptions := p.layout.Descriptions(segment)
	amounts := p.layout.Amounts(segment)

	if len(descriptions) != len(amounts) && (len(descriptions) > 0 || len(amounts) > 0) {
		// Pairing is positional; a divergence means some lines misattribute.
		p.log.Warn().
			Str("file", sourceName).
			Int("descriptions", len(descriptions)).
			Int("amounts", len(amounts)).
			Msg("deduction description/amount counts diverge, pairing truncated")
	}

	n := len(descriptions)
	if len(amounts) < n {
		n = len(amounts)
	}

	items := make([]internal.DeductionLineItem, 0, n)
	for i := 0; i < n; i++ {
		reason, orderID := p.classifier.Classify(descriptions[i])
		items = append(items, internal.DeductionLineItem{
			Description:     descriptions[i],
			Amount:          amounts[i],
			Reason:          reason,
			OrderID:         orderID,
			OutsideVATScope: strings.Contains(descriptions[i], outsideVATMarker),
		})
	}
	return items
}

// aggregateDeductions turns deduction line items into Refund rows (grouped
// per order, stored negated) plus at most one Commission and one Marketing
// aggregate, both VAT-uplifted and negated.
func (p *Parser) aggregateDeductions(stmt *internal.Statement) []internal.StatementTransaction {
	commissionSum := decimal.Zero
	marketingSum := decimal.Zero
	refundByOrder := map[string]decimal.Decimal{}

	for _, item := range stmt.Deductions {
		switch {
		case strings.Contains(strings.ToLower(item.Description), "commission"):
			commissionSum = commissionSum.Add(item.Amount)
		case item.Reason == "":
			// Unclassified generic deductions default to the marketing bucket.
			marketingSum = marketingSum.Add(item.Amount)
		}
		if item.OutsideVATScope && item.OrderID != "" {
			refundByOrder[item.OrderID] = refundByOrder[item.OrderID].Add(item.Amount)
		}
	}

	out := []internal.StatementTransaction{}

	orderIDs := make([]string, 0, len(refundByOrder))
	for id := range refundByOrder {
		orderIDs = append(orderIDs, id)
	}
	sort.Strings(orderIDs)
	for _, id := range orderIDs {
		out = append(out, internal.StatementTransaction{
			OrderID:     id,
			Date:        stmt.Window.Start,
			OrderType:   "Refund",
			Type:        internal.TypeRefund,
			Total:       decimal.Zero,
			Refund:      refundByOrder[id].Neg(),
			SourceFile:  stmt.SourceFile,
			Window:      stmt.Window,
			PaymentDate: stmt.PaymentDate,
		})
	}

	if !commissionSum.IsZero() {
		out = append(out, aggregateRow(stmt, internal.TypeCommission, UpliftVAT(commissionSum)))
	}
	if !marketingSum.IsZero() {
		out = append(out, aggregateRow(stmt, internal.TypeMarketing, UpliftVAT(marketingSum)))
	}
	return out
}

// UpliftVAT applies the fixed 20% uplift and negates, rounding to 2dp:
// round(sum * 1.20 * -1, 2).
func UpliftVAT(sum decimal.Decimal) decimal.Decimal {
	return util.Round2(sum.Mul(vatUplift).Neg())
}

func aggregateRow(stmt *internal.Statement, t internal.TransactionType, total decimal.Decimal) internal.StatementTransaction {
	return internal.StatementTransaction{
		OrderID:     "",
		Date:        stmt.Window.Start,
		OrderType:   string(t),
		Type:        t,
		Total:       total,
		Refund:      decimal.Zero,
		SourceFile:  stmt.SourceFile,
		Window:      stmt.Window,
		PaymentDate: stmt.PaymentDate,
	}
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
