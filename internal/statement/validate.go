package statement

import (
	"regexp"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ordercash/internal"
	"ordercash/internal/util"
)

var (
	orderCountPattern  = regexp.MustCompile(`(?i)Number\s+of\s+orders\s+([\d,]+)`)
	totalSalesPattern  = regexp.MustCompile(`(?si)Total\s+sales.*?£\s*([\d,]+\.\d{2})`)
	willReceivePattern = regexp.MustCompile(`(?si)You\s+will\s+receive.*?£\s*([\d,]+\.\d{2})`)
	paidOnPattern      = regexp.MustCompile(`(?i)paid\s+on\s+(\d{1,2}\s+[A-Za-z]{3,}\s+\d{4})`)
)

// extractHeader pulls the summary figures from the statement front page.
// Every field is optional; a missing figure just limits validation.
func extractHeader(fullText string) internal.HeaderSummary {
	var h internal.HeaderSummary

	if m := orderCountPattern.FindStringSubmatch(fullText); m != nil {
		if n, ok := util.ParseCount(m[1]); ok {
			h.OrderCount = &n
		}
	}
	if m := totalSalesPattern.FindStringSubmatch(fullText); m != nil {
		if v, ok := util.ParseAmount(m[1]); ok {
			h.TotalSales = &v
		}
	}
	if m := willReceivePattern.FindStringSubmatch(fullText); m != nil {
		if v, ok := util.ParseAmount(m[1]); ok {
			h.WillReceive = &v
		}
	}
	if m := paidOnPattern.FindStringSubmatch(fullText); m != nil {
		if d, ok := util.ParseDateTolerant(m[1]); ok {
			h.PaymentDate = &d
		}
	}
	return h
}

// Validate cross-checks the parsed statement against its own header:
// derived payout = total sales + refunds + commission + marketing. Variances
// are logged, never fatal; statements with rounding quirks still flow through.
func Validate(stmt *internal.Statement, log zerolog.Logger) {
	h := stmt.Header
	ev := log.Info().Str("file", stmt.SourceFile)

	orderRows := 0
	derived := decimal.Zero
	if h.TotalSales != nil {
		derived = *h.TotalSales
	}
	for _, tx := range stmt.Transactions {
		switch tx.Type {
		case internal.TypeOrder:
			orderRows++
		case internal.TypeRefund:
			derived = derived.Add(tx.Refund)
		case internal.TypeCommission, internal.TypeMarketing:
			derived = derived.Add(tx.Total)
		}
	}

	if h.OrderCount != nil {
		ev = ev.Int("orders_reported", *h.OrderCount).Int("orders_parsed", orderRows)
		if *h.OrderCount != orderRows {
			log.Warn().
				Str("file", stmt.SourceFile).
				Int("reported", *h.OrderCount).
				Int("parsed", orderRows).
				Msg("order count mismatch")
		}
	}

	if h.WillReceive != nil && h.TotalSales != nil {
		variance := util.Round2(derived.Sub(*h.WillReceive))
		ev = ev.Str("payout_reported", h.WillReceive.StringFixed(2)).
			Str("payout_derived", derived.StringFixed(2))
		if !variance.IsZero() {
			log.Warn().
				Str("file", stmt.SourceFile).
				Str("variance", variance.StringFixed(2)).
				Msg("derived payout diverges from reported payout")
		}
	}

	ev.Msg("statement validated")
}
