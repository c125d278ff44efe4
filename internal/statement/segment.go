package statement

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"ordercash/internal/util"
)

// ContinuationMerger joins PDF-wrapped text lines back into logical
// description entries. The merge heuristic depends on the statement
// template, so alternate layouts can supply their own strategy.
type ContinuationMerger interface {
	MergeContinuationLines(lines []string) []string
}

// CaseMerger is the default heuristic: a line starting with an upper-case
// letter opens a new description, anything else continues the previous one.
type CaseMerger struct{}

func (CaseMerger) MergeContinuationLines(lines []string) []string {
	merged := []string{}
	for _, line := range lines {
		if len(merged) == 0 {
			merged = append(merged, line)
			continue
		}
		if startsUpper(line) {
			merged = append(merged, line)
		} else {
			merged[len(merged)-1] += " " + line
		}
	}
	return merged
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// Layout describes where the deductions segment sits inside a statement and
// how its wrapped lines are merged.
type Layout struct {
	StartAnchor string
	EndAnchor   string
	Merger      ContinuationMerger
}

func DefaultLayout() Layout {
	return Layout{
		StartAnchor: "Commission to Marketplace",
		EndAnchor:   "Subtotal",
		Merger:      CaseMerger{},
	}
}

// ExtractSegment returns the text strictly between the first occurrence of
// the start anchor and the first end anchor after it, excluding both anchor
// phrases. Either anchor missing yields "": a statement without a deductions
// section degrades to "no deductions" rather than failing.
func (l Layout) ExtractSegment(fullText string) string {
	start := strings.Index(fullText, l.StartAnchor)
	if start < 0 {
		return ""
	}
	start += len(l.StartAnchor)
	end := strings.Index(fullText[start:], l.EndAnchor)
	if end < 0 {
		return ""
	}
	return fullText[start : start+end]
}

// Descriptions tokenizes the deductions segment into logical description
// entries: whitespace is flattened, money-only lines are dropped, inline
// currency tokens are stripped, and wrapped lines are merged through the
// layout's ContinuationMerger.
func (l Layout) Descriptions(segment string) []string {
	if segment == "" {
		return nil
	}

	lines := []string{}
	for _, line := range util.SplitLines(segment) {
		line = util.NormalizeSpaces(line)
		if line == "" || util.IsMoneyLine(line) {
			continue
		}
		line = util.StripMoneyTokens(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	merged := l.Merger.MergeContinuationLines(lines)

	out := make([]string, 0, len(merged))
	for _, m := range merged {
		m = util.NormalizeSpaces(m)
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Amounts extracts the signed currency values of the deductions segment.
// This is an independent full-text scan, not a per-line one: currency tokens
// appear inline or on their own line depending on the PDF renderer.
func (l Layout) Amounts(segment string) []decimal.Decimal {
	return util.ExtractAmounts(segment)
}
