package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// A full currency token: optional minus, pound sign, grouped digits with
	// exactly two decimal places.
	moneyPattern = regexp.MustCompile(`(-?)\s*£\s*([0-9]{1,3}(?:,[0-9]{3})*\.[0-9]{2})`)

	// A line that is nothing but a currency token.
	moneyLinePattern = regexp.MustCompile(`^[–\-]?\s*£\s*[0-9]{1,3}(?:,[0-9]{3})*\.[0-9]{2}$`)

	// Any currency token, for stripping inline residue from description lines.
	moneyStripPattern = regexp.MustCompile(`[–\-]?\s*£\s*[0-9]{1,3}(?:,[0-9]{3})*\.[0-9]{2}`)
)

// NormalizeCurrencyText prepares raw statement text for amount extraction:
// typographic en-dashes become hyphens, and a minus separated from its pound
// sign by a line wrap is rejoined.
func NormalizeCurrencyText(text string) string {
	text = strings.ReplaceAll(text, "–", "-")
	text = strings.ReplaceAll(text, "- \n£", "-£")
	text = strings.ReplaceAll(text, "-\n£", "-£")
	return text
}

// ExtractAmounts scans a whole text block for currency tokens and returns
// them in order as signed decimals. Currency tokens may appear inline or on
// their own line; the scan is over the full text, not line by line.
func ExtractAmounts(text string) []decimal.Decimal {
	if text == "" {
		return nil
	}
	text = NormalizeCurrencyText(text)

	out := []decimal.Decimal{}
	for _, m := range moneyPattern.FindAllStringSubmatch(text, -1) {
		value, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			continue
		}
		if m[1] == "-" {
			value = value.Neg()
		}
		out = append(out, value)
	}
	return out
}

// ParseAmount parses a bare numeric amount string ("1,234.56") to a decimal.
func ParseAmount(token string) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(token), ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// IsMoneyLine reports whether a trimmed line is purely a currency amount.
func IsMoneyLine(line string) bool {
	return moneyLinePattern.MatchString(strings.TrimSpace(line))
}

// StripMoneyTokens removes inline currency tokens from a description line.
func StripMoneyTokens(line string) string {
	return NormalizeSpaces(moneyStripPattern.ReplaceAllString(line, ""))
}

// Round2 rounds to two decimal places, the precision of every statement
// amount.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
