package statement

import (
	"regexp"
	"strings"
)

// Rule is one description pattern. FixedReason, when set, overrides any
// captured reason text. Group indexes refer to the pattern's submatches.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	FixedReason string
	ReasonGroup int
	OrderGroup  int
}

func (r Rule) apply(desc string) (reason, orderID string, ok bool) {
	m := r.Pattern.FindStringSubmatch(desc)
	if m == nil {
		return "", "", false
	}
	if r.FixedReason != "" {
		reason = r.FixedReason
	} else if r.ReasonGroup > 0 && r.ReasonGroup < len(m) {
		reason = strings.TrimSpace(m[r.ReasonGroup])
	}
	if r.OrderGroup > 0 && r.OrderGroup < len(m) {
		orderID = strings.TrimSpace(m[r.OrderGroup])
	}
	return reason, orderID, true
}

// DefaultRules covers the statement phrasings seen so far. The list is
// ordered and first-match-wins; new phrasings are added as new rules
// without touching existing ones.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "customer-compensation",
			Pattern:     regexp.MustCompile(`(?i)Customer compensation for (.*?) query (\d+)`),
			ReasonGroup: 1,
			OrderGroup:  2,
		},
		{
			Name:        "restaurant-comp-cancelled",
			Pattern:     regexp.MustCompile(`(?i)Restaurant\s+Comp\s*[-–]?\s*Cancelled\s+Order\s*[-–\s]*?(\d+)`),
			FixedReason: "Restaurant Comp - Cancelled Order",
			OrderGroup:  1,
		},
		{
			Name:        "partner-compensation-recook",
			Pattern:     regexp.MustCompile(`(?i)Order\s*ID[:\s]*([0-9]+)\s*[-–]\s*Partner\s+Compensation\s+Recook`),
			FixedReason: "Partner Compensation Recook",
			OrderGroup:  1,
		},
	}
}

// Classifier recovers a semantic reason and an associated order id from a
// deduction description.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify applies the rule list in order; the first matching rule wins.
// No match returns two empty strings.
func (c *Classifier) Classify(desc string) (reason, orderID string) {
	for _, rule := range c.rules {
		if r, o, ok := rule.apply(desc); ok {
			return r, o
		}
	}
	return "", ""
}
