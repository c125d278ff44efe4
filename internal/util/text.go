package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reSpaces       = regexp.MustCompile(`\s+`)
	reTrailingZero = regexp.MustCompile(`\.0$`)
	reNonDigit     = regexp.MustCompile(`[^0-9]`)
)

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// CleanOrderID normalises a marketplace order identifier: trims whitespace,
// removes a trailing ".0" float-coercion artifact, then strips every
// non-digit rune. Idempotent; the result is digits-only or empty.
func CleanOrderID(input string) string {
	s := strings.TrimSpace(input)
	s = reTrailingZero.ReplaceAllString(s, "")
	return reNonDigit.ReplaceAllString(s, "")
}

func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseCount parses an integer that may carry thousands separators.
func ParseCount(input string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
