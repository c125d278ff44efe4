package util

import (
	"fmt"
	"strings"
	"time"
)

// Statement headers print dates in several formats depending on the
// template version; try each in turn.
var headerDateFormats = []string{
	"2 Jan 2006",
	"2 January 2006",
	"02/01/2006",
	"02/01/06",
}

const (
	ISODate      = "2006-01-02"
	FileDate     = "06.01.02"
	OrderRowDate = "02/01/06"
)

// ParseDateTolerant parses a header date string in any supported format.
func ParseDateTolerant(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range headerDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ParseISODate(value string) (time.Time, error) {
	return time.Parse(ISODate, strings.TrimSpace(value))
}

func FormatISODate(t time.Time) string {
	return t.Format(ISODate)
}

// FormatFileDate renders a date as the YY.MM.DD token used in statement
// filenames.
func FormatFileDate(t time.Time) string {
	return t.Format(FileDate)
}

// ParseFileDate parses a YY.MM.DD filename token (century fixed to 20xx).
func ParseFileDate(yy, mm, dd string) (time.Time, error) {
	return time.Parse(ISODate, fmt.Sprintf("20%s-%s-%s", yy, mm, dd))
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Overlaps(other Window) bool {
	return !(w.End.Before(other.Start) || w.Start.After(other.End))
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DateOnly truncates a time to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
