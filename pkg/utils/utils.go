package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODateLayout is the calendar-date form used at the persistence boundary.
const ISODateLayout = "2006-01-02"

// AddMonths advances a date by whole calendar months with Gregorian
// month rolling: the day-of-month is kept, clamped to the last valid
// day of the target month (Jan 31 + 1 month = Feb 28/29, never Mar 2).
// time.AddDate overflows instead of clamping, so it cannot be used here.
func AddMonths(orig time.Time, months int) time.Time {
	year, month, day := orig.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, orig.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, orig.Location())
}

// DateOnly strips the time-of-day component.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ParseISODate parses a YYYY-MM-DD string.
func ParseISODate(value string) (time.Time, error) {
	return time.Parse(ISODateLayout, strings.TrimSpace(value))
}

// FormatISODate renders a date as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// ParseAmount converts raw operator input to a whole-unit amount.
// Malformed or empty input degrades to zero rather than erroring;
// fractional input is truncated toward zero. Stricter validation, if
// any, belongs to the form layer in front of this.
func ParseAmount(raw string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return d.IntPart()
}
