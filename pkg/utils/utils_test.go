package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		orig     time.Time
		months   int
		expected time.Time
	}{
		{"mid-month is untouched", date(2024, time.March, 15), 1, date(2024, time.April, 15)},
		{"jan 31 clamps to leap february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan 31 clamps to non-leap february", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"jan 31 keeps day in march", date(2024, time.January, 31), 2, date(2024, time.March, 31)},
		{"jan 31 clamps to april 30", date(2024, time.January, 31), 3, date(2024, time.April, 30)},
		{"crosses year boundary", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"many months out", date(2024, time.January, 15), 12, date(2025, time.January, 15)},
		{"zero months", date(2024, time.June, 10), 0, date(2024, time.June, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.orig, tt.months))
		})
	}
}

func TestAddMonthsNeverOverflows(t *testing.T) {
	// Jan 31 + 1 month must never land in March.
	got := AddMonths(date(2023, time.January, 31), 1)
	assert.Equal(t, time.February, got.Month())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int64
	}{
		{"plain integer", "45000", 45000},
		{"surrounding spaces", "  1200 ", 1200},
		{"fraction truncates", "1500.75", 1500},
		{"negative passes through", "-50", -50},
		{"empty degrades to zero", "", 0},
		{"garbage degrades to zero", "abc", 0},
		{"lone dot degrades to zero", ".", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAmount(tt.raw))
		})
	}
}

func TestParseAndFormatISODate(t *testing.T) {
	parsed, err := ParseISODate("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), parsed)
	assert.Equal(t, "2024-02-29", FormatISODate(parsed))

	_, err = ParseISODate("29/02/2024")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, time.July, 4, 18, 42, 9, 100, time.UTC)
	assert.Equal(t, date(2024, time.July, 4), DateOnly(ts))
}
