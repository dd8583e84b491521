package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDayCount(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2024, 1, 5), date(2024, 1, 5), 0},
		{"friday to monday", date(2024, 1, 5), date(2024, 1, 8), 1},
		{"saturday to monday", date(2024, 1, 6), date(2024, 1, 8), 0},
		{"monday to friday", date(2024, 1, 1), date(2024, 1, 5), 4},
		{"full january 2024", date(2024, 1, 1), date(2024, 2, 1), 23},
		{"one week", date(2024, 1, 3), date(2024, 1, 10), 5},
		{"reversed", date(2024, 2, 1), date(2024, 1, 1), -23},
		{"reversed friday monday", date(2024, 1, 8), date(2024, 1, 5), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDayCount(tt.start, tt.end))
		})
	}
}

func TestBusinessDayCountIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, BusinessDayCount(start, end))
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(date(2024, 2, 10))
	assert.Equal(t, date(2024, 2, 1), first)
	assert.Equal(t, date(2024, 2, 29), last)

	first, last = MonthRange(date(2023, 12, 31))
	assert.Equal(t, date(2023, 12, 1), first)
	assert.Equal(t, date(2023, 12, 31), last)
}

func TestAddMonthsClampsDay(t *testing.T) {
	assert.Equal(t, date(2024, 2, 29), AddMonths(date(2024, 3, 31), -1))
	assert.Equal(t, date(2023, 2, 28), AddMonths(date(2023, 3, 31), -1))
	assert.Equal(t, date(2023, 12, 15), AddMonths(date(2024, 1, 15), -1))
	assert.Equal(t, date(2023, 1, 31), AddMonths(date(2024, 1, 31), -12))
	assert.Equal(t, date(2024, 4, 30), AddMonths(date(2024, 1, 31), 3))
}

func TestHoldingMonth(t *testing.T) {
	y, m := HoldingMonth(date(2023, 12, 31))
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.January, m)

	y, m = HoldingMonth(date(2024, 5, 2))
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.June, m)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 31), d)

	_, err = ParseDate("01/31/2024")
	assert.Error(t, err)
}
