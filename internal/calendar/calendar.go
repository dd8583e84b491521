package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used for all user-facing dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BusinessDayCount counts Mon-Fri days in [start, end).
// Holidays are not modeled. If end is before start the result is the
// negated count of [end, start).
func BusinessDayCount(start, end time.Time) int {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return -BusinessDayCount(e, s)
	}

	days := int(e.Sub(s).Hours() / 24)
	count := (days / 7) * 5
	cur := s.AddDate(0, 0, (days/7)*7)
	for cur.Before(e) {
		if isWeekday(cur) {
			count++
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return count
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// MonthRange returns the first and last calendar day of date's month.
func MonthRange(date time.Time) (time.Time, time.Time) {
	y, m, _ := date.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// AddMonths shifts date by n calendar months keeping the day-of-month,
// clamped to the length of the target month (Mar 31 - 1 month = Feb 28/29).
func AddMonths(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	_, last := MonthRange(first)
	if d > last.Day() {
		d = last.Day()
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// HoldingMonth returns the calendar month following date's month, which is
// the month a recommendation computed at date applies to.
func HoldingMonth(date time.Time) (int, time.Month) {
	y, m, _ := date.Date()
	if m == time.December {
		return y + 1, time.January
	}
	return y, m + 1
}
