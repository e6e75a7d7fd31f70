package timex

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(dateLayout)
}

// AddDays shifts a YYYY-MM-DD day by n days. Invalid input is returned as is.
func AddDays(date string, n int) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, n).Format(dateLayout)
}

// MonthOf returns the YYYY-MM month a day belongs to.
func MonthOf(date string) string {
	if len(date) < len(monthLayout) {
		return date
	}
	return date[:len(monthLayout)]
}

// MonthBounds returns the first and last day of a YYYY-MM month.
func MonthBounds(month string) (string, string, error) {
	m, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	last := m.AddDate(0, 1, -1)
	return m.Format(dateLayout), last.Format(dateLayout), nil
}

// ShiftMonth moves a YYYY-MM month by n months.
func ShiftMonth(month string, n int) string {
	m, err := time.Parse(monthLayout, month)
	if err != nil {
		return month
	}
	return m.AddDate(0, n, 0).Format(monthLayout)
}

// NextDaily returns the next moment after now at hh:mm in loc.
func NextDaily(now time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}
