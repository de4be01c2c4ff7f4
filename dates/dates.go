// ABOUTME: Calendar date helpers for submission windows
// ABOUTME: Works on YYYY-MM-DD strings in the host's local timezone
package dates

import (
	"fmt"
	"math"
	"time"
)

// Layout is the calendar date format used everywhere in the system.
const Layout = "2006-01-02"

// Today returns the current local calendar date.
func Today() string {
	return time.Now().Local().Format(Layout)
}

// Parse parses a calendar date in the local timezone, normalized to midnight.
func Parse(date string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// AddDays returns the calendar date n days after date. n may be negative;
// month and year boundaries roll over.
func AddDays(date string, n int) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// DaysBetween returns the whole-day difference b - a. Fractional days from
// DST shifts are rounded away.
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(math.Round(tb.Sub(ta).Hours() / 24)), nil
}

// DaysUntil returns the rounded day difference date - today, or 0 for an
// empty or unparsable input.
func DaysUntil(date string) int {
	if date == "" {
		return 0
	}
	d, err := DaysBetween(Today(), date)
	if err != nil {
		return 0
	}
	return d
}

// WithinNextSixtyDays reports whether date falls in [today, today+60],
// comparing whole calendar days. Empty or unparsable input is false.
func WithinNextSixtyDays(date string) bool {
	if date == "" {
		return false
	}
	d, err := DaysBetween(Today(), date)
	if err != nil {
		return false
	}
	return d >= 0 && d <= 60
}
