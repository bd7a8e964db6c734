package model

import (
	"strings"
	"time"
)

// DateLayout is the wire and form format of a reservation date.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t, in t's own location, as midnight
// UTC.  All reservation dates are normalised this way so that they compare
// and round-trip through MySQL DATE columns unchanged.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalised date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FormatDate renders a normalised date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
