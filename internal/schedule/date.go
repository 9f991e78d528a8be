// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"fmt"
	"time"
)

// Date layouts used by upstream query parameters.
const (
	CompactDate = "20060102"
	ISODate     = "2006-01-02"
)

// FormatDate renders the calendar date of d using layout.
// Only year, month and day are taken from d; its zone is not converted.
func FormatDate(d time.Time, layout string) string {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Format(layout)
}

// ParseCompactDate reads a YYYYMMDD string back into a calendar date at midnight in loc.
func ParseCompactDate(s string, loc *time.Location) (time.Time, error) {
	return parseDate(CompactDate, s, loc)
}

// ParseISODate reads a YYYY-MM-DD string into a calendar date at midnight in loc.
func ParseISODate(s string, loc *time.Location) (time.Time, error) {
	return parseDate(ISODate, s, loc)
}

func parseDate(layout, s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
