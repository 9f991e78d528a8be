// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrParse marks a single item whose time or structure cannot be interpreted.
// Adapters skip such items instead of failing the whole fetch.
var ErrParse = errors.New("schedule: unparseable item")

// Clock is a wall-clock start time within one day. Cross-midnight wraparound is not modelled.
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock as zero-padded 24h "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func newClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: clock %02d:%02d out of range", ErrParse, hour, minute)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func atoi2(s string) (int, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, fmt.Errorf("%w: %q is not two digits", ErrParse, s)
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), nil
}

// ParseDigitClock reads a digit-string encoding such as "19000000" (HHMMSSss).
// Only the first four digits matter; inputs shorter than eight characters are rejected.
func ParseDigitClock(s string) (Clock, error) {
	if len(s) < 8 {
		return Clock{}, fmt.Errorf("%w: digit clock %q shorter than 8", ErrParse, s)
	}
	h, err := atoi2(s[0:2])
	if err != nil {
		return Clock{}, err
	}
	m, err := atoi2(s[2:4])
	if err != nil {
		return Clock{}, err
	}
	return newClock(h, m)
}

// ClockFromFields combines separate hour and minute fields.
// Each field is zero-padded to two digits; an empty field counts as "00".
func ClockFromFields(hour, minute string) (Clock, error) {
	h, err := atoi2(padField(hour))
	if err != nil {
		return Clock{}, err
	}
	m, err := atoi2(padField(minute))
	if err != nil {
		return Clock{}, err
	}
	return newClock(h, m)
}

func padField(s string) string {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 0:
		return "00"
	case 1:
		return "0" + s
	default:
		return s
	}
}

// ClockFromLocalDateTime interprets date ("2006-01-02") and hhmm ("15:04") as wall
// time at the fixed offset zone, then reads hour and minute in loc.
func ClockFromLocalDateTime(date, hhmm string, offset, loc *time.Location) (Clock, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02T15:04", strings.TrimSpace(date)+"T"+strings.TrimSpace(hhmm), offset)
	if err != nil {
		return Clock{}, time.Time{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return ClockAt(t, loc), t, nil
}

// ClockFromTimestamp parses an RFC 3339 instant and reads hour and minute in loc.
func ClockFromTimestamp(s string, loc *time.Location) (Clock, time.Time, error) {
	t, err := ParseInstant(s)
	if err != nil {
		return Clock{}, time.Time{}, err
	}
	return ClockAt(t, loc), t, nil
}

// ParseInstant parses an RFC 3339 timestamp with optional fractional seconds.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return t, nil
}

// ClockAt returns the wall clock of t in loc (UTC when loc is nil).
func ClockAt(t time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return Clock{Hour: lt.Hour(), Minute: lt.Minute()}
}

// ParseClock is the inverse of Clock.String.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: clock %q has no separator", ErrParse, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return newClock(h, m)
}
