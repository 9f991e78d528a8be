// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"math"
	"time"
)

// DefaultDuration is used when a source omits the slot length.
const DefaultDuration = 60

// MinutesFromSeconds converts a second count to whole minutes, rounding half away from zero.
// Non-positive input yields DefaultDuration.
func MinutesFromSeconds(seconds float64) float64 {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return DefaultDuration
	}
	m := math.Round(seconds / 60)
	if m <= 0 {
		return DefaultDuration
	}
	return m
}

// MinutesBetween returns the exact (unrounded) minute difference end-start.
// A zero end or an end not after start yields DefaultDuration.
func MinutesBetween(start, end time.Time) float64 {
	if end.IsZero() || !end.After(start) {
		return DefaultDuration
	}
	return end.Sub(start).Minutes()
}

// MinutesOrDefault returns n when positive, otherwise DefaultDuration.
func MinutesOrDefault(n float64) float64 {
	if n > 0 {
		return n
	}
	return DefaultDuration
}
