// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package schedule holds the canonical per-channel schedule model and the
// normalization rules every source adapter converges on.
package schedule

// DefaultLogo is attached to every channel; upstream sources carry no logos.
const DefaultLogo = "📺"

// Channel identifies one broadcaster within a single adapter result.
// ID is source-local; Name is the grouping and deduplication key.
type Channel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Item is one broadcast slot.
type Item struct {
	Time         string  `json:"time"`
	Program      string  `json:"program"`
	Duration     float64 `json:"duration"`
	Description  string  `json:"description"`
	OriginalName string  `json:"originalName,omitempty"`
	ShowName     string  `json:"showName,omitempty"`
}

// Group is the schedule of one channel, sorted by start time.
type Group struct {
	Channel Channel `json:"channel"`
	Items   []Item  `json:"schedule"`
}
