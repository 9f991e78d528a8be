// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package sources contains one adapter per upstream schedule source. Each adapter
// performs a single HTTP round trip and maps the payload onto the canonical
// schedule model.
package sources

import (
	"context"
	"strings"
	"time"

	"github.com/ManuGH/tvschedule/internal/schedule"
)

// Tag selects a source adapter.
type Tag string

const (
	TagOpenData      Tag = "open-data"
	TagEmbeddedHTML  Tag = "embedded-html"
	TagGenericEPG    Tag = "generic-epg"
	TagInternational Tag = "international"
)

// DefaultTag is used for empty or unrecognised tags.
const DefaultTag = TagInternational

// Tags lists every supported tag in a stable order.
func Tags() []Tag {
	return []Tag{TagOpenData, TagEmbeddedHTML, TagGenericEPG, TagInternational}
}

var tagAliases = map[string]Tag{
	string(TagOpenData):      TagOpenData,
	string(TagEmbeddedHTML):  TagEmbeddedHTML,
	string(TagGenericEPG):    TagGenericEPG,
	string(TagInternational): TagInternational,
	// names used by the web frontend
	"datagokr": TagOpenData,
	"kbs":      TagEmbeddedHTML,
	"epg":      TagGenericEPG,
	"tvmaze":   TagInternational,
}

// ParseTag maps s onto a known tag. Unknown or empty input yields DefaultTag and false.
func ParseTag(s string) (Tag, bool) {
	if t, ok := tagAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, true
	}
	return DefaultTag, false
}

// Adapter fetches one day of schedule from a single upstream source.
type Adapter interface {
	Tag() Tag
	Fetch(ctx context.Context, date time.Time) ([]schedule.Group, error)
}

const (
	defaultProgram = "프로그램"
	unknownName    = "Unknown"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
