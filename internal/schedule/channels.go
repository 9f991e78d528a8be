// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Canonicalizer maps source channel codes to display names.
// The table is copied at construction and never mutated afterwards.
type Canonicalizer struct {
	names  map[string]string
	prefix string
}

// NewCanonicalizer builds a canonicalizer from a code→name table.
// prefix is prepended to the raw code when neither table nor fallback yield a name.
func NewCanonicalizer(table map[string]string, prefix string) *Canonicalizer {
	names := make(map[string]string, len(table))
	for code, name := range table {
		names[strings.TrimSpace(code)] = CanonicalName(name)
	}
	return &Canonicalizer{names: names, prefix: prefix}
}

// Resolve returns the display name for code: table entry, else fallback, else prefix+code.
func (c *Canonicalizer) Resolve(code, fallback string) string {
	code = strings.TrimSpace(code)
	if name, ok := c.names[code]; ok && code != "" {
		return name
	}
	if name := CanonicalName(fallback); name != "" {
		return name
	}
	return CanonicalName(c.prefix + code)
}

// CanonicalName trims and NFC-normalizes a channel name so that composed and
// decomposed Hangul compare equal.
func CanonicalName(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Ordering sorts groups by a fixed priority list, then by name.
type Ordering struct {
	rank map[string]int
}

// NewOrdering builds an ordering from canonical names; earlier entries sort first.
func NewOrdering(priority ...string) Ordering {
	rank := make(map[string]int, len(priority))
	for i, name := range priority {
		name = CanonicalName(name)
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}
	return Ordering{rank: rank}
}

// Sort orders groups in place. Listed channels come first by list index; the rest
// follow in Korean collation order with byte order as the tiebreak.
func (o Ordering) Sort(groups []Group) {
	// collate.Collator is not safe for concurrent use.
	col := collate.New(language.Korean)
	slices.SortStableFunc(groups, func(a, b Group) int {
		ra, okA := o.rank[a.Channel.Name]
		rb, okB := o.rank[b.Channel.Name]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		if c := col.CompareString(a.Channel.Name, b.Channel.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Channel.Name, b.Channel.Name)
	})
}
