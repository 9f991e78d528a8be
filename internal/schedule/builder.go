// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"slices"
)

type itemKey struct {
	time    string
	program string
}

type bucket struct {
	channel Channel
	items   []Item
	seen    map[itemKey]struct{}
}

// Builder accumulates items into per-channel buckets and suppresses duplicates
// incrementally: an item is admitted only if no earlier item of the same channel
// has the same (time, program) pair.
//
// A Builder is used by one fetch call and is not safe for concurrent use.
type Builder struct {
	buckets []*bucket
	index   map[string]*bucket
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]*bucket)}
}

// bucket returns the bucket for name, creating it on first use.
// A zero id is replaced by the first-appearance position (1-based).
func (b *Builder) bucket(name string, id int) *bucket {
	if bk, ok := b.index[name]; ok {
		return bk
	}
	if id == 0 {
		id = len(b.buckets) + 1
	}
	bk := &bucket{
		channel: Channel{ID: id, Name: name, Logo: DefaultLogo},
		seen:    make(map[itemKey]struct{}),
	}
	b.buckets = append(b.buckets, bk)
	b.index[name] = bk
	return bk
}

// Add appends item to the channel named name and reports whether it was admitted.
// The id is only used when the channel is seen for the first time.
func (b *Builder) Add(name string, id int, item Item) bool {
	bk := b.bucket(name, id)
	key := itemKey{time: item.Time, program: item.Program}
	if _, dup := bk.seen[key]; dup {
		return false
	}
	bk.seen[key] = struct{}{}
	bk.items = append(bk.items, item)
	return true
}

// Len returns the number of channels collected so far.
func (b *Builder) Len() int { return len(b.buckets) }

// Groups returns the collected channels with items in chronological order,
// ordered by o. The result is never nil.
func (b *Builder) Groups(o Ordering) []Group {
	out := make([]Group, 0, len(b.buckets))
	for _, bk := range b.buckets {
		items := slices.Clone(bk.items)
		SortItems(items)
		out = append(out, Group{Channel: bk.channel, Items: items})
	}
	o.Sort(out)
	return out
}

// SortItems orders items by minutes since midnight, keeping insertion order for equal times.
// Items with an unreadable time sort last.
func SortItems(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return itemMinutes(a) - itemMinutes(b)
	})
}

func itemMinutes(it Item) int {
	c, err := ParseClock(it.Time)
	if err != nil {
		return 24 * 60
	}
	return c.Minutes()
}
