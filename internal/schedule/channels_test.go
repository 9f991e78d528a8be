// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func groupNames(groups []Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Channel.Name)
	}
	return out
}

func TestCanonicalizerResolve(t *testing.T) {
	c := NewCanonicalizer(map[string]string{"11": "KBS1", "12": "KBS2"}, "KBS ")

	assert.Equal(t, "KBS1", c.Resolve("11", "ignored"))
	assert.Equal(t, "KBS2", c.Resolve(" 12 ", ""))
	assert.Equal(t, "KBS 월드", c.Resolve("N94", "KBS 월드"))
	assert.Equal(t, "KBS N99", c.Resolve("N99", ""))
	assert.Equal(t, "KBS", c.Resolve("", ""))
}

func TestCanonicalizerNormalizesHangul(t *testing.T) {
	decomposed := norm.NFD.String("KBS 라이프")
	c := NewCanonicalizer(nil, "")

	assert.Equal(t, "KBS 라이프", c.Resolve("81", decomposed))
}

func TestOrderingPriorityThenName(t *testing.T) {
	groups := []Group{
		{Channel: Channel{Name: "Zeta"}},
		{Channel: Channel{Name: "KBS2"}},
		{Channel: Channel{Name: "Alpha"}},
		{Channel: Channel{Name: "SBS"}},
		{Channel: Channel{Name: "KBS1"}},
	}
	NewOrdering("KBS1", "KBS2", "MBC", "SBS").Sort(groups)

	assert.Equal(t, []string{"KBS1", "KBS2", "SBS", "Alpha", "Zeta"}, groupNames(groups))
}

func TestOrderingWithoutPriority(t *testing.T) {
	groups := []Group{
		{Channel: Channel{Name: "다채널"}},
		{Channel: Channel{Name: "가채널"}},
		{Channel: Channel{Name: "나채널"}},
	}
	NewOrdering().Sort(groups)

	assert.Equal(t, []string{"가채널", "나채널", "다채널"}, groupNames(groups))
}
