// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/metrics"
	"github.com/ManuGH/tvschedule/internal/schedule"
)

const (
	// DefaultInternationalURL is the public schedule API keyed by country.
	DefaultInternationalURL = "https://api.tvmaze.com"
	// DefaultCountry is the ISO 3166-1 code queried when none is configured.
	DefaultCountry = "KR"
)

var (
	// Domestic titles for shows the API only lists under their English name.
	internationalTitles = map[string]string{
		"A Graceful Liar":             "친밀한 리플리",
		"Marie and Her Three Daddies": "마리와 세 아빠",
		"Spring Fever":                "봄날의 열병",
		"TO DO X TXT":                 "투두 X TXT",
		"Episode":                     "에피소드",
	}
	internationalPriority = []string{"KBS1", "KBS2", "MBC", "SBS", "JTBC", "tvN", "ENA", "MBN", "채널A"}
)

// InternationalOptions configures the international schedule adapter.
type InternationalOptions struct {
	BaseURL string
	Country string
	// Location renders start times; defaults to the fixed +09:00 zone.
	Location *time.Location
}

// International reads the per-country daily schedule of an international TV database.
type International struct {
	up       *upstream
	opts     InternationalOptions
	titles   map[string]string
	ordering schedule.Ordering
}

// NewInternational returns the international adapter.
func NewInternational(t Transport, opts InternationalOptions) *International {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultInternationalURL
	}
	if opts.Country == "" {
		opts.Country = DefaultCountry
	}
	opts.Location = locationOrDefault(opts.Location)

	titles := make(map[string]string, len(internationalTitles))
	for k, v := range internationalTitles {
		titles[k] = v
	}
	return &International{
		up:       t.upstream(TagInternational),
		opts:     opts,
		titles:   titles,
		ordering: schedule.NewOrdering(internationalPriority...),
	}
}

func (a *International) Tag() Tag { return TagInternational }

type internationalNetwork struct {
	ID   text `json:"id"`
	Name text `json:"name"`
}

type internationalShow struct {
	Name       text                  `json:"name"`
	Summary    text                  `json:"summary"`
	Network    *internationalNetwork `json:"network"`
	WebChannel *internationalNetwork `json:"webChannel"`
}

type internationalEpisode struct {
	Name     text               `json:"name"`
	Number   text               `json:"number"`
	Airdate  text               `json:"airdate"`
	Airtime  text               `json:"airtime"`
	Airstamp text               `json:"airstamp"`
	Runtime  text               `json:"runtime"`
	Summary  text               `json:"summary"`
	Show     *internationalShow `json:"show"`
}

// Fetch retrieves the schedule of the configured country for date.
func (a *International) Fetch(ctx context.Context, date time.Time) ([]schedule.Group, error) {
	q := url.Values{}
	q.Set("country", a.opts.Country)
	q.Set("date", schedule.FormatDate(date, schedule.ISODate))
	u, err := withQuery(strings.TrimRight(a.opts.BaseURL, "/")+"/schedule", q)
	if err != nil {
		return nil, &UpstreamError{Source: TagInternational, Operation: "schedule", Sentinel: ErrUpstreamUnavailable, Err: err}
	}

	var episodes []internationalEpisode
	if err := a.up.getJSON(ctx, "schedule", u, &episodes); err != nil {
		return nil, err
	}
	return a.normalize(ctx, episodes), nil
}

func (a *International) normalize(ctx context.Context, episodes []internationalEpisode) []schedule.Group {
	logger := log.WithComponentFromContext(ctx, "sources").With().Str(log.FieldSource, string(TagInternational)).Logger()

	b := schedule.NewBuilder()
	for _, ep := range episodes {
		if ep.Show == nil {
			skipItem(logger, TagInternational, metrics.ReasonNoChannel, nil)
			continue
		}
		network := ep.Show.Network
		if network == nil {
			network = ep.Show.WebChannel
		}
		if network == nil {
			skipItem(logger, TagInternational, metrics.ReasonNoChannel, nil)
			continue
		}
		name := schedule.CanonicalName(network.Name.String())
		if name == "" {
			name = unknownName
		}

		clock, err := a.startClock(ep)
		if err != nil {
			skipItem(logger, TagInternational, metrics.ReasonParseFailure, err)
			continue
		}

		duration := float64(schedule.DefaultDuration)
		if runtime, ok := ep.Runtime.Float(); ok {
			duration = schedule.MinutesOrDefault(runtime)
		}

		item := schedule.Item{
			Time:         clock.String(),
			Program:      a.programName(ep),
			Duration:     duration,
			Description:  StripTags(firstNonEmpty(ep.Show.Summary.String(), ep.Summary.String())),
			OriginalName: ep.Name.String(),
			ShowName:     ep.Show.Name.String(),
		}
		if !b.Add(name, network.ID.Int(), item) {
			skipItem(logger, TagInternational, metrics.ReasonDuplicate, nil)
		}
	}
	return b.Groups(a.ordering)
}

// startClock prefers the broadcaster-local date and time, falling back to the absolute stamp.
func (a *International) startClock(ep internationalEpisode) (schedule.Clock, error) {
	date, hhmm, stamp := ep.Airdate.String(), ep.Airtime.String(), ep.Airstamp.String()
	if date != "" && hhmm != "" {
		clock, _, err := schedule.ClockFromLocalDateTime(date, hhmm, broadcastZone, a.opts.Location)
		if err == nil || stamp == "" {
			return clock, err
		}
	}
	if stamp == "" {
		return schedule.Clock{}, schedule.ErrParse
	}
	clock, _, err := schedule.ClockFromTimestamp(stamp, a.opts.Location)
	return clock, err
}

// programName applies the title rules: a translated show title (with episode suffix
// when numbered), else the show title with a suffix only when the episode itself is
// named "Episode ...", else the plain show title.
func (a *International) programName(ep internationalEpisode) string {
	show := ep.Show.Name.String()
	number := ep.Number.String()
	if number == "0" {
		number = ""
	}

	if translated, ok := a.titles[show]; ok && show != "" {
		if number != "" {
			return translated + " " + number + "화"
		}
		return translated
	}
	if show != "" {
		if number != "" && strings.Contains(ep.Name.String(), "Episode") {
			return show + " " + number + "화"
		}
		return show
	}
	return firstNonEmpty(ep.Name.String(), unknownName)
}
