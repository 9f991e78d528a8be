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
	// DefaultGenericEPGURL is the programme-listing API base.
	DefaultGenericEPGURL = "https://epg-api.video.globo.com"
	// DefaultGenericEPGChannels scopes the listing to domestic channels.
	DefaultGenericEPGChannels = "kr"
)

// GenericEPGOptions configures the generic EPG adapter.
type GenericEPGOptions struct {
	BaseURL  string
	Channels string
	// Location renders start times; defaults to the fixed +09:00 zone.
	Location *time.Location
}

// GenericEPG reads a flat programme listing with explicit start and end instants.
type GenericEPG struct {
	up       *upstream
	opts     GenericEPGOptions
	ordering schedule.Ordering
}

// NewGenericEPG returns the generic EPG adapter.
func NewGenericEPG(t Transport, opts GenericEPGOptions) *GenericEPG {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultGenericEPGURL
	}
	if opts.Channels == "" {
		opts.Channels = DefaultGenericEPGChannels
	}
	opts.Location = locationOrDefault(opts.Location)
	return &GenericEPG{
		up:       t.upstream(TagGenericEPG),
		opts:     opts,
		ordering: schedule.NewOrdering(),
	}
}

func (a *GenericEPG) Tag() Tag { return TagGenericEPG }

type epgListing struct {
	Programmes []epgProgramme `json:"programmes"`
}

type epgProgramme struct {
	Channel *struct {
		ID   text `json:"id"`
		Name text `json:"name"`
	} `json:"channel"`
	Start       text `json:"start"`
	End         text `json:"end"`
	Title       text `json:"title"`
	Name        text `json:"name"`
	Description text `json:"description"`
}

// Fetch retrieves the programme listing for date.
func (a *GenericEPG) Fetch(ctx context.Context, date time.Time) ([]schedule.Group, error) {
	base := strings.TrimRight(a.opts.BaseURL, "/") + "/programmes/" + url.PathEscape(schedule.FormatDate(date, schedule.ISODate))
	u, err := withQuery(base, url.Values{"channels": {a.opts.Channels}})
	if err != nil {
		return nil, &UpstreamError{Source: TagGenericEPG, Operation: "programmes", Sentinel: ErrUpstreamUnavailable, Err: err}
	}

	var listing epgListing
	if err := a.up.getJSON(ctx, "programmes", u, &listing); err != nil {
		return nil, err
	}
	return a.normalize(ctx, listing), nil
}

func (a *GenericEPG) normalize(ctx context.Context, listing epgListing) []schedule.Group {
	logger := log.WithComponentFromContext(ctx, "sources").With().Str(log.FieldSource, string(TagGenericEPG)).Logger()

	b := schedule.NewBuilder()
	for _, p := range listing.Programmes {
		name, id := unknownName, 0
		if p.Channel != nil {
			if n := schedule.CanonicalName(p.Channel.Name.String()); n != "" {
				name = n
			}
			id = p.Channel.ID.Int()
		}

		clock, start, err := schedule.ClockFromTimestamp(p.Start.String(), a.opts.Location)
		if err != nil {
			skipItem(logger, TagGenericEPG, metrics.ReasonParseFailure, err)
			continue
		}
		var end time.Time
		if e, err := schedule.ParseInstant(p.End.String()); err == nil {
			end = e
		}

		item := schedule.Item{
			Time:        clock.String(),
			Program:     firstNonEmpty(p.Title.String(), p.Name.String(), defaultProgram),
			Duration:    schedule.MinutesBetween(start, end),
			Description: p.Description.String(),
		}
		if !b.Add(name, id, item) {
			skipItem(logger, TagGenericEPG, metrics.ReasonDuplicate, nil)
		}
	}
	return b.Groups(a.ordering)
}
