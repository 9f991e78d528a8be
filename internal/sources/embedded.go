// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/metrics"
	"github.com/ManuGH/tvschedule/internal/schedule"
)

const (
	// DefaultEmbeddedPageURL is the broadcaster schedule page carrying the script variable.
	DefaultEmbeddedPageURL = "https://schedule.kbs.co.kr/"
	// DefaultEmbeddedProxyURL returns {"contents": "<raw page>"} for the url query parameter.
	DefaultEmbeddedProxyURL = "https://api.allorigins.win/get"

	embeddedVariable = "$api_schedule_list"
	embeddedPrefix   = "KBS "
)

var (
	embeddedChannels = map[string]string{
		"11":  "KBS1",
		"12":  "KBS2",
		"14":  "KBS NEWS D",
		"81":  "KBS 라이프",
		"N91": "KBS 드라마",
		"N92": "KBS 조선",
		"N94": "KBS 월드",
		"N93": "KBS 스포츠",
		"N96": "KBS 키즈",
	}
	embeddedPriority = []string{"KBS1", "KBS2", "KBS NEWS D", "KBS 라이프", "KBS 드라마", "KBS 조선"}
)

// EmbeddedOptions configures the embedded-JSON adapter.
type EmbeddedOptions struct {
	PageURL  string
	ProxyURL string
}

// Embedded scrapes the schedule array a broadcaster page assigns to a script variable.
type Embedded struct {
	up       *upstream
	opts     EmbeddedOptions
	channels *schedule.Canonicalizer
	ordering schedule.Ordering
}

// NewEmbedded returns the embedded-JSON adapter.
func NewEmbedded(t Transport, opts EmbeddedOptions) *Embedded {
	if opts.PageURL == "" {
		opts.PageURL = DefaultEmbeddedPageURL
	}
	if opts.ProxyURL == "" {
		opts.ProxyURL = DefaultEmbeddedProxyURL
	}
	return &Embedded{
		up:       t.upstream(TagEmbeddedHTML),
		opts:     opts,
		channels: schedule.NewCanonicalizer(embeddedChannels, embeddedPrefix),
		ordering: schedule.NewOrdering(embeddedPriority...),
	}
}

func (a *Embedded) Tag() Tag { return TagEmbeddedHTML }

type proxyEnvelope struct {
	Contents *string `json:"contents"`
}

type embeddedRecord struct {
	ChannelCode             text `json:"channel_code"`
	ChannelCodeName         text `json:"channel_code_name"`
	ServiceStartTime        text `json:"service_start_time"`
	ProgramPlannedStartTime text `json:"program_planned_start_time"`
	ProgramTitle            text `json:"program_title"`
	ProgrammingTableTitle   text `json:"programming_table_title"`
	ProgramPlannedDuration  text `json:"program_planned_duration"`
	ProgramSubtitle         text `json:"program_subtitle"`
	ProgramIntention        text `json:"program_intention"`
}

// Fetch retrieves the page for date through the proxy and extracts its schedule.
func (a *Embedded) Fetch(ctx context.Context, date time.Time) ([]schedule.Group, error) {
	page, err := withQuery(a.opts.PageURL, url.Values{"search_day": {schedule.FormatDate(date, schedule.CompactDate)}})
	if err != nil {
		return nil, &UpstreamError{Source: TagEmbeddedHTML, Operation: "page", Sentinel: ErrUpstreamUnavailable, Err: err}
	}
	proxied, err := withQuery(a.opts.ProxyURL, url.Values{"url": {page}})
	if err != nil {
		return nil, &UpstreamError{Source: TagEmbeddedHTML, Operation: "page", Sentinel: ErrUpstreamUnavailable, Err: err}
	}

	var env proxyEnvelope
	if err := a.up.getJSON(ctx, "page", proxied, &env); err != nil {
		return nil, err
	}
	if env.Contents == nil {
		return nil, &UpstreamError{
			Source:    TagEmbeddedHTML,
			Operation: "page",
			Sentinel:  ErrUpstreamBadResponse,
			Err:       errors.New("proxy envelope has no contents"),
		}
	}
	return a.parsePage(ctx, *env.Contents), nil
}

// parsePage never fails: a page whose schedule literal is missing or malformed yields no groups.
func (a *Embedded) parsePage(ctx context.Context, markup string) []schedule.Group {
	logger := log.WithComponentFromContext(ctx, "sources").With().Str(log.FieldSource, string(TagEmbeddedHTML)).Logger()

	raw, err := ExtractScriptArray(markup, embeddedVariable)
	if err != nil {
		logger.Warn().Err(err).Str(log.FieldEvent, "schedule.extraction_failed").Msg("schedule literal not found in page")
		return []schedule.Group{}
	}
	var records []embeddedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warn().Err(fmt.Errorf("%w: %v", ErrExtraction, err)).
			Str(log.FieldEvent, "schedule.extraction_failed").
			Msg("schedule literal is not valid JSON")
		return []schedule.Group{}
	}

	b := schedule.NewBuilder()
	for _, rec := range records {
		name := a.channels.Resolve(rec.ChannelCode.String(), rec.ChannelCodeName.String())

		clock, err := schedule.ParseDigitClock(firstNonEmpty(rec.ServiceStartTime.String(), rec.ProgramPlannedStartTime.String()))
		if err != nil {
			skipItem(logger, TagEmbeddedHTML, metrics.ReasonParseFailure, err)
			continue
		}

		duration := float64(schedule.DefaultDuration)
		if secs, ok := rec.ProgramPlannedDuration.Float(); ok {
			duration = schedule.MinutesFromSeconds(secs)
		}

		item := schedule.Item{
			Time:        clock.String(),
			Program:     firstNonEmpty(rec.ProgramTitle.String(), rec.ProgrammingTableTitle.String(), defaultProgram),
			Duration:    duration,
			Description: firstNonEmpty(rec.ProgramSubtitle.String(), rec.ProgramIntention.String()),
		}
		if !b.Add(name, 0, item) {
			skipItem(logger, TagEmbeddedHTML, metrics.ReasonDuplicate, nil)
		}
	}
	return b.Groups(a.ordering)
}
