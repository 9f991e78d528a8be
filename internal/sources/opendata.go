// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/metrics"
	"github.com/ManuGH/tvschedule/internal/schedule"
)

const (
	// DefaultOpenDataURL is the public-data portal air list of the job-training broadcaster.
	DefaultOpenDataURL = "https://apis.data.go.kr/B552584/JobTv/getAirList"

	openDataChannel   = "직업방송"
	openDataChannelID = 1
	openDataRows      = 100
)

// OpenDataOptions configures the open-data adapter.
type OpenDataOptions struct {
	BaseURL string
	// APIKey is sent as serviceKey. An empty key is sent as is and rejected remotely.
	APIKey string
	Rows   int
}

// OpenData reads the single-channel air list of the public-data portal.
type OpenData struct {
	up       *upstream
	opts     OpenDataOptions
	ordering schedule.Ordering
}

// NewOpenData returns the open-data adapter.
func NewOpenData(t Transport, opts OpenDataOptions) *OpenData {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOpenDataURL
	}
	if opts.Rows <= 0 {
		opts.Rows = openDataRows
	}
	return &OpenData{
		up:       t.upstream(TagOpenData),
		opts:     opts,
		ordering: schedule.NewOrdering(openDataChannel),
	}
}

func (a *OpenData) Tag() Tag { return TagOpenData }

type openDataEnvelope struct {
	Response *struct {
		Header *struct {
			ResultCode text `json:"resultCode"`
			ResultMsg  text `json:"resultMsg"`
		} `json:"header"`
		Body *struct {
			// Items is an object with an "item" member, or "" when the day is empty.
			Items json.RawMessage `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type openDataItems struct {
	Item oneOrMany[openDataItem] `json:"item"`
}

type openDataItem struct {
	AirTime        text `json:"airTime"`
	AirMinute      text `json:"airMinute"`
	ProgramName    text `json:"programName"`
	Title          text `json:"title"`
	ProgramContent text `json:"programContent"`
	Description    text `json:"description"`
}

// Fetch retrieves the air list for date.
func (a *OpenData) Fetch(ctx context.Context, date time.Time) ([]schedule.Group, error) {
	q := url.Values{}
	q.Set("serviceKey", a.opts.APIKey)
	q.Set("airWhatday", schedule.FormatDate(date, schedule.CompactDate))
	q.Set("numOfRows", strconv.Itoa(a.opts.Rows))
	q.Set("pageNo", "1")
	u, err := withQuery(a.opts.BaseURL, q)
	if err != nil {
		return nil, &UpstreamError{Source: TagOpenData, Operation: "air_list", Sentinel: ErrUpstreamUnavailable, Err: err}
	}

	var env openDataEnvelope
	if err := a.up.getJSON(ctx, "air_list", u, &env); err != nil {
		return nil, err
	}
	return a.normalize(ctx, env)
}

func (a *OpenData) normalize(ctx context.Context, env openDataEnvelope) ([]schedule.Group, error) {
	logger := log.WithComponentFromContext(ctx, "sources").With().Str(log.FieldSource, string(TagOpenData)).Logger()

	if env.Response == nil {
		return []schedule.Group{}, nil
	}
	if h := env.Response.Header; h != nil {
		if code := h.ResultCode.String(); code != "" && code != "00" {
			return nil, &UpstreamError{
				Source:    TagOpenData,
				Operation: "air_list",
				Sentinel:  ErrUpstreamBadResponse,
				Body:      code + " " + h.ResultMsg.String(),
			}
		}
	}
	if env.Response.Body == nil {
		return []schedule.Group{}, nil
	}
	raw := bytes.TrimSpace(env.Response.Body.Items)
	if len(raw) == 0 || raw[0] != '{' {
		return []schedule.Group{}, nil
	}
	var items openDataItems
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &UpstreamError{Source: TagOpenData, Operation: "air_list", Sentinel: ErrUpstreamBadResponse, Err: err}
	}

	b := schedule.NewBuilder()
	for _, it := range items.Item {
		clock, err := schedule.ClockFromFields(it.AirTime.String(), it.AirMinute.String())
		if err != nil {
			skipItem(logger, TagOpenData, metrics.ReasonParseFailure, err)
			continue
		}
		// The portal has no length field; the minute value doubles as the slot length.
		duration := float64(schedule.DefaultDuration)
		if m, ok := it.AirMinute.Float(); ok {
			duration = schedule.MinutesOrDefault(m)
		}
		item := schedule.Item{
			Time:        clock.String(),
			Program:     firstNonEmpty(it.ProgramName.String(), it.Title.String(), defaultProgram),
			Duration:    duration,
			Description: firstNonEmpty(it.ProgramContent.String(), it.Description.String()),
		}
		if !b.Add(openDataChannel, openDataChannelID, item) {
			skipItem(logger, TagOpenData, metrics.ReasonDuplicate, nil)
		}
	}
	return b.Groups(a.ordering), nil
}
