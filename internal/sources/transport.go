// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/metrics"
	"github.com/ManuGH/tvschedule/internal/resilience"
)

// Transport carries the HTTP dependencies shared by adapters.
type Transport struct {
	Client    *http.Client
	UserAgent string
	// Breaker guards the adapter's upstream. When nil a default breaker named
	// after the source is created.
	Breaker *resilience.CircuitBreaker
}

// Options configures the full adapter set.
type Options struct {
	Client           *http.Client
	UserAgent        string
	BreakerThreshold int
	BreakerReset     time.Duration
	// Breakers overrides the per-tag breakers; missing tags get a new one.
	Breakers map[Tag]*resilience.CircuitBreaker

	OpenData      OpenDataOptions
	Embedded      EmbeddedOptions
	International InternationalOptions
	GenericEPG    GenericEPGOptions
}

// NewBreakers creates one circuit breaker per tag.
func NewBreakers(threshold int, reset time.Duration) map[Tag]*resilience.CircuitBreaker {
	m := make(map[Tag]*resilience.CircuitBreaker, len(Tags()))
	for _, tag := range Tags() {
		m[tag] = resilience.NewCircuitBreaker(string(tag), threshold, reset)
	}
	return m
}

// NewAdapters builds all four adapters, each with its own circuit breaker.
func NewAdapters(opts Options) []Adapter {
	transport := func(tag Tag) Transport {
		breaker := opts.Breakers[tag]
		if breaker == nil {
			breaker = resilience.NewCircuitBreaker(string(tag), opts.BreakerThreshold, opts.BreakerReset)
		}
		return Transport{
			Client:    opts.Client,
			UserAgent: opts.UserAgent,
			Breaker:   breaker,
		}
	}
	return []Adapter{
		NewOpenData(transport(TagOpenData), opts.OpenData),
		NewEmbedded(transport(TagEmbeddedHTML), opts.Embedded),
		NewGenericEPG(transport(TagGenericEPG), opts.GenericEPG),
		NewInternational(transport(TagInternational), opts.International),
	}
}

func (t Transport) upstream(tag Tag) *upstream {
	return newUpstream(tag, t.Client, t.Breaker, t.UserAgent)
}

// withQuery appends q to base, keeping any query already present in base.
func withQuery(base string, q url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	existing := u.Query()
	for k, vs := range q {
		for _, v := range vs {
			existing.Add(k, v)
		}
	}
	u.RawQuery = existing.Encode()
	return u.String(), nil
}

func skipItem(logger zerolog.Logger, tag Tag, reason string, err error) {
	metrics.IncSkippedItem(string(tag), reason)
	ev := logger.Debug().Str(log.FieldEvent, "schedule.item_skipped").Str(log.FieldReason, reason)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("skipping upstream record")
}

func locationOrDefault(loc *time.Location) *time.Location {
	if loc == nil {
		return broadcastZone
	}
	return loc
}

// broadcastZone is the fixed +09:00 offset used by domestic broadcasters.
var broadcastZone = time.FixedZone("KST", 9*60*60)
