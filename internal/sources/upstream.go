// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/tvschedule/internal/metrics"
	"github.com/ManuGH/tvschedule/internal/resilience"
)

const (
	// maxBodyBytes bounds a single upstream payload; the proxied HTML page is the largest.
	maxBodyBytes = 16 << 20
	maxErrorBody = 512
)

// upstream performs guarded JSON GETs for one adapter.
type upstream struct {
	source    Tag
	client    *http.Client
	breaker   *resilience.CircuitBreaker
	userAgent string
}

func newUpstream(source Tag, client *http.Client, breaker *resilience.CircuitBreaker, userAgent string) *upstream {
	if client == nil {
		client = http.DefaultClient
	}
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(string(source), 0, 0)
	}
	return &upstream{source: source, client: client, breaker: breaker, userAgent: userAgent}
}

// getJSON issues one GET and decodes the body into v.
func (u *upstream) getJSON(ctx context.Context, op, rawURL string, v any) error {
	start := time.Now()
	err := u.breaker.Execute(ctx, func() error {
		return u.do(ctx, op, rawURL, v)
	})
	metrics.ObserveUpstream(string(u.source), resultLabel(err), time.Since(start))
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return &UpstreamError{Source: u.source, Operation: op, Sentinel: ErrUpstreamUnavailable, Err: err}
	}
	return err
}

func (u *upstream) do(ctx context.Context, op, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &UpstreamError{Source: u.source, Operation: op, Sentinel: ErrUpstreamUnavailable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if u.userAgent != "" {
		req.Header.Set("User-Agent", u.userAgent)
	}

	res, err := u.client.Do(req)
	if err != nil {
		return &UpstreamError{Source: u.source, Operation: op, Sentinel: ErrUpstreamUnavailable, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &UpstreamError{
			Source:    u.source,
			Operation: op,
			Sentinel:  ErrUpstreamStatus,
			Status:    res.StatusCode,
			Body:      strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(v); err != nil {
		return &UpstreamError{Source: u.source, Operation: op, Sentinel: ErrUpstreamBadResponse, Status: res.StatusCode, Err: err}
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrUpstreamBadResponse):
		return "decode"
	default:
		return "transport"
	}
}
