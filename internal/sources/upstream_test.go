// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tvschedule/internal/resilience"
)

func TestUpstream_TransportFailure(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `[]`)
	base := up.URL
	up.Close()

	a := NewInternational(Transport{Client: &http.Client{Timeout: time.Second}}, InternationalOptions{BaseURL: base})
	_, err := a.Fetch(context.Background(), testDate)
	require.ErrorIs(t, err, ErrUpstreamUnavailable)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "schedule", ue.Operation)
}

func TestUpstream_CircuitOpensAfterFailures(t *testing.T) {
	up := newFakeUpstream(t, http.StatusBadGateway, `bad gateway`)
	tr := up.transport()
	tr.Breaker = resilience.NewCircuitBreaker("test-international", 2, time.Hour)
	a := NewInternational(tr, InternationalOptions{BaseURL: up.URL})

	for i := 0; i < 2; i++ {
		_, err := a.Fetch(context.Background(), testDate)
		require.ErrorIs(t, err, ErrUpstreamStatus)
	}
	require.Equal(t, resilience.StateOpen, tr.Breaker.State())

	_, err := a.Fetch(context.Background(), testDate)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, int32(2), up.hits.Load())
}

func TestUpstream_SendsHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	tr := Transport{Client: srv.Client(), UserAgent: "tvschedule-test"}
	_, err := NewInternational(tr, InternationalOptions{BaseURL: srv.URL}).Fetch(context.Background(), testDate)
	require.NoError(t, err)

	got := <-headers
	assert.Equal(t, "tvschedule-test", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestUpstreamError_Message(t *testing.T) {
	err := &UpstreamError{
		Source:    TagGenericEPG,
		Operation: "programmes",
		Sentinel:  ErrUpstreamStatus,
		Status:    503,
		Body:      "maintenance",
	}
	assert.Equal(t, "generic-epg: programmes: upstream: non-success status (HTTP 503): maintenance", err.Error())
	assert.True(t, errors.Is(err, ErrUpstreamStatus))
	assert.False(t, errors.Is(err, ErrUpstreamBadResponse))
}
