// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tvschedule/internal/config"
	"github.com/ManuGH/tvschedule/internal/health"
	"github.com/ManuGH/tvschedule/internal/schedule"
	"github.com/ManuGH/tvschedule/internal/version"
)

const scenarioC = `[{"airdate":"2024-05-01","airtime":"21:00","number":5,
	"show":{"name":"A Graceful Liar","network":{"id":1,"name":"KBS2"}}}]`

func internationalUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule" || r.URL.Query().Get("date") != "2024-05-01" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scenarioC))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TVSCHED_INTERNATIONAL_URL", srv.URL)
	return srv
}

func TestRun_PrintsSchedule(t *testing.T) {
	internationalUpstream(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-date", "2024-05-01", "-source", "tvmaze"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var groups []schedule.Group
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "KBS2", groups[0].Channel.Name)
	assert.Equal(t, "친밀한 리플리 5화", groups[0].Items[0].Program)
	assert.Equal(t, "21:00", groups[0].Items[0].Time)
}

func TestRun_WritesFileAtomically(t *testing.T) {
	internationalUpstream(t)
	out := filepath.Join(t.TempDir(), "schedule.json")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-date", "2024-05-01", "-out", out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var groups []schedule.Group
	require.NoError(t, json.Unmarshal(data, &groups))
	require.Len(t, groups, 1)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestRun_UpstreamFailureStillPrintsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TVSCHED_EPG_URL", srv.URL)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-date", "2024-05-01", "-source", "generic-epg"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "[]\n", stdout.String())
	assert.Contains(t, stderr.String(), "schedule.fetch_failed")
}

func TestRun_BadDate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-date", "01/05/2024"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "YYYY-MM-DD")
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("TVSCHED_SOURCE", "bogus")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Source")
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), version.Version)
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-nope"}, &stdout, &stderr))
	assert.Equal(t, 2, run(context.Background(), []string{"serve", "-nope"}, &stdout, &stderr))
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stderr bytes.Buffer

	code := run(ctx, []string{"serve", "-listen", "127.0.0.1:0"}, &bytes.Buffer{}, &stderr)
	assert.Equal(t, 0, code, stderr.String())
}

func TestPipelineHealthTracksSourceBreakers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Defaults("test")
	cfg.Breaker.Threshold = 1
	cfg.International.URL = srv.URL
	p := buildPipeline(cfg, time.UTC)
	mgr := p.healthManager()

	assert.Equal(t, []string{"source.embedded-html", "source.generic-epg", "source.international", "source.open-data"}, mgr.Names())

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, p.aggregator.Aggregate(context.Background(), date, "international"))

	ready := mgr.Ready(context.Background())
	assert.True(t, ready.Ready)
	assert.Equal(t, health.StatusDegraded, ready.Status)
	assert.Equal(t, health.StatusDegraded, ready.Checks["source.international"].Status)
	assert.Equal(t, health.StatusHealthy, ready.Checks["source.open-data"].Status)
}
