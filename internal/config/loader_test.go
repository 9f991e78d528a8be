// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tvschedule/internal/sources"
	"github.com/ManuGH/tvschedule/internal/validate"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.Equal(t, string(sources.TagInternational), cfg.Source)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, "tvschedule/v1.2.3", cfg.HTTP.UserAgent)
	assert.Equal(t, sources.DefaultOpenDataURL, cfg.OpenData.URL)
	assert.Empty(t, cfg.OpenData.APIKey)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.False(t, cfg.Tracing.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	_, offset := time.Date(2024, 5, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 9*60*60, offset)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
logLevel: debug
source: open-data
http:
  timeout: 5s
openData:
  apiKey: from-file
breaker:
  threshold: 5
  reset: 1m
server:
  listen: "127.0.0.1:9090"
  rateLimit: 10
tracing:
  enabled: true
  exporter: http
  endpoint: collector:4318
  samplingRate: 0.5
`)
	t.Setenv("TVSCHED_SOURCE", "kbs")
	t.Setenv("TVSCHED_BREAKER_THRESHOLD", "7")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "kbs", cfg.Source)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "from-file", cfg.OpenData.APIKey)
	assert.Equal(t, 7, cfg.Breaker.Threshold)
	assert.Equal(t, time.Minute, cfg.Breaker.Reset)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Listen)
	assert.Equal(t, 10, cfg.Server.RateLimit)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "http", cfg.Tracing.Exporter)
	assert.InDelta(t, 0.5, cfg.Tracing.SamplingRate, 1e-9)

	assert.Contains(t, l.ConsumedEnvKeys, "TVSCHED_SOURCE")
	assert.Contains(t, l.ConsumedEnvKeys, "DATA_GO_KR_API_KEY")
}

func TestLoad_APIKeyAlias(t *testing.T) {
	t.Setenv("DATA_GO_KR_API_KEY", "portal-key")
	cfg, err := NewLoader("", "").Load()
	require.NoError(t, err)
	assert.Equal(t, "portal-key", cfg.OpenData.APIKey)

	t.Setenv("TVSCHED_OPENDATA_API_KEY", "prefixed-key")
	cfg, err = NewLoader("", "").Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.OpenData.APIKey)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := NewLoader(writeConfig(t, "empty.yml", ""), "").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
}

func TestLoad_UnknownKeyFails(t *testing.T) {
	path := writeConfig(t, "config.yaml", "source: open-data\nunknownField: nope\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoad_RejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "config.yaml", "source: open-data\n---\nsource: kbs\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_RejectsNonYAML(t *testing.T) {
	path := writeConfig(t, "config.json", `{"source":"kbs"}`)

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only YAML supported")
}

func TestLoad_InvalidDurationInFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", "http:\n  timeout: soon\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.timeout")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"unknown source", func(c *AppConfig) { c.Source = "bogus" }, "Source"},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }, "LogLevel"},
		{"bad timezone", func(c *AppConfig) { c.Timezone = "Mars/Olympus" }, "Timezone"},
		{"bad url", func(c *AppConfig) { c.EPG.URL = "ftp://epg.example" }, "EPG.URL"},
		{"zero threshold", func(c *AppConfig) { c.Breaker.Threshold = 0 }, "Breaker.Threshold"},
		{"bad listen", func(c *AppConfig) { c.Server.Listen = "8080" }, "Server.Listen"},
		{"bad sampling", func(c *AppConfig) { c.Tracing.SamplingRate = 2 }, "Tracing.SamplingRate"},
		{"bad exporter", func(c *AppConfig) { c.Tracing.Enabled = true; c.Tracing.Exporter = "zipkin" }, "Tracing.Exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults("test")
			tt.mutate(&cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr validate.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Errors(), 1)
			assert.Equal(t, tt.field, verr.Errors()[0].Field)
		})
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, Validate(Defaults("")))
}
