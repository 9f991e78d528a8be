// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/tvschedule/internal/sources"
	"github.com/ManuGH/tvschedule/internal/validate"
)

var httpSchemes = []string{"http", "https"}

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		v.AddError("LogLevel", "must be one of trace, debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.Timezone != "" {
		v.Timezone("Timezone", cfg.Timezone)
	}
	v.Custom("Source", cfg.Source, func(any) error {
		if _, ok := sources.ParseTag(cfg.Source); !ok {
			return fmt.Errorf("unknown source %q (allowed: %v)", cfg.Source, sources.Tags())
		}
		return nil
	})

	v.DurationRange("HTTP.Timeout", cfg.HTTP.Timeout, 100*time.Millisecond, 5*time.Minute)
	v.NotEmpty("HTTP.UserAgent", cfg.HTTP.UserAgent)

	v.URL("OpenData.URL", cfg.OpenData.URL, httpSchemes)
	v.URL("Embedded.PageURL", cfg.Embedded.PageURL, httpSchemes)
	v.URL("Embedded.ProxyURL", cfg.Embedded.ProxyURL, httpSchemes)
	v.URL("International.URL", cfg.International.URL, httpSchemes)
	v.NotEmpty("International.Country", cfg.International.Country)
	v.URL("EPG.URL", cfg.EPG.URL, httpSchemes)
	v.NotEmpty("EPG.Channels", cfg.EPG.Channels)

	v.Range("Breaker.Threshold", cfg.Breaker.Threshold, 1, 100)
	v.DurationRange("Breaker.Reset", cfg.Breaker.Reset, time.Second, time.Hour)

	v.ListenAddr("Server.Listen", cfg.Server.Listen)
	v.Range("Server.RateLimit", cfg.Server.RateLimit, 0, 100000)

	if cfg.Tracing.Enabled {
		v.OneOf("Tracing.Exporter", cfg.Tracing.Exporter, []string{"grpc", "http"})
		v.NotEmpty("Tracing.Endpoint", cfg.Tracing.Endpoint)
	}
	v.FloatRange("Tracing.SamplingRate", cfg.Tracing.SamplingRate, 0, 1)

	return v.Err()
}
