// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"time"

	"github.com/ManuGH/tvschedule/internal/aggregator"
	"github.com/ManuGH/tvschedule/internal/config"
	"github.com/ManuGH/tvschedule/internal/health"
	xglog "github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/platform/httpx"
	"github.com/ManuGH/tvschedule/internal/resilience"
	"github.com/ManuGH/tvschedule/internal/sources"
	"github.com/ManuGH/tvschedule/internal/telemetry"
	"github.com/ManuGH/tvschedule/internal/version"
)

const serviceName = "tvschedule"

// pipeline is the wired adapter set plus the breakers guarding it.
type pipeline struct {
	aggregator *aggregator.Aggregator
	breakers   map[sources.Tag]*resilience.CircuitBreaker
}

// healthManager reports each source's circuit state.
func (p pipeline) healthManager() *health.Manager {
	m := health.NewManager(version.Version)
	for _, tag := range sources.Tags() {
		m.RegisterChecker(health.NewBreakerChecker("source."+string(tag), p.breakers[tag]))
	}
	return m
}

// buildPipeline wires every adapter to the shared traced HTTP client.
func buildPipeline(cfg config.AppConfig, loc *time.Location) pipeline {
	breakers := sources.NewBreakers(cfg.Breaker.Threshold, cfg.Breaker.Reset)
	adapters := sources.NewAdapters(sources.Options{
		Client:    httpx.NewClient(cfg.HTTP.Timeout),
		UserAgent: cfg.HTTP.UserAgent,
		Breakers:  breakers,
		OpenData: sources.OpenDataOptions{
			BaseURL: cfg.OpenData.URL,
			APIKey:  cfg.OpenData.APIKey,
		},
		Embedded: sources.EmbeddedOptions{
			PageURL:  cfg.Embedded.PageURL,
			ProxyURL: cfg.Embedded.ProxyURL,
		},
		International: sources.InternationalOptions{
			BaseURL:  cfg.International.URL,
			Country:  cfg.International.Country,
			Location: loc,
		},
		GenericEPG: sources.GenericEPGOptions{
			BaseURL:  cfg.EPG.URL,
			Channels: cfg.EPG.Channels,
			Location: loc,
		},
	})
	if cfg.OpenData.APIKey == "" {
		logger := xglog.WithComponent("cli")
		logger.Debug().
			Str(xglog.FieldSource, string(sources.TagOpenData)).
			Msg("open-data API key not set; requests will be rejected upstream")
	}
	return pipeline{aggregator: aggregator.New(adapters...), breakers: breakers}
}

// setupTelemetry installs the tracer provider and returns its flush function.
func setupTelemetry(ctx context.Context, cfg config.AppConfig) (func(), error) {
	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger := xglog.WithComponent("telemetry")
			logger.Warn().Err(err).Msg("tracer shutdown")
		}
	}, nil
}
