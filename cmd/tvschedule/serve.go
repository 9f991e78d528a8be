// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/tvschedule/internal/api"
	xglog "github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/version"
)

// runServe runs the HTTP API until ctx is cancelled.
func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("tvschedule serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	listen := fs.String("listen", "", "listen address, overrides the configured one")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tvschedule: %v\n", err)
		return 1
	}
	if l := strings.TrimSpace(*listen); l != "" {
		cfg.Server.Listen = l
	}
	loc, err := cfg.Location()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tvschedule: timezone: %v\n", err)
		return 1
	}

	shutdown, err := setupTelemetry(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tvschedule: telemetry: %v\n", err)
		return 1
	}
	tracingService := ""
	if cfg.Tracing.Enabled {
		tracingService = serviceName
	}
	p := buildPipeline(cfg, loc)
	srv := api.New(p.aggregator, api.Config{
		DefaultSource:  cfg.Source,
		Location:       loc,
		RateLimit:      cfg.Server.RateLimit,
		TracingService: tracingService,
		Version:        version.Version,
		Health:         p.healthManager(),
	})

	logger := xglog.WithComponent("daemon")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Server.Listen)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "server.failed").Msg("schedule API stopped")
		return 1
	}
	logger.Info().Str(xglog.FieldEvent, "server.stopped").Msg("schedule API stopped")
	return 0
}
