// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command tvschedule prints one day of normalized TV schedule or serves it over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ManuGH/tvschedule/internal/config"
	xglog "github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/schedule"
	"github.com/ManuGH/tvschedule/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "serve" {
		return runServe(ctx, args[1:], stderr)
	}
	return runOnce(ctx, args, stdout, stderr)
}

type onceFlags struct {
	configPath  string
	date        string
	source      string
	out         string
	showVersion bool
}

func parseOnceFlags(args []string, stderr io.Writer) (onceFlags, error) {
	var f onceFlags
	fs := flag.NewFlagSet("tvschedule", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "path to config file (YAML)")
	fs.StringVar(&f.date, "date", "", "schedule date as YYYY-MM-DD (default: today)")
	fs.StringVar(&f.source, "source", "", "source tag: open-data, embedded-html, generic-epg, international")
	fs.StringVar(&f.out, "out", "", "write JSON to this file instead of stdout")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "usage: tvschedule [flags]\n       tvschedule serve [flags]\n\n")
		fs.PrintDefaults()
	}
	err := fs.Parse(args)
	return f, err
}

func runOnce(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseOnceFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if f.showVersion {
		_, _ = fmt.Fprintf(stdout, "%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		return 0
	}

	cfg, err := loadConfig(f.configPath, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tvschedule: %v\n", err)
		return 1
	}
	logger := xglog.WithComponent("cli")

	loc, err := cfg.Location()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tvschedule: timezone: %v\n", err)
		return 1
	}
	date := time.Now().In(loc)
	if d := strings.TrimSpace(f.date); d != "" {
		date, err = schedule.ParseISODate(d, loc)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "tvschedule: -date must be formatted as YYYY-MM-DD: %v\n", err)
			return 2
		}
	}
	source := cfg.Source
	if s := strings.TrimSpace(f.source); s != "" {
		source = s
	}

	shutdown, err := setupTelemetry(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tvschedule: telemetry: %v\n", err)
		return 1
	}
	defer shutdown()

	groups := buildPipeline(cfg, loc).aggregator.Aggregate(ctx, date, source)

	if err := writeSchedule(ctx, f.out, stdout, groups); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "schedule.write_failed").Msg("write schedule")
		return 1
	}
	return 0
}

// loadConfig configures logging with safe defaults, loads the configuration and
// reconfigures logging from it.
func loadConfig(path string, stderr io.Writer) (config.AppConfig, error) {
	xglog.Configure(xglog.Config{Output: stderr, Version: version.Version})

	cfg, err := config.NewLoader(strings.TrimSpace(path), version.Version).Load()
	if err != nil {
		return cfg, err
	}
	xglog.Configure(xglog.Config{Level: cfg.LogLevel, Output: stderr, Version: version.Version})
	return cfg, nil
}
