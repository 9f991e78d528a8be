// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package aggregator selects a source adapter by tag and shields callers from
// upstream failures.
package aggregator

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/metrics"
	"github.com/ManuGH/tvschedule/internal/resilience"
	"github.com/ManuGH/tvschedule/internal/schedule"
	"github.com/ManuGH/tvschedule/internal/sources"
	"github.com/ManuGH/tvschedule/internal/telemetry"
)

// Aggregator dispatches schedule requests to the adapter registered for a tag.
type Aggregator struct {
	adapters map[sources.Tag]sources.Adapter
	tracer   trace.Tracer
}

// New indexes adapters by tag. A later adapter replaces an earlier one with the same tag.
func New(adapters ...sources.Adapter) *Aggregator {
	m := make(map[sources.Tag]sources.Adapter, len(adapters))
	for _, a := range adapters {
		if a != nil {
			m[a.Tag()] = a
		}
	}
	return &Aggregator{adapters: m, tracer: telemetry.Tracer("tvschedule.aggregator")}
}

// Resolve maps a caller-supplied tag onto the adapter tag that will serve it.
func (a *Aggregator) Resolve(tag string) sources.Tag {
	t, _ := sources.ParseTag(tag)
	return t
}

// Aggregate returns the normalized schedule for date from the source named by tag.
// It never fails: upstream errors are logged and yield an empty, non-nil result.
func (a *Aggregator) Aggregate(ctx context.Context, date time.Time, tag string) []schedule.Group {
	resolved, known := sources.ParseTag(tag)
	day := schedule.FormatDate(date, schedule.ISODate)

	ctx, span := a.tracer.Start(ctx, "tvschedule.aggregate", trace.WithAttributes(
		attribute.String("schedule.source", string(resolved)),
		attribute.String("schedule.date", day),
	))
	defer span.End()

	logger := log.WithComponentFromContext(ctx, "aggregator").With().
		Str(log.FieldSource, string(resolved)).
		Str(log.FieldDate, day).
		Logger()
	if !known && tag != "" {
		logger.Debug().Str(log.FieldEvent, "schedule.source_fallback").Str("requested", tag).Msg("unknown source, using default")
	}

	adapter, ok := a.adapters[resolved]
	if !ok {
		span.SetStatus(codes.Error, "adapter not configured")
		logger.Error().Str(log.FieldEvent, "schedule.fetch_failed").Str(log.FieldReason, "not_configured").Msg("no adapter for source")
		metrics.RecordAggregate(string(resolved), metrics.OutcomeFailed, 0)
		return []schedule.Group{}
	}

	start := time.Now()
	groups, err := adapter.Fetch(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "schedule.fetch_failed").
			Str(log.FieldReason, errorKind(err)).
			Dur("elapsed", time.Since(start)).
			Msg("upstream fetch failed, returning empty schedule")
		metrics.RecordAggregate(string(resolved), metrics.OutcomeFailed, 0)
		return []schedule.Group{}
	}
	if groups == nil {
		groups = []schedule.Group{}
	}

	items := 0
	for _, g := range groups {
		items += len(g.Items)
	}
	span.SetAttributes(attribute.Int("schedule.groups", len(groups)), attribute.Int("schedule.items", items))

	outcome := metrics.OutcomeOK
	if len(groups) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordAggregate(string(resolved), outcome, len(groups))
	logger.Debug().
		Str(log.FieldEvent, "schedule.fetched").
		Int(log.FieldGroups, len(groups)).
		Int(log.FieldItems, items).
		Dur("elapsed", time.Since(start)).
		Msg("schedule aggregated")
	return groups
}

// errorKind classifies err for logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, sources.ErrUpstreamStatus):
		return "status"
	case errors.Is(err, sources.ErrUpstreamBadResponse):
		return "bad_response"
	case errors.Is(err, sources.ErrUpstreamUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
