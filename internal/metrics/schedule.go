// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics exposes Prometheus collectors for the schedule pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Skip reasons for SkippedItems.
const (
	ReasonParseFailure = "parse_failure"
	ReasonDuplicate    = "duplicate"
	ReasonNoChannel    = "no_channel"
)

// Aggregate outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvschedule_upstream_requests_total",
		Help: "Upstream schedule requests by source and result (success|status|transport|decode|circuit_open)",
	}, []string{"source", "result"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tvschedule_upstream_request_duration_seconds",
		Help:    "Latency of upstream schedule requests",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"source"})

	skippedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvschedule_items_skipped_total",
		Help: "Upstream records dropped during normalization",
	}, []string{"source", "reason"})

	aggregateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvschedule_aggregate_total",
		Help: "Aggregation calls by source and outcome (ok|empty|failed)",
	}, []string{"source", "outcome"})

	aggregateGroups = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvschedule_aggregate_last_groups",
		Help: "Channel groups returned by the last aggregation per source",
	}, []string{"source"})
)

// ObserveUpstream records one upstream round trip.
func ObserveUpstream(source, result string, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(source, result).Inc()
	upstreamDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// IncSkippedItem counts a record dropped during normalization.
func IncSkippedItem(source, reason string) {
	skippedItems.WithLabelValues(source, reason).Inc()
}

// RecordAggregate records the outcome of one aggregation call.
func RecordAggregate(source, outcome string, groups int) {
	aggregateTotal.WithLabelValues(source, outcome).Inc()
	aggregateGroups.WithLabelValues(source).Set(float64(groups))
}
