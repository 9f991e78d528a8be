// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"

	"github.com/ManuGH/tvschedule/internal/resilience"
)

// StateReporter exposes a circuit breaker's current state.
type StateReporter interface {
	State() resilience.State
}

// BreakerChecker reports an upstream source as degraded while its circuit is not closed.
// Requests still succeed with an empty schedule, so an open circuit never makes the service unhealthy.
type BreakerChecker struct {
	name    string
	breaker StateReporter
}

// NewBreakerChecker creates a checker for one source's circuit breaker.
func NewBreakerChecker(name string, breaker StateReporter) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

func (c *BreakerChecker) Name() string {
	return c.name
}

func (c *BreakerChecker) Check(context.Context) CheckResult {
	switch state := c.breaker.State(); state {
	case resilience.StateClosed:
		return CheckResult{Status: StatusHealthy, Message: "circuit closed"}
	case resilience.StateHalfOpen:
		return CheckResult{Status: StatusDegraded, Message: "circuit half-open, probing upstream"}
	default:
		return CheckResult{Status: StatusDegraded, Message: "circuit " + string(state) + ", serving empty schedules"}
	}
}
