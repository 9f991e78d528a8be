// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUpstreamStatus      = errors.New("upstream: non-success status")
	ErrUpstreamBadResponse = errors.New("upstream: invalid response format or malformed data")
	ErrUpstreamUnavailable = errors.New("upstream: host unreachable or transport failure")

	// ErrExtraction means the embedded schedule literal could not be located in a page.
	ErrExtraction = errors.New("extraction: schedule literal not found")
)

// UpstreamError wraps a sentinel with request context.
type UpstreamError struct {
	Source    Tag
	Operation string
	Sentinel  error
	Status    int
	Body      string
	Err       error // lower-level cause (net.Error, json.SyntaxError, ...)
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Source, e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}
