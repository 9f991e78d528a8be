// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Schedule fields
	FieldSource  = "source"
	FieldDate    = "date"
	FieldChannel = "channel"
	FieldGroups  = "groups"
	FieldItems   = "items"
	FieldReason  = "reason"

	// Upstream fields
	FieldURL    = "url"
	FieldStatus = "status"
)
