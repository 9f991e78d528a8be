// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/renameio/v2"

	xglog "github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/schedule"
)

// encodeSchedule writes groups as indented JSON without HTML escaping.
func encodeSchedule(w io.Writer, groups []schedule.Group) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(groups)
}

// writeSchedule prints to stdout, or replaces path atomically when one is given.
func writeSchedule(ctx context.Context, path string, stdout io.Writer, groups []schedule.Group) error {
	if path == "" {
		return encodeSchedule(stdout, groups)
	}
	logger := xglog.WithComponentFromContext(ctx, "cli")

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending schedule file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending schedule file")
		}
	}()

	if err := encodeSchedule(pendingFile, groups); err != nil {
		return fmt.Errorf("write schedule data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace schedule file: %w", err)
	}

	logger.Info().
		Str(xglog.FieldEvent, "schedule.written").
		Str("path", path).
		Int(xglog.FieldGroups, len(groups)).
		Msg("schedule written")
	return nil
}
