// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"
	"strings"

	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/schedule"
	"github.com/ManuGH/tvschedule/internal/sources"
)

type sourcesResponse struct {
	Default string   `json:"default"`
	Sources []string `json:"sources"`
}

// handleSchedule serves GET /api/v1/schedule?date=YYYY-MM-DD&source=tag.
// Upstream failures produce an empty list, never an error status.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := s.cfg.Now().In(s.cfg.Location)
	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		parsed, err := schedule.ParseISODate(raw, s.cfg.Location)
		if err != nil {
			writeBadRequest(w, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = parsed
	}

	source := strings.TrimSpace(q.Get("source"))
	if source == "" {
		source = s.cfg.DefaultSource
	}

	groups := s.scheduler.Aggregate(r.Context(), date, source)
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Debug().
		Str(log.FieldEvent, "schedule.served").
		Str(log.FieldSource, source).
		Str(log.FieldDate, schedule.FormatDate(date, schedule.ISODate)).
		Int(log.FieldGroups, len(groups)).
		Msg("schedule served")

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	tags := sources.Tags()
	resp := sourcesResponse{Sources: make([]string, 0, len(tags))}
	for _, t := range tags {
		resp.Sources = append(resp.Sources, string(t))
	}
	def, _ := sources.ParseTag(s.cfg.DefaultSource)
	resp.Default = string(def)
	writeJSON(w, http.StatusOK, resp)
}
