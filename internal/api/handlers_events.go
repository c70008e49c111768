// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"
	"time"

	"github.com/streamforge/eventserver/internal/repository"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EventLogFilter{
		EventType:      q.Get("event_type"),
		Platform:       q.Get("platform"),
		AlertFiredOnly: q.Get("alert_fired") == "true",
		Search:         q.Get("search"),
		Limit:          parseLimit(r),
	}

	events, err := s.repo.ListEventLogs(r.Context(), filter)
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, events)
}

func (s *Server) handleListEventsByRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		FailValidation(w, "from must be an RFC3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		FailValidation(w, "to must be an RFC3339 timestamp")
		return
	}

	events, err := s.repo.ListEventLogsByRange(r.Context(), from, to, parseLimit(r))
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, events)
}
