// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/models"
)

// testAlertRequest mirrors the ingestion boundary's event submission
// shape, with optional explicit overrides applied on top of the
// resolver's output.
type testAlertRequest struct {
	Type         models.AlertType `json:"type"`
	Username     string           `json:"username"`
	DisplayName  string           `json:"displayName"`
	Amount       *float64         `json:"amount"`
	Tier         string           `json:"tier"`
	Message      string           `json:"message"`
	AnimationIn  *string          `json:"animation_in"`
	AnimationOut *string          `json:"animation_out"`
	DurationMs   *int             `json:"duration_ms"`
}

func (s *Server) handleTestAlert(w http.ResponseWriter, r *http.Request) {
	var req testAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		FailValidation(w, "malformed request body")
		return
	}
	if req.Type == "" || req.Username == "" {
		FailValidation(w, "type and username are required")
		return
	}

	facts := models.EventFacts{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Amount:      req.Amount,
		Tier:        req.Tier,
		Message:     req.Message,
	}

	spec, err := s.resolver.Resolve(r.Context(), req.Type, facts)
	if err != nil {
		Fail(w, err)
		return
	}

	s.logEvent(r.Context(), models.EventLog{
		Platform:    "test-harness",
		EventType:   string(req.Type),
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Amount:      req.Amount,
		AlertFired:  spec != nil,
	})

	if spec == nil {
		OK(w, map[string]interface{}{
			"status":      "no_match",
			"alertId":     nil,
			"queueLength": s.queue.Length(),
		})
		return
	}

	if req.AnimationIn != nil {
		spec.AnimationIn = *req.AnimationIn
	}
	if req.AnimationOut != nil {
		spec.AnimationOut = *req.AnimationOut
	}
	if req.DurationMs != nil {
		spec.DurationMs = *req.DurationMs
	}

	instanceID, ok := s.queue.Enqueue(*spec, facts)
	if !ok {
		Fail(w, apierr.Validation("failed to enqueue test alert"))
		return
	}

	OK(w, map[string]interface{}{
		"status":      "queued",
		"alertId":     instanceID,
		"queueLength": s.queue.Length(),
	})
}

func (s *Server) handleTestAlertClear(w http.ResponseWriter, r *http.Request) {
	OK(w, map[string]interface{}{"cleared": s.queue.Clear()})
}

func (s *Server) handleTestAlertStatus(w http.ResponseWriter, r *http.Request) {
	OK(w, map[string]interface{}{
		"currentAlert": s.queue.Current(),
		"queueLength":  s.queue.Length(),
	})
}
