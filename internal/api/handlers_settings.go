// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := s.repo.GetSetting(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, setting)
}

type setSettingRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var req setSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		FailValidation(w, "malformed request body")
		return
	}

	setting, err := s.repo.SetSetting(r.Context(), chi.URLParam(r, "key"), req.Value)
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, setting)
}
