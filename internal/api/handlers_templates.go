// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/streamforge/eventserver/internal/models"
	"github.com/streamforge/eventserver/internal/repository"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.repo.ListTemplates(r.Context())
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, templates)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.Template
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		FailValidation(w, "malformed request body")
		return
	}

	created, err := s.repo.CreateTemplate(r.Context(), t)
	if err != nil {
		Fail(w, err)
		return
	}
	Created(w, created)
}

type templateUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Author      *string `json:"author"`
	SpecBlob    *string `json:"spec"`
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		FailValidation(w, "malformed request body")
		return
	}

	updated, err := s.repo.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), repository.TemplateUpdate{
		Name:        req.Name,
		Description: req.Description,
		Author:      req.Author,
		SpecBlob:    req.SpecBlob,
	})
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, updated)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		Fail(w, err)
		return
	}
	OK(w, map[string]bool{"deleted": true})
}
