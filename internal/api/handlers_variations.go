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

type variationUpdateRequest struct {
	Name            *string                `json:"name"`
	ConditionType   *models.ConditionType  `json:"conditionType"`
	ConditionValue  *string                `json:"conditionValue"`
	Priority        *int                   `json:"priority"`
	Enabled         *bool                  `json:"enabled"`
	MessageTemplate **string               `json:"messageTemplate"`
	SoundPath       **string               `json:"soundPath"`
	SoundVolume     **float64              `json:"soundVolume"`
	ImagePath       **string               `json:"imagePath"`
	AnimationIn     **string               `json:"animationIn"`
	AnimationOut    **string               `json:"animationOut"`
	CustomCSS       **string               `json:"customCss"`
}

func (s *Server) handleUpdateVariation(w http.ResponseWriter, r *http.Request) {
	var req variationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		FailValidation(w, "malformed request body")
		return
	}

	updated, err := s.repo.UpdateVariation(r.Context(), chi.URLParam(r, "id"), repository.VariationUpdate{
		Name:            req.Name,
		ConditionType:   req.ConditionType,
		ConditionValue:  req.ConditionValue,
		Priority:        req.Priority,
		Enabled:         req.Enabled,
		MessageTemplate: req.MessageTemplate,
		SoundPath:       req.SoundPath,
		SoundVolume:     req.SoundVolume,
		ImagePath:       req.ImagePath,
		AnimationIn:     req.AnimationIn,
		AnimationOut:    req.AnimationOut,
		CustomCSS:       req.CustomCSS,
	})
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, updated)
}

func (s *Server) handleDeleteVariation(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteVariation(r.Context(), chi.URLParam(r, "id")); err != nil {
		Fail(w, err)
		return
	}
	OK(w, map[string]bool{"deleted": true})
}
