// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/models"
	"github.com/streamforge/eventserver/internal/repository"
	"github.com/streamforge/eventserver/internal/validation"
)

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.repo.ListAlerts(r.Context())
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, alerts)
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := s.repo.GetAlert(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, alert)
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var a models.Alert
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		FailValidation(w, "malformed request body")
		return
	}
	if verr := validation.ValidateStruct(a); verr != nil {
		Fail(w, apierr.Validation(verr.Error()))
		return
	}

	created, err := s.repo.CreateAlert(r.Context(), a)
	if err != nil {
		Fail(w, err)
		return
	}
	Created(w, created)
}

// alertUpdateRequest mirrors repository.AlertUpdate at the wire boundary
// with plain JSON pointer semantics; nil means "leave unchanged".
type alertUpdateRequest struct {
	DisplayName     *string   `json:"displayName"`
	Enabled         *bool     `json:"enabled"`
	MessageTemplate *string   `json:"messageTemplate"`
	DurationMs      *int      `json:"durationMs"`
	AnimationIn     *string   `json:"animationIn"`
	AnimationOut    *string   `json:"animationOut"`
	SoundPath       *string   `json:"soundPath"`
	SoundVolume     *float64  `json:"soundVolume"`
	ImagePath       *string   `json:"imagePath"`
	FontFamily      *string   `json:"fontFamily"`
	FontSize        *int      `json:"fontSize"`
	TextColor       *string   `json:"textColor"`
	BackgroundColor **string  `json:"backgroundColor"`
	CustomCSS       *string   `json:"customCss"`
	MinAmount       **float64 `json:"minAmount"`
	TTSEnabled      *bool     `json:"ttsEnabled"`
	TTSVoice        *string   `json:"ttsVoice"`
	TTSRate         *float64  `json:"ttsRate"`
	TTSPitch        *float64  `json:"ttsPitch"`
	TTSVolume       *float64  `json:"ttsVolume"`
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	var req alertUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		FailValidation(w, "malformed request body")
		return
	}

	updated, err := s.repo.UpdateAlert(r.Context(), chi.URLParam(r, "id"), repository.AlertUpdate{
		DisplayName:     req.DisplayName,
		Enabled:         req.Enabled,
		MessageTemplate: req.MessageTemplate,
		DurationMs:      req.DurationMs,
		AnimationIn:     req.AnimationIn,
		AnimationOut:    req.AnimationOut,
		SoundPath:       req.SoundPath,
		SoundVolume:     req.SoundVolume,
		ImagePath:       req.ImagePath,
		FontFamily:      req.FontFamily,
		FontSize:        req.FontSize,
		TextColor:       req.TextColor,
		BackgroundColor: req.BackgroundColor,
		CustomCSS:       req.CustomCSS,
		MinAmount:       req.MinAmount,
		TTSEnabled:      req.TTSEnabled,
		TTSVoice:        req.TTSVoice,
		TTSRate:         req.TTSRate,
		TTSPitch:        req.TTSPitch,
		TTSVolume:       req.TTSVolume,
	})
	if err != nil {
		Fail(w, err)
		return
	}
	OK(w, updated)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteAlert(r.Context(), chi.URLParam(r, "id")); err != nil {
		Fail(w, err)
		return
	}
	OK(w, map[string]bool{"deleted": true})
}

// variationCreateRequest mirrors models.Variation at the wire boundary
// except for Enabled, which is a tri-state pointer so an omitted field
// can default to true without also forcing an explicit "enabled: false"
// back to true.
type variationCreateRequest struct {
	Name            string               `json:"name"`
	ConditionType   models.ConditionType `json:"conditionType"`
	ConditionValue  string               `json:"conditionValue"`
	Priority        int                  `json:"priority"`
	Enabled         *bool                `json:"enabled"`
	MessageTemplate *string              `json:"messageTemplate"`
	SoundPath       *string              `json:"soundPath"`
	SoundVolume     *float64             `json:"soundVolume"`
	ImagePath       *string              `json:"imagePath"`
	AnimationIn     *string              `json:"animationIn"`
	AnimationOut    *string              `json:"animationOut"`
	CustomCSS       *string              `json:"customCss"`
}

func (s *Server) handleCreateVariation(w http.ResponseWriter, r *http.Request) {
	var req variationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		FailValidation(w, "malformed request body")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	v := models.Variation{
		ParentAlertID:   chi.URLParam(r, "id"),
		Name:            req.Name,
		ConditionType:   req.ConditionType,
		ConditionValue:  req.ConditionValue,
		Priority:        req.Priority,
		Enabled:         enabled,
		MessageTemplate: req.MessageTemplate,
		SoundPath:       req.SoundPath,
		SoundVolume:     req.SoundVolume,
		ImagePath:       req.ImagePath,
		AnimationIn:     req.AnimationIn,
		AnimationOut:    req.AnimationOut,
		CustomCSS:       req.CustomCSS,
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		Fail(w, apierr.Validation(verr.Error()))
		return
	}

	created, err := s.repo.CreateVariation(r.Context(), v)
	if err != nil {
		Fail(w, err)
		return
	}
	Created(w, created)
}
