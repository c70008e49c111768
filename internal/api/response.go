// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/logging"
)

// Response is the standard envelope for every JSON response the API emits.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError is the error shape nested in a failed Response.
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("api: failed to encode response body")
	}
}

// OK writes a 200 success envelope wrapping data.
func OK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// Created writes a 201 success envelope wrapping data.
func Created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// Fail maps err's apierr.Kind to an HTTP status and writes a failure envelope.
func Fail(w http.ResponseWriter, err error) {
	kind := apierr.KindOf(err)
	status := statusForKind(kind)

	if kind == apierr.KindInternal {
		logging.Error().Err(err).Str("kind", string(kind)).Msg("api: internal error")
	}

	writeJSON(w, status, Response{
		Success: false,
		Error:   &APIError{Kind: string(kind), Message: err.Error()},
	})
}

// FailValidation writes a 400 with the given human-readable message,
// for request-shape errors that never reach the apierr taxonomy (e.g.
// malformed JSON bodies).
func FailValidation(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error:   &APIError{Kind: string(apierr.KindValidation), Message: message},
	})
}

func statusForKind(kind apierr.Kind) int {
	switch kind {
	case apierr.KindValidation:
		return http.StatusBadRequest
	case apierr.KindNotFound:
		return http.StatusNotFound
	case apierr.KindForbidden:
		return http.StatusForbidden
	case apierr.KindConflict:
		return http.StatusConflict
	case apierr.KindTimeout:
		return http.StatusGatewayTimeout
	case apierr.KindAborted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
