// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package validation wraps go-playground/validator/v10 in a thread-safe
// singleton and translates its field errors into messages suitable for
// the HTTP boundary.
//
// # Quick Start
//
//	if verr := validation.ValidateStruct(alert); verr != nil {
//	    api.FailValidation(w, verr.Error())
//	    return
//	}
//
// Alert and Variation carry `validate` struct tags (required fields,
// oneof enumerations, numeric ranges for duration/volume/font size);
// the HTTP handlers call ValidateStruct before Repository.CreateAlert and
// Repository.CreateVariation.
package validation
