// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package apierr defines the typed error taxonomy shared by the store,
// repository, resolver, and HTTP layers.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP status mapping and logging.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
	KindTimeout    Kind = "timeout"
	KindAborted    Kind = "aborted"
)

// Error is a typed application error carrying a Kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Validation(message string) *Error         { return newErr(KindValidation, message, nil) }
func NotFound(message string) *Error           { return newErr(KindNotFound, message, nil) }
func Forbidden(message string) *Error          { return newErr(KindForbidden, message, nil) }
func Conflict(message string) *Error           { return newErr(KindConflict, message, nil) }
func Internal(message string, cause error) *Error {
	return newErr(KindInternal, message, cause)
}
func Timeout(message string) *Error { return newErr(KindTimeout, message, nil) }
func Aborted(message string) *Error { return newErr(KindAborted, message, nil) }

// KindOf extracts the Kind of err, defaulting to KindInternal for
// errors that were not constructed through this package.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// Is reports whether err (or something it wraps) has the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
