// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"
	"time"

	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/logging"
	"github.com/streamforge/eventserver/internal/metrics"
)

// corsMiddleware restricts cross-origin requests to localhost and the
// two well-known host-shell webview origins, per the CORS contract.
func corsMiddleware(extraOrigins []string) func(http.Handler) http.Handler {
	origins := []string{
		"http://127.0.0.1:*",
		"http://localhost:*",
		"tauri://localhost",
		"https://tauri.localhost",
	}
	origins = append(origins, extraOrigins...)

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// rateLimitMiddleware caps request volume per client address; the
// sidecar is loopback-only so this is a defense against a runaway local
// client, not a network abuse control.
func rateLimitMiddleware() func(http.Handler) http.Handler {
	return httprate.Limit(300, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))
}

// requestIDMiddleware assigns/propagates X-Request-ID and attaches it to
// the request context for structured log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = logging.GenerateRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := logging.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogMiddleware logs one line per request at info level with
// method, path, status, and duration.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(ww.Status())

		metrics.APIRequestDuration.WithLabelValues(r.Method, route, status).Observe(elapsed.Seconds())
		metrics.APIRequestsTotal.WithLabelValues(r.Method, route, status).Inc()

		logging.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", elapsed).
			Msg("http request")
	})
}

// recoverMiddleware converts a panicking handler into a 500 response
// instead of tearing down the server.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Ctx(r.Context()).Error().Interface("panic", rec).Str("path", r.URL.Path).
					Msg("api: recovered panic in handler")
				Fail(w, apierr.Internal("internal error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
