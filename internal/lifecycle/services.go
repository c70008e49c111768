// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/streamforge/eventserver/internal/logging"
	"github.com/streamforge/eventserver/internal/metrics"
)

// HTTPService adapts an already-bound net.Listener + http.Server pair
// into a suture.Service, translating the server's blocking Serve into
// suture's context-aware Serve contract.
type HTTPService struct {
	server          *http.Server
	listener        interface{ Close() error }
	serve           func() error
	shutdownTimeout time.Duration
}

// NewHTTPService wraps server. serveFn runs the server's blocking serve
// loop (for example server.Serve on a listener the caller already bound)
// and is called by Serve; server is used only for Shutdown.
func NewHTTPService(server *http.Server, serveFn func() error, shutdownTimeout time.Duration) *HTTPService {
	return &HTTPService{server: server, serve: serveFn, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *HTTPService) String() string { return "http-server" }

// Pruner is the subset of the Config Repository the retention pruner needs.
type Pruner interface {
	DeleteEventLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionService runs a robfig/cron/v3 job (daily by default) that
// deletes EventLog rows older than retentionDays.
type RetentionService struct {
	pruner        Pruner
	retentionDays int
	now           func() time.Time
	schedule      string
}

// NewRetentionService builds a RetentionService pruning rows older than
// retentionDays, scheduled by the standard 5-field cron expression
// schedule (defaults to "15 0 * * *", 00:15 local, if empty).
func NewRetentionService(pruner Pruner, retentionDays int, schedule string) *RetentionService {
	if schedule == "" {
		schedule = "15 0 * * *"
	}
	return &RetentionService{
		pruner:        pruner,
		retentionDays: retentionDays,
		now:           time.Now,
		schedule:      schedule,
	}
}

// Serve implements suture.Service: it drives a robfig/cron scheduler
// until ctx is canceled.
func (r *RetentionService) Serve(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(r.schedule, func() { r.prune(ctx) }); err != nil {
		return fmt.Errorf("lifecycle: invalid retention schedule %q: %w", r.schedule, err)
	}

	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

func (r *RetentionService) prune(ctx context.Context) {
	cutoff := r.now().AddDate(0, 0, -r.retentionDays)
	n, err := r.pruner.DeleteEventLogsBefore(ctx, cutoff)
	if err != nil {
		logging.Error().Err(err).Msg("lifecycle: event log retention prune failed")
		return
	}
	metrics.EventLogPrunedTotal.Add(float64(n))
	logging.Info().Int64("rows_deleted", n).Time("cutoff", cutoff).Msg("lifecycle: pruned event log")
}

func (r *RetentionService) String() string { return "event-log-retention" }
