// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package queue implements the single-consumer FIFO alert scheduler: at
// most one AlertInstance plays at a time, with a fallback timer standing
// in for a missed completion ack.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamforge/eventserver/internal/logging"
	"github.com/streamforge/eventserver/internal/metrics"
	"github.com/streamforge/eventserver/internal/models"
)

// FallbackBuffer is added to an instance's duration_ms to compute the
// fallback timeout, per the Lifecycle timeout contract.
const FallbackBuffer = 1000 * time.Millisecond

// Emitter is the subset of the Hub the queue needs to publish triggers.
type Emitter interface {
	Broadcast(namespace, event string, payload interface{})
	ClientCount(namespace string) int
}

var defaultMessageTemplates = map[models.AlertType]string{
	models.AlertTypeFollow:    "{username} just followed!",
	models.AlertTypeSubscribe: "{username} just subscribed!",
	models.AlertTypeCheer:     "{username} cheered!",
	models.AlertTypeRaid:      "{username} is raiding with {amount} viewers!",
	models.AlertTypeDonation:  "{username} donated {amount}!",
	models.AlertTypeCustom:    "{username}",
}

// Queue is the FIFO alert scheduler. Zero value is not usable; use New.
type Queue struct {
	mu      sync.Mutex
	pending []models.AlertInstance
	current *models.AlertInstance

	processing bool
	timer      *time.Timer

	hub Emitter
	now func() time.Time
}

// New builds a Queue that emits triggers on hub's /alerts namespace.
func New(hub Emitter) *Queue {
	return &Queue{hub: hub, now: time.Now}
}

// Enqueue validates and appends spec as a new AlertInstance, advancing
// immediately if the queue is idle. Returns the instance id, or the zero
// value and false on validation failure.
func (q *Queue) Enqueue(spec models.AlertSpec, facts models.EventFacts) (string, bool) {
	if spec.Type == "" || facts.Username == "" {
		logging.Warn().Msg("queue: rejected enqueue missing type or username")
		return "", false
	}

	message := facts.Message
	if message == "" {
		message = defaultMessageTemplates[spec.Type]
	}

	instance := models.AlertInstance{
		ID:            uuid.New().String(),
		AlertConfigID: spec.AlertID,
		Type:          spec.Type,
		Username:      facts.Username,
		DisplayName:   facts.DisplayName,
		Amount:        facts.Amount,
		Message:       message,
		Timestamp:     q.now(),
		Config:        spec,
	}

	q.mu.Lock()
	q.pending = append(q.pending, instance)
	idle := !q.processing
	metrics.QueueLength.Set(float64(len(q.pending)))
	q.mu.Unlock()

	if idle {
		q.advance()
	}

	return instance.ID, true
}

// Complete acknowledges the current instance. A mismatched or empty
// instanceID against a nil current is a no-op (stale-ack protection).
func (q *Queue) Complete(instanceID string) {
	q.mu.Lock()
	if q.current == nil {
		q.mu.Unlock()
		logging.Warn().Str("instance_id", instanceID).Msg("queue: complete with no current instance, ignoring")
		return
	}
	if instanceID != "" && instanceID != q.current.ID {
		q.mu.Unlock()
		logging.Warn().Str("instance_id", instanceID).Str("current_id", q.current.ID).
			Msg("queue: stale completion ack, ignoring")
		return
	}
	q.clearCurrentLocked()
	q.mu.Unlock()

	q.advance()
}

// Length returns the number of pending (not in-flight) instances.
func (q *Queue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Current returns the in-flight instance, or nil if idle.
func (q *Queue) Current() *models.AlertInstance {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return nil
	}
	cp := *q.current
	return &cp
}

// Clear empties the pending queue without touching current, returning
// the number of instances discarded.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.pending)
	q.pending = nil
	metrics.QueueLength.Set(0)
	return n
}

// clearCurrentLocked stops the fallback timer and clears current. Caller
// must hold q.mu.
func (q *Queue) clearCurrentLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.current = nil
	q.processing = false
}

// advance pops the next pending instance (if any and if idle), emits it
// on the Hub, and arms the fallback timer.
func (q *Queue) advance() {
	q.mu.Lock()
	if q.processing || len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}

	next := q.pending[0]
	q.pending = q.pending[1:]
	q.processing = true
	q.current = &next
	metrics.QueueLength.Set(float64(len(q.pending)))
	q.mu.Unlock()

	metrics.AlertsTriggeredTotal.WithLabelValues(string(next.Type)).Inc()

	if q.hub != nil {
		if q.hub.ClientCount("/alerts") == 0 {
			logging.Warn().Str("instance_id", next.ID).Msg("queue: emitting alert:trigger with zero connected clients")
		}
		q.hub.Broadcast("/alerts", "alert:trigger", next)
	}

	fallback := time.Duration(next.Config.DurationMs)*time.Millisecond + FallbackBuffer
	q.mu.Lock()
	q.timer = time.AfterFunc(fallback, func() { q.onFallback(next.ID) })
	q.mu.Unlock()
}

// onFallback treats the given instance as completed by timeout, provided
// it is still current (guards against a race with a concurrent ack).
func (q *Queue) onFallback(instanceID string) {
	q.mu.Lock()
	if q.current == nil || q.current.ID != instanceID {
		q.mu.Unlock()
		return
	}
	logging.Warn().Str("instance_id", instanceID).Msg("queue: fallback timeout, advancing")
	q.clearCurrentLocked()
	q.mu.Unlock()

	metrics.AlertsTimedOutTotal.Inc()
	q.advance()
}

// Shutdown stops any armed fallback timer without emitting further
// triggers, for use during graceful drain.
func (q *Queue) Shutdown(_ context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timer != nil {
		q.timer.Stop()
	}
}
