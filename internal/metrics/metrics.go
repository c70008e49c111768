// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package metrics exposes the sidecar's Prometheus instrumentation:
// queue depth, Hub connection counts, alert throughput, and HTTP
// request latency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueueLength tracks the number of pending (not in-flight) alert instances.
	QueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamforge_queue_length",
		Help: "Number of alert instances waiting in the queue, excluding the in-flight instance",
	})

	// HubConnectedClients tracks live WebSocket clients per namespace.
	HubConnectedClients = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamforge_hub_connected_clients",
			Help: "Number of connected WebSocket clients per namespace",
		},
		[]string{"namespace"},
	)

	// AlertsTriggeredTotal counts every alert:trigger emitted on /alerts.
	AlertsTriggeredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamforge_alerts_triggered_total",
			Help: "Total number of alerts emitted on the /alerts namespace",
		},
		[]string{"type"},
	)

	// AlertsTimedOutTotal counts fallback-timer completions (no client ack).
	AlertsTimedOutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamforge_alerts_timed_out_total",
		Help: "Total number of alert instances completed by fallback timeout rather than client ack",
	})

	// EventLogPrunedTotal counts rows removed by the retention pruner.
	EventLogPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamforge_event_log_pruned_total",
		Help: "Total number of event log rows removed by the retention pruner",
	})

	// APIRequestDuration tracks HTTP handler latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamforge_api_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestsTotal counts HTTP requests by outcome.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamforge_api_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)
)
