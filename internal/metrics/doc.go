// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package metrics exposes the sidecar's Prometheus instrumentation.
//
// The collectors are registered with the default Prometheus registry via
// promauto; the API router does not mount a /metrics endpoint for them.
// They cover the four moving parts a companion app's dashboard would
// want to chart: queue depth, hub fan-out, alert throughput, and API
// latency.
//
//	streamforge_queue_length                 gauge
//	streamforge_hub_connected_clients        gauge, by namespace
//	streamforge_alerts_triggered_total       counter, by type
//	streamforge_alerts_timed_out_total       counter
//	streamforge_event_log_pruned_total       counter
//	streamforge_api_request_duration_seconds histogram, by method/route/status
//	streamforge_api_requests_total           counter, by method/route/status
package metrics
