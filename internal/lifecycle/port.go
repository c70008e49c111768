// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package lifecycle implements bind-port discovery, advertised-port
// announcement, and the supervised services that carry the sidecar
// through startup, serving, and graceful shutdown.
package lifecycle

import (
	"fmt"
	"net"

	"github.com/streamforge/eventserver/internal/logging"
)

// DiscoverPort attempts to bind loopback:preferred first; failing that,
// scans [rangeMin, rangeMax] inclusive (skipping preferred); failing
// that, asks the OS for an ephemeral port. Returns a listener already
// bound to the chosen port — callers are responsible for closing it (or
// handing it to an http.Server).
func DiscoverPort(preferred, rangeMin, rangeMax int) (net.Listener, error) {
	if ln, err := tryBind(preferred); err == nil {
		logging.Info().Int("port", preferred).Msg("lifecycle: bound preferred port")
		return ln, nil
	}

	for port := rangeMin; port <= rangeMax; port++ {
		if port == preferred {
			continue
		}
		if ln, err := tryBind(port); err == nil {
			logging.Info().Int("port", port).Msg("lifecycle: bound range-scanned port")
			return ln, nil
		}
	}

	ln, err := tryBind(0)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: OS-assigned bind failed: %w", err)
	}
	logging.Warn().Int("port", ln.Addr().(*net.TCPAddr).Port).
		Msg("lifecycle: preferred and range ports unavailable, using OS-assigned port")
	return ln, nil
}

func tryBind(port int) (net.Listener, error) {
	return net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
}

// BoundPort extracts the numeric port a listener is bound to.
func BoundPort(ln net.Listener) int {
	return ln.Addr().(*net.TCPAddr).Port
}
