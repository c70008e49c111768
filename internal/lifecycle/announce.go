// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package lifecycle

import (
	"bufio"
	"fmt"
	"io"
)

// AnnouncePort writes the sole machine-readable interop line the host
// shell reads: "SERVER_PORT=<port>\n", flushed immediately so it is not
// held back by stdout buffering.
func AnnouncePort(w io.Writer, port int) error {
	if _, err := fmt.Fprintf(w, "SERVER_PORT=%d\n", port); err != nil {
		return err
	}
	if f, ok := w.(*bufio.Writer); ok {
		return f.Flush()
	}
	if f, ok := w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
