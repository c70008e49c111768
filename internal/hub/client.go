// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package hub

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/streamforge/eventserver/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 64 * 1024
)

// Conn is the subset of *websocket.Conn the Hub depends on, so tests can
// substitute an in-memory fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

var socketIDCounter atomic.Uint64

// Client is one namespace-scoped WebSocket connection.
type Client struct {
	id        string
	hub       *Hub
	namespace string
	conn      Conn
	send      chan Message
	closeOnce chan struct{}
}

func newClient(h *Hub, namespace string, conn Conn) *Client {
	id := socketIDCounter.Add(1)
	return &Client{
		id:        formatSocketID(id),
		hub:       h,
		namespace: namespace,
		conn:      conn,
		send:      make(chan Message, 256),
		closeOnce: make(chan struct{}),
	}
}

func formatSocketID(n uint64) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	if n == 0 {
		return "0"
	}
	buf := make([]byte, 0, 16)
	for n > 0 {
		buf = append([]byte{alphabet[n%uint64(len(alphabet))]}, buf...)
		n /= uint64(len(alphabet))
	}
	return string(buf)
}

// ID returns the client's opaque socket id.
func (c *Client) ID() string { return c.id }

// Namespace returns the namespace path this client connected under.
func (c *Client) Namespace() string { return c.namespace }

func (c *Client) sendMessage(msg Message) {
	select {
	case c.send <- msg:
	default:
		logging.Warn().Str("socket_id", c.id).Str("event", msg.Event).
			Msg("hub: client send buffer full, dropping message")
	}
}

// Close tears down the underlying connection; safe to call more than once.
func (c *Client) Close() {
	select {
	case <-c.closeOnce:
	default:
		close(c.closeOnce)
		_ = c.conn.Close()
	}
}

// Serve runs the client's read and write pumps until the connection
// closes, then deregisters it from the Hub. Blocks the caller; run it in
// its own goroutine per accepted connection.
func (c *Client) Serve() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump()
	}()

	c.readPump()
	c.Close()
	<-done
	c.hub.Disconnect(c, "connection closed")
}

func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Str("socket_id", c.id).Msg("hub: unexpected close")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			logging.Warn().Err(err).Str("socket_id", c.id).Msg("hub: dropping malformed client message")
			continue
		}

		c.hub.dispatch(c.namespace, c, msg.Event, msg.Payload)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.writeJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closeOnce:
			return
		}
	}
}

func (c *Client) writeJSON(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		logging.Error().Err(err).Str("socket_id", c.id).Msg("hub: failed to marshal outbound message")
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}
