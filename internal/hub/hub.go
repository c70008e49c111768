// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package hub implements the multi-namespace WebSocket fan-out layer:
// independent client sets and dispatch tables per namespace, a welcome
// handshake on connect, and a small declarative table of cross-namespace
// relays.
package hub

import (
	"sync"
	"time"

	"github.com/streamforge/eventserver/internal/logging"
	"github.com/streamforge/eventserver/internal/metrics"
)

// Namespace path constants. These are the only namespaces the core
// wires dispatch tables and relays for.
const (
	NamespaceAlerts    = "/alerts"
	NamespaceChat      = "/chat"
	NamespaceWidgets   = "/widgets"
	NamespaceDashboard = "/dashboard"
)

// Message is the wire envelope for every event the Hub sends or
// receives: {"event": "...", "payload": ...}.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// HandlerFunc processes one inbound client event. Panics are recovered
// at the dispatch boundary so a single malformed handler cannot take
// down the read loop.
type HandlerFunc func(h *Hub, c *Client, payload interface{})

// relayKey addresses one (namespace, event) pair.
type relayKey struct {
	namespace string
	event     string
}

// relayTarget is where a relayKey's traffic is re-emitted.
type relayTarget struct {
	namespace string
	event     string
}

// Completer is the Alert Queue's completion sink, invoked when an
// `/alerts` client acks `alert:done`.
type Completer interface {
	Complete(instanceID string)
}

// namespaceState holds one namespace's live client set and dispatch table.
type namespaceState struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	dispatch map[string]HandlerFunc
	label    string
}

// Hub fans out events across independently-locked namespaces.
type Hub struct {
	namespaces map[string]*namespaceState
	relays     map[relayKey]relayTarget
	completer  Completer
	now        func() time.Time
}

// New builds a Hub with the four required namespaces and their dispatch
// tables and relays wired per the wire-protocol contract. completer
// receives `/alerts` `alert:done` acks.
func New(completer Completer) *Hub {
	h := &Hub{
		namespaces: make(map[string]*namespaceState),
		relays:     make(map[relayKey]relayTarget),
		completer:  completer,
		now:        time.Now,
	}

	h.addNamespace(NamespaceAlerts, "Alerts")
	h.addNamespace(NamespaceChat, "Chat")
	h.addNamespace(NamespaceWidgets, "Widgets")
	h.addNamespace(NamespaceDashboard, "Dashboard")

	h.on(NamespaceAlerts, "alert:done", func(h *Hub, c *Client, payload interface{}) {
		id, _ := stringField(payload, "alertId")
		if h.completer != nil {
			h.completer.Complete(id)
		}
	})
	h.on(NamespaceAlerts, "alert:skip", func(h *Hub, c *Client, payload interface{}) {
		logging.Info().Str("socket_id", c.ID()).Msg("hub: alert:skip received")
	})
	h.on(NamespaceAlerts, "alert:pause", func(h *Hub, c *Client, payload interface{}) {
		h.Broadcast(NamespaceAlerts, "alert:paused", payload)
	})

	h.on(NamespaceChat, "chat:clear", func(h *Hub, c *Client, payload interface{}) {
		h.Broadcast(NamespaceChat, "chat:clear", payload)
	})
	h.on(NamespaceChat, "chat:delete", func(h *Hub, c *Client, payload interface{}) {
		h.Broadcast(NamespaceChat, "chat:delete", payload)
	})

	h.on(NamespaceWidgets, "config:changed", func(h *Hub, c *Client, payload interface{}) {
		h.Broadcast(NamespaceWidgets, "config:changed", payload)
	})

	// Declarative cross-namespace relay table (§9 design note): the
	// /dashboard namespace never handles these directly, it only relays.
	h.relay(NamespaceDashboard, "config:changed", NamespaceWidgets, "config:changed")
	h.relay(NamespaceDashboard, "alert:trigger", NamespaceAlerts, "alert:trigger")

	return h
}

func (h *Hub) addNamespace(path, label string) {
	h.namespaces[path] = &namespaceState{
		clients:  make(map[string]*Client),
		dispatch: make(map[string]HandlerFunc),
		label:    label,
	}
}

// on registers a handler for event within namespace's dispatch table.
func (h *Hub) on(namespace, event string, fn HandlerFunc) {
	ns := h.namespaces[namespace]
	ns.dispatch[event] = fn
}

// relay wires (srcNS, srcEvent) to re-emit as (dstNS, dstEvent). The
// relay handler itself does not run under any namespace's lock; it
// acquires the destination namespace's lock only when it broadcasts.
func (h *Hub) relay(srcNS, srcEvent, dstNS, dstEvent string) {
	h.relays[relayKey{srcNS, srcEvent}] = relayTarget{dstNS, dstEvent}
	h.on(srcNS, srcEvent, func(h *Hub, c *Client, payload interface{}) {
		target := h.relays[relayKey{srcNS, srcEvent}]
		h.Broadcast(target.namespace, target.event, payload)
	})
}

// Connect registers a new client under namespace, sends its welcome
// message, and returns the client.
func (h *Hub) Connect(namespace string, conn Conn) *Client {
	ns, ok := h.namespaces[namespace]
	if !ok {
		return nil
	}

	c := newClient(h, namespace, conn)

	ns.mu.Lock()
	ns.clients[c.ID()] = c
	count := len(ns.clients)
	ns.mu.Unlock()
	metrics.HubConnectedClients.WithLabelValues(namespace).Set(float64(count))

	c.sendMessage(Message{
		Event: "welcome",
		Payload: map[string]interface{}{
			"namespace":       namespace,
			"socketId":        c.ID(),
			"connectedClients": count,
			"serverTime":      h.now().UTC(),
			"label":           ns.label,
		},
	})

	logging.Info().Str("namespace", namespace).Str("socket_id", c.ID()).Int("clients", count).
		Msg("hub: client connected")

	return c
}

// Disconnect removes a client from its namespace, flooring the count at
// zero (delete on an absent key is a no-op, so this always holds).
func (h *Hub) Disconnect(c *Client, reason string) {
	ns, ok := h.namespaces[c.namespace]
	if !ok {
		return
	}

	ns.mu.Lock()
	delete(ns.clients, c.ID())
	count := len(ns.clients)
	ns.mu.Unlock()
	metrics.HubConnectedClients.WithLabelValues(c.namespace).Set(float64(count))

	logging.Info().Str("namespace", c.namespace).Str("socket_id", c.ID()).Str("reason", reason).
		Int("clients", count).Msg("hub: client disconnected")
}

// dispatch looks up and safely invokes the handler for (namespace,
// event). Unknown events are dropped, not errored. A panicking handler
// is recovered so the client's read loop can continue.
func (h *Hub) dispatch(namespace string, c *Client, event string, payload interface{}) {
	ns, ok := h.namespaces[namespace]
	if !ok {
		return
	}

	ns.mu.RLock()
	fn, ok := ns.dispatch[event]
	ns.mu.RUnlock()
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Str("namespace", namespace).Str("event", event).
				Msg("hub: recovered panic in dispatch handler")
		}
	}()

	fn(h, c, payload)
}

// Broadcast sends event/payload to every client currently connected to
// namespace.
func (h *Hub) Broadcast(namespace, event string, payload interface{}) {
	ns, ok := h.namespaces[namespace]
	if !ok {
		return
	}

	msg := Message{Event: event, Payload: payload}

	ns.mu.RLock()
	clients := make([]*Client, 0, len(ns.clients))
	for _, c := range ns.clients {
		clients = append(clients, c)
	}
	ns.mu.RUnlock()

	for _, c := range clients {
		c.sendMessage(msg)
	}
}

// ClientCount returns the number of clients connected to namespace.
func (h *Hub) ClientCount(namespace string) int {
	ns, ok := h.namespaces[namespace]
	if !ok {
		return 0
	}
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.clients)
}

// Namespaces returns the configured namespace paths.
func (h *Hub) Namespaces() []string {
	paths := make([]string, 0, len(h.namespaces))
	for p := range h.namespaces {
		paths = append(paths, p)
	}
	return paths
}

// CloseAll closes every connected client across every namespace, used
// during graceful shutdown.
func (h *Hub) CloseAll() {
	for path, ns := range h.namespaces {
		ns.mu.Lock()
		for _, c := range ns.clients {
			c.Close()
		}
		ns.clients = make(map[string]*Client)
		ns.mu.Unlock()
		metrics.HubConnectedClients.WithLabelValues(path).Set(0)
	}
}

func stringField(payload interface{}, key string) (string, bool) {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return "", false
	}
	v, ok := m[key].(string)
	return v, ok
}
