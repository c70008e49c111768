// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeConn is a no-op Conn: tests exercise the Hub's client bookkeeping
// and dispatch tables directly, never the real read/write pumps.
type fakeConn struct{ closed bool }

func (f *fakeConn) ReadMessage() (int, []byte, error)   { select {} }
func (f *fakeConn) WriteMessage(int, []byte) error      { return nil }
func (f *fakeConn) SetReadLimit(int64)                  {}
func (f *fakeConn) SetReadDeadline(time.Time) error     { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error    { return nil }
func (f *fakeConn) SetPongHandler(func(string) error)   {}
func (f *fakeConn) Close() error                        { f.closed = true; return nil }

type fakeCompleter struct {
	completed []string
}

func (f *fakeCompleter) Complete(instanceID string) {
	f.completed = append(f.completed, instanceID)
}

func drain(c *Client) *Message {
	select {
	case msg := <-c.send:
		return &msg
	default:
		return nil
	}
}

func TestConnectSendsWelcomeOnlyToConnector(t *testing.T) {
	h := New(&fakeCompleter{})

	c1 := h.Connect(NamespaceAlerts, &fakeConn{})
	require.NotNil(t, c1)
	welcome := drain(c1)
	require.NotNil(t, welcome)
	require.Equal(t, "welcome", welcome.Event)

	c2 := h.Connect(NamespaceAlerts, &fakeConn{})
	require.Nil(t, drain(c1), "connecting a second client must not re-notify the first")
	require.NotNil(t, drain(c2))
}

func TestClientCountTracksConnectAndDisconnect(t *testing.T) {
	h := New(&fakeCompleter{})

	require.Equal(t, 0, h.ClientCount(NamespaceChat))
	c1 := h.Connect(NamespaceChat, &fakeConn{})
	c2 := h.Connect(NamespaceChat, &fakeConn{})
	require.Equal(t, 2, h.ClientCount(NamespaceChat))

	h.Disconnect(c1, "test")
	require.Equal(t, 1, h.ClientCount(NamespaceChat))

	h.Disconnect(c2, "test")
	require.Equal(t, 0, h.ClientCount(NamespaceChat))
}

func TestConnectUnknownNamespaceReturnsNil(t *testing.T) {
	h := New(&fakeCompleter{})
	require.Nil(t, h.Connect("/nonexistent", &fakeConn{}))
}

func TestAlertDoneDispatchesToCompleter(t *testing.T) {
	completer := &fakeCompleter{}
	h := New(completer)
	c := h.Connect(NamespaceAlerts, &fakeConn{})
	drain(c) // discard welcome

	h.dispatch(NamespaceAlerts, c, "alert:done", map[string]interface{}{"alertId": "instance-1"})

	require.Equal(t, []string{"instance-1"}, completer.completed)
}

func TestAlertPauseBroadcastsToAlertsNamespace(t *testing.T) {
	h := New(&fakeCompleter{})
	c1 := h.Connect(NamespaceAlerts, &fakeConn{})
	c2 := h.Connect(NamespaceAlerts, &fakeConn{})
	drain(c1)
	drain(c2)

	h.dispatch(NamespaceAlerts, c1, "alert:pause", map[string]interface{}{"reason": "brb"})

	m1 := drain(c1)
	m2 := drain(c2)
	require.NotNil(t, m1)
	require.NotNil(t, m2)
	require.Equal(t, "alert:paused", m1.Event)
	require.Equal(t, "alert:paused", m2.Event)
}

func TestDashboardConfigChangedRelaysToWidgetsWithNoDashboardEcho(t *testing.T) {
	h := New(&fakeCompleter{})
	dash := h.Connect(NamespaceDashboard, &fakeConn{})
	widget := h.Connect(NamespaceWidgets, &fakeConn{})
	drain(dash)
	drain(widget)

	h.dispatch(NamespaceDashboard, dash, "config:changed", map[string]interface{}{"theme": "dark"})

	require.Nil(t, drain(dash), "the dashboard namespace must not receive its own relayed event")
	widgetMsg := drain(widget)
	require.NotNil(t, widgetMsg)
	require.Equal(t, "config:changed", widgetMsg.Event)
}

func TestDashboardAlertTriggerRelaysToAlerts(t *testing.T) {
	h := New(&fakeCompleter{})
	dash := h.Connect(NamespaceDashboard, &fakeConn{})
	alertsClient := h.Connect(NamespaceAlerts, &fakeConn{})
	drain(dash)
	drain(alertsClient)

	h.dispatch(NamespaceDashboard, dash, "alert:trigger", map[string]interface{}{"id": "x"})

	msg := drain(alertsClient)
	require.NotNil(t, msg)
	require.Equal(t, "alert:trigger", msg.Event)
}

func TestUnknownEventIsDroppedNotErrored(t *testing.T) {
	h := New(&fakeCompleter{})
	c := h.Connect(NamespaceChat, &fakeConn{})
	drain(c)

	require.NotPanics(t, func() {
		h.dispatch(NamespaceChat, c, "chat:nonexistent-event", nil)
	})
	require.Nil(t, drain(c))
}

func TestDispatchRecoversPanickingHandler(t *testing.T) {
	h := New(&fakeCompleter{})
	h.on(NamespaceChat, "chat:boom", func(h *Hub, c *Client, payload interface{}) {
		panic("handler exploded")
	})
	c := h.Connect(NamespaceChat, &fakeConn{})
	drain(c)

	require.NotPanics(t, func() {
		h.dispatch(NamespaceChat, c, "chat:boom", nil)
	})
}

func TestCloseAllResetsClientCounts(t *testing.T) {
	h := New(&fakeCompleter{})
	h.Connect(NamespaceAlerts, &fakeConn{})
	h.Connect(NamespaceChat, &fakeConn{})

	h.CloseAll()

	require.Equal(t, 0, h.ClientCount(NamespaceAlerts))
	require.Equal(t, 0, h.ClientCount(NamespaceChat))
}

func TestNamespacesReturnsAllFour(t *testing.T) {
	h := New(&fakeCompleter{})
	require.ElementsMatch(t, []string{NamespaceAlerts, NamespaceChat, NamespaceWidgets, NamespaceDashboard}, h.Namespaces())
}
