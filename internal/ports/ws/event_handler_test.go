package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lt-line-dashboard/internal/domain"
)

func (h *EventHandler) clientCount() int {
	h.connectionsMu.Lock()
	defer h.connectionsMu.Unlock()
	return len(h.connections)
}

func TestEventHandlerBroadcast(t *testing.T) {
	h := NewEventHandler()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleConnection))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.clientCount() == 1 },
		2*time.Second, 10*time.Millisecond, "client must be registered")

	line := &domain.Line{ID: "LT-001", Name: "Sector 12 Feeder", Status: domain.LineStatusFault}
	h.PublishStatus(domain.StatusEvent{
		Line: line,
		Notification: &domain.NotificationItem{
			ID:      "1700000000000-abcd1234",
			LineID:  "LT-001",
			Message: "Sector 12 Feeder status changed to FAULT",
			Status:  domain.LineStatusFault,
		},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var message map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &message))
	assert.Equal(t, "status_change", message["type"])

	lineData, ok := message["line"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "LT-001", lineData["id"])
	assert.Equal(t, "fault", lineData["status"])
}

func TestEventHandlerDisconnect(t *testing.T) {
	h := NewEventHandler()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleConnection))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.clientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return h.clientCount() == 0 },
		2*time.Second, 10*time.Millisecond, "closed connection must be deregistered")
}
