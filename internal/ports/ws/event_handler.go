package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lt-line-dashboard/internal/domain"
	"lt-line-dashboard/internal/observability/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшені тут має бути перевірка походження запиту
	},
}

// EventHandler тримає WebSocket-з'єднання клієнтів дашборда
// та розсилає їм події зміни статусу ліній
type EventHandler struct {
	connections   map[uuid.UUID]*websocket.Conn
	connectionsMu sync.Mutex
}

// NewEventHandler створює новий EventHandler
func NewEventHandler() *EventHandler {
	return &EventHandler{
		connections: make(map[uuid.UUID]*websocket.Conn),
	}
}

// HandleConnection оброблює WebSocket з'єднання клієнта дашборда
func (h *EventHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}

	clientID := uuid.New()

	h.connectionsMu.Lock()
	h.connections[clientID] = conn
	h.connectionsMu.Unlock()

	metrics.WSClientConnected()

	go h.readLoop(clientID, conn)
}

// PublishStatus розсилає подію зміни статусу всім підключеним клієнтам
func (h *EventHandler) PublishStatus(event domain.StatusEvent) {
	message := map[string]interface{}{
		"type":         "status_change",
		"time":         time.Now().Unix(),
		"line":         event.Line,
		"notification": event.Notification,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	h.connectionsMu.Lock()
	defer h.connectionsMu.Unlock()

	for clientID, conn := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending event to client %s: %v", clientID, err)
		}
	}
}

// readLoop читає вхідні повідомлення до розриву з'єднання.
// Клієнти дашборда нічого не надсилають, окрім ping
func (h *EventHandler) readLoop(clientID uuid.UUID, conn *websocket.Conn) {
	defer func() {
		conn.Close()

		h.connectionsMu.Lock()
		delete(h.connections, clientID)
		h.connectionsMu.Unlock()

		metrics.WSClientDisconnected()
	}()

	conn.SetPingHandler(func(string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(time.Second))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}
