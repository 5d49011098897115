package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logger"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// feedMessage is the JSON frame sent to feed subscribers.
type feedMessage struct {
	Type      string     `json:"type"`
	Result    app.Result `json:"result"`
	Timestamp int64      `json:"timestamp"`
}

// Hub broadcasts every recorded result to connected WebSocket clients.
// It implements app.Publisher.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends r to every client. Clients that cannot be written to are dropped.
func (h *Hub) Publish(r app.Result) {
	msg, err := json.Marshal(feedMessage{
		Type:      "reading",
		Result:    r,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		logger.WithError(err).Error("failed to encode feed message")
		return
	}

	// Writes happen under the lock: a websocket connection allows one writer.
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.WithError(err).Debug("dropping feed client")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}
