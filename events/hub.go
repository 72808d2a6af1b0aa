package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one admin console. Only its writer goroutine touches conn for writes.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes events to connected admin consoles over websockets.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Handler upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(cl)
	go cl.writeLoop()
	defer h.remove(cl)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop sends queued events until the hub closes the queue or a write fails.
func (cl *client) writeLoop() {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (h *Hub) add(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(cl)
}

// drop must be called with mu held.
func (h *Hub) drop(cl *client) {
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// Clients returns the number of connected consoles.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues ev for every client and never waits on the network.
// A client whose queue is full is dropped.
func (h *Hub) Publish(_ context.Context, ev OrderEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			slog.Warn("dropping slow websocket client")
			h.drop(cl)
		}
	}
}
