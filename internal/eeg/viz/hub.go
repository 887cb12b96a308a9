// Package viz serves EEG frames to browsers: a websocket stream of every frame and
// a plain HTTP endpoint for the latest one.
package viz

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/cxd309/pilot-engine/internal/eeg"
)

// per-client outbound buffer; slow clients lose frames rather than stall the hub
const clientBuffer = 16

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is an eeg.Consumer that broadcasts frames to websocket watchers.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		logger: logger.With("component", "viz"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Consume implements eeg.Consumer.
func (h *Hub) Consume(f eeg.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Error("encode frame", "seq", f.Seq, "error", err)
		return
	}
	msg := []byte(fmt.Sprintf(`{"type":"frame","data":%s}`, data))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Watchers is the number of connected websocket clients.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every watcher and refuses new ones. http.Server.Shutdown
// leaves hijacked connections alone, so callers close the hub after it.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		conn.Close()
	}
}

// Router exposes GET /ws and GET /frames/latest.
func (h *Hub) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.websocket).Methods(http.MethodGet)
	r.HandleFunc("/frames/latest", h.latestFrame).Methods(http.MethodGet)
	return r
}

func (h *Hub) latestFrame(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	data := h.latest
	h.mu.Unlock()
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (h *Hub) websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("watcher connected", "remote", r.RemoteAddr)

	go func() {
		for msg := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Reading is how a client-side close is noticed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	conn.Close()
	h.logger.Info("watcher disconnected", "remote", r.RemoteAddr)
}
