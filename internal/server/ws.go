package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/nvar/internal/probe"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// writeWait bounds each write so a stalled client cannot hold up the others.
const writeWait = 5 * time.Second

// eventConn is the part of *websocket.Conn the broadcast loop writes to.
type eventConn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// EventsHandler pushes probe reports to WebSocket clients.
type EventsHandler struct {
	clients map[eventConn]bool
	mu      sync.RWMutex
	events  chan []byte
	done    chan struct{}
	start   sync.Once
	once    sync.Once
}

// NewEventsHandler creates an EventsHandler. The broadcast loop starts with
// the first connection or event and stops on Close.
func NewEventsHandler() *EventsHandler {
	return &EventsHandler{
		clients: make(map[eventConn]bool),
		events:  make(chan []byte, 16),
		done:    make(chan struct{}),
	}
}

func (h *EventsHandler) run() {
	h.start.Do(func() {
		select {
		case <-h.done:
		default:
			go h.broadcast()
		}
	})
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.add(conn)
	defer h.remove(conn)
	h.run()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *EventsHandler) add(c eventConn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *EventsHandler) remove(c eventConn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues rep for all connected clients. Events are dropped when the
// queue is full or the handler is closed.
func (h *EventsHandler) Publish(rep *probe.Report) {
	msg, err := json.Marshal(map[string]any{
		"type":      "probe",
		"report":    rep,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("failed to encode probe event: %v", err)
		return
	}

	h.run()
	select {
	case <-h.done:
	case h.events <- msg:
	default:
		log.Printf("dropping probe event %s: queue full", rep.ID)
	}
}

// Close stops the broadcast loop. It is safe to call more than once.
func (h *EventsHandler) Close() {
	h.once.Do(func() { close(h.done) })
}

// broadcast sends queued events to all connected clients.
func (h *EventsHandler) broadcast() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.events:
			h.send(msg)
		}
	}
}

// send writes msg to a snapshot of the clients. A client whose write fails
// or times out is closed and dropped.
func (h *EventsHandler) send(msg []byte) {
	h.mu.RLock()
	conns := make([]eventConn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		err := c.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = c.WriteMessage(websocket.TextMessage, msg)
		}
		if err != nil {
			log.Printf("dropping websocket client: %v", err)
			h.remove(c)
			c.Close()
		}
	}
}
