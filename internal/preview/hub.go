package preview

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/salonsite/internal/logfields"
)

const (
	clientBuffer      = 8
	heartbeatInterval = 30 * time.Second
)

// Hub streams preview messages to browsers over server-sent events.
// A client that falls behind by more than its buffer is disconnected.
type Hub struct {
	options
	mu      sync.RWMutex
	nextID  int
	clients map[int]*hubClient
	closed  bool
}

type hubClient struct {
	id   int
	ch   chan []byte
	done chan struct{}
}

func NewHub(opts ...Option) *Hub {
	return &Hub{options: newOptions(opts), clients: map[int]*hubClient{}}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP is the event stream endpoint.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	client, ok := h.register()
	if !ok {
		http.Error(w, "preview shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.remove(client.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	bw := bufio.NewWriter(w)
	write := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			h.logger.Debug("Preview stream write failed", logfields.Error(err))
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}
	if !write(": connected\n\n") {
		return
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case <-hb.C:
			if !write(": ping\n\n") {
				return
			}
		case data := <-client.ch:
			if !write("data: " + string(data) + "\n\n") {
				return
			}
		}
	}
}

func (h *Hub) register() (*hubClient, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	c := &hubClient{id: h.nextID, ch: make(chan []byte, clientBuffer), done: make(chan struct{})}
	h.nextID++
	h.clients[c.id] = c
	h.metrics.SetPreviewClients(len(h.clients))
	return c, true
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
		h.metrics.SetPreviewClients(len(h.clients))
	}
}

// Send delivers msg to every connected client without blocking.
func (h *Hub) Send(_ context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode preview message", logfields.MessageID(msg.ID), logfields.Error(err))
		return
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	snapshot := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- data:
		default:
			dropped++
			h.metrics.IncPreviewDropped("slow_client")
			h.remove(c.id)
		}
	}
	h.metrics.IncPreviewMessage("sse")
	h.logger.Debug("Preview broadcast",
		logfields.MessageID(msg.ID), logfields.Kind(string(msg.Type)),
		logfields.Clients(len(snapshot)), "dropped", dropped)
}

// Shutdown disconnects every client and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.done)
	}
	h.metrics.SetPreviewClients(0)
}
