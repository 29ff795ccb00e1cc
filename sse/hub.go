package sse

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/kbukum/ntfywatch/logger"
)

// ErrHubStopped is returned by operations on a stopped Hub.
var ErrHubStopped = errors.New("sse: hub stopped")

// clientBuffer is the number of undelivered events a client may hold before
// further events are dropped for it.
const clientBuffer = 256

// Frame is one event queued for a client.
type Frame struct {
	Event string
	Data  []byte
}

// Client represents a connected SSE client.
type Client struct {
	id       string
	filter   string            // glob over event channels
	metadata map[string]string // remote address, user agent, ...
	events   chan Frame
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMetadata adds a metadata key-value pair to the client.
func WithMetadata(key, value string) ClientOption {
	return func(c *Client) {
		c.metadata[key] = value
	}
}

// WithFilter limits the client to channels matching a glob pattern,
// e.g. "new-message". The default "*" matches every channel.
func WithFilter(pattern string) ClientOption {
	return func(c *Client) {
		if pattern != "" {
			c.filter = pattern
		}
	}
}

// NewClient creates a new SSE client.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{
		id:       id,
		filter:   "*",
		metadata: make(map[string]string),
		events:   make(chan Frame, clientBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string                  { return c.id }
func (c *Client) Filter() string              { return c.filter }
func (c *Client) Metadata() map[string]string { return c.metadata }

// Events returns the channel for receiving events. It is closed when the
// client is unregistered or the hub stops.
func (c *Client) Events() <-chan Frame {
	return c.events
}

// Send queues a frame. Returns false if the client's buffer is full.
func (c *Client) Send(f Frame) bool {
	select {
	case c.events <- f:
		return true
	default:
		logger.Warn("sse client buffer full, dropping event", logger.Fields(
			"client_id", c.id,
			"event", f.Event,
		))
		return false
	}
}

func (c *Client) close() {
	close(c.events)
}

// message is a broadcast request.
type message struct {
	channel string
	data    []byte
}

// Hub manages SSE client connections and event broadcasting. All client map
// mutation happens on the Run goroutine.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex // guards clients for readers outside Run
	log        *logger.Logger
}

// NewHub creates a new SSE hub. Call Run to start delivering events.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, clientBuffer),
		done:       make(chan struct{}),
		log:        logger.WithComponent("sse"),
	}
}

// Run is the hub's event loop. It blocks until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.id]; ok {
				old.close()
			}
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client registered", logger.Fields("client_id", client.id, "total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.id]; ok && cur == client {
				delete(h.clients, client.id)
				client.close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client unregistered", logger.Fields("client_id", client.id, "total_clients", total))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop shuts the hub down, closing every client. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Stopped reports whether Stop has been called.
func (h *Hub) Stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.close()
		delete(h.clients, id)
	}
	h.log.Debug("all clients closed")
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Unregister removes a client from the hub and closes its event channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues data for every client whose filter matches channel.
func (h *Hub) Broadcast(channel string, data []byte) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- message{channel: channel, data: data}:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients {
		matched, err := filepath.Match(client.filter, msg.channel)
		if err != nil {
			h.log.Warn("bad client filter", logger.Fields("client_id", client.id, "filter", client.filter))
			continue
		}
		if matched && client.Send(Frame{Event: msg.channel, Data: msg.data}) {
			delivered++
		}
	}

	h.log.Debug("event broadcast", logger.Fields(
		"event", msg.channel,
		"delivered", delivered,
		"total_clients", len(h.clients),
	))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientIDs returns the IDs of all connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
