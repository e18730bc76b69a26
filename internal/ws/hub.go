// Package ws streams theme changes to connected editors over WebSocket.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

var (
	feedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "themestudio",
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Editors connected to the theme feed.",
	})
	feedDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "themestudio",
		Subsystem: "ws",
		Name:      "dropped_messages_total",
		Help:      "Feed messages dropped because a client's buffer was full.",
	})
)

func init() {
	prometheus.MustRegister(feedClients, feedDropped)
}

// Client is one editor subscribed to the feed.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan Message
	logger *zap.Logger
}

func newClient(id string, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		logger: logger.With(zap.String("client_id", id)),
	}
}

// Hub fans feed messages out to clients. Delivery never blocks: a client
// whose buffer is full misses the message.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[string]*Client), logger: logger}
}

// Register adds c to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	feedClients.Set(float64(n))
	h.logger.Debug("feed client connected", zap.String("client_id", c.id), zap.Int("clients", n))
}

// Unregister removes c and closes its queue. Unknown clients are ignored.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	removed := h.clients[c.id] == c
	if removed {
		delete(h.clients, c.id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if removed {
		feedClients.Set(float64(n))
		h.logger.Debug("feed client disconnected", zap.String("client_id", c.id))
	}
}

// Send queues msg for c alone and reports whether it was queued.
func (h *Hub) Send(c *Client, msg Message) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[c.id] != c {
		return false
	}
	return h.enqueue(c, msg)
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		h.enqueue(c, msg)
	}
}

// enqueue must be called with h.mu held.
func (h *Hub) enqueue(c *Client, msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		feedDropped.Inc()
		h.logger.Warn("feed buffer full, message dropped",
			zap.String("client_id", c.id), zap.String("type", string(msg.Type)))
		return false
	}
}

// ClientCount reports how many clients are registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writeLoop copies queued messages to the socket until the queue closes,
// ctx ends, or a write fails.
func (c *Client) writeLoop(ctx context.Context) {
	for {
		var msg Message
		var ok bool
		select {
		case <-ctx.Done():
			return
		case msg, ok = <-c.send:
		}
		if !ok {
			return
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, c.conn, msg)
		cancel()
		if err != nil {
			c.logger.Debug("feed write failed", zap.Error(err))
			return
		}
	}
}

// drain discards inbound frames until the peer disconnects. The feed is
// one-way; reading keeps control frames flowing.
func (c *Client) drain(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}
