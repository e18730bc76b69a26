package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/internal/themes"
	"github.com/funaging/themestudio/pkg/theme"
)

// Config holds the theme feed configuration.
type Config struct {
	// OriginPatterns lists the hosts allowed to open the feed from a
	// browser, in coder/websocket pattern syntax. Empty means same origin.
	OriginPatterns []string `mapstructure:"origin_patterns"`
}

// ActiveSource reports the active theme for the snapshot sent on connect.
type ActiveSource interface {
	Active(ctx context.Context) (theme.Theme, error)
}

// Handler provides the WebSocket endpoint streaming theme changes.
type Handler struct {
	hub    *Hub
	active ActiveSource
	cfg    Config
	unsubs []func()
	logger *zap.Logger
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to theme events.
// bus and active may be nil.
func NewHandler(bus *event.Bus, active ActiveSource, cfg Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		hub:    NewHub(logger),
		active: active,
		cfg:    cfg,
		logger: logger,
	}
	h.subscribeToEvents(bus)
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/themes", h.handleThemeStream)
}

// Hub returns the handler's client hub.
func (h *Handler) Hub() *Hub { return h.hub }

// Close unsubscribes from the event bus.
func (h *Handler) Close() {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
}

// handleThemeStream upgrades the connection and streams theme events,
// starting with a snapshot of the active theme.
func (h *Handler) handleThemeStream(w http.ResponseWriter, r *http.Request) {
	// The feed outlives the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.OriginPatterns,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := newClient(uuid.NewString(), conn, h.logger)
	h.hub.Register(client)
	h.sendSnapshot(r.Context(), client)

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writeLoop(ctx)
		close(done)
	}()

	client.drain(ctx)

	h.hub.Unregister(client)
	_ = conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

func (h *Handler) sendSnapshot(ctx context.Context, c *Client) {
	if h.active == nil {
		return
	}
	t, err := h.active.Active(ctx)
	if err != nil {
		if !errors.Is(err, themes.ErrNoActive) {
			h.logger.Warn("load active theme for snapshot", zap.Error(err))
		}
		return
	}
	h.hub.Send(c, Message{
		Type:      MessageSnapshot,
		ThemeID:   t.ID,
		Timestamp: time.Now().UTC(),
		Data:      ThemeData{Name: t.Name, Theme: &t},
	})
}

// subscribeToEvents forwards theme events to all connected clients.
func (h *Handler) subscribeToEvents(bus *event.Bus) {
	if bus == nil {
		return
	}

	forward := map[string]MessageType{
		event.TopicThemeCreated: MessageThemeCreated,
		event.TopicThemeUpdated: MessageThemeUpdated,
		event.TopicThemeDeleted: MessageThemeDeleted,
		event.TopicThemeApplied: MessageThemeApplied,
	}
	for topic, typ := range forward {
		h.unsubs = append(h.unsubs, bus.Subscribe(topic, func(_ context.Context, e event.Event) {
			payload, ok := e.Payload.(themes.ThemeEvent)
			if !ok {
				return
			}
			data := ThemeData{Name: payload.Name, Theme: payload.Theme}
			if typ == MessageThemeDeleted {
				data.Theme = nil
			}
			h.hub.Broadcast(Message{
				Type:      typ,
				ThemeID:   payload.ThemeID,
				Timestamp: e.Timestamp,
				Data:      data,
			})
		}))
	}

	h.logger.Info("subscribed to theme events for WebSocket broadcasting")
}
