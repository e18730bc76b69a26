package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap/zaptest"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/internal/themes"
	"github.com/funaging/themestudio/pkg/theme"
)

type staticActive struct {
	t   theme.Theme
	err error
}

func (s staticActive) Active(context.Context) (theme.Theme, error) { return s.t, s.err }

// rawMessage mirrors Message with a decodable payload.
type rawMessage struct {
	Type    MessageType `json:"type"`
	ThemeID string      `json:"theme_id"`
	Data    ThemeData   `json:"data"`
}

func dialFeed(t *testing.T, h *Handler) (*websocket.Conn, context.Context) {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/themes"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestThemeStream(t *testing.T) {
	bus := event.NewBus(zaptest.NewLogger(t))
	active := theme.Theme{ID: "t-1", Name: "FunAging Classic", Settings: theme.Default()}
	h := NewHandler(bus, staticActive{t: active}, Config{}, zaptest.NewLogger(t))
	defer h.Close()

	conn, ctx := dialFeed(t, h)

	var snap rawMessage
	if err := wsjson.Read(ctx, conn, &snap); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if snap.Type != MessageSnapshot || snap.ThemeID != "t-1" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Data.Theme == nil || snap.Data.Theme.Settings.Colors.Primary != "#F36F21" {
		t.Errorf("snapshot theme = %+v", snap.Data.Theme)
	}

	applied := theme.Theme{ID: "t-2", Name: "Ocean Calm"}
	_ = bus.Publish(ctx, event.Event{
		Topic:   event.TopicThemeApplied,
		Payload: themes.ThemeEvent{ThemeID: applied.ID, Name: applied.Name, Theme: &applied},
	})

	var msg rawMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if msg.Type != MessageThemeApplied || msg.ThemeID != "t-2" || msg.Data.Name != "Ocean Calm" {
		t.Errorf("event = %+v", msg)
	}

	_ = bus.Publish(ctx, event.Event{
		Topic:   event.TopicThemeDeleted,
		Payload: themes.ThemeEvent{ThemeID: "t-3", Name: "Gone", Theme: &applied},
	})
	msg = rawMessage{}
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read delete event: %v", err)
	}
	if msg.Type != MessageThemeDeleted || msg.Data.Theme != nil {
		t.Errorf("delete event = %+v", msg)
	}
}

func TestThemeStreamWithoutActiveTheme(t *testing.T) {
	bus := event.NewBus(nil)
	h := NewHandler(bus, staticActive{err: themes.ErrNoActive}, Config{}, zaptest.NewLogger(t))
	defer h.Close()

	conn, ctx := dialFeed(t, h)
	waitForClients(t, h.Hub(), 1)

	_ = bus.Publish(ctx, event.Event{
		Topic:   event.TopicThemeCreated,
		Payload: themes.ThemeEvent{ThemeID: "t-9", Name: "New"},
	})

	// The first message is the event: no snapshot was queued.
	var msg rawMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != MessageThemeCreated {
		t.Errorf("Type = %q, want %q", msg.Type, MessageThemeCreated)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	bus := event.NewBus(nil)
	h := NewHandler(bus, nil, Config{}, nil)
	if n := bus.Subscribers(event.TopicThemeApplied); n != 1 {
		t.Fatalf("Subscribers() = %d, want 1", n)
	}
	h.Close()
	if n := bus.Subscribers(event.TopicThemeApplied); n != 0 {
		t.Errorf("Subscribers() after Close = %d, want 0", n)
	}
}
