package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funaging/themestudio/internal/event"
)

func TestNew_SubscribesToThemeTopics(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	n := New(DefaultConfig(), bus, zap.NewNop())

	for _, topic := range Topics {
		if got := bus.Subscribers(topic); got != 1 {
			t.Errorf("Subscribers(%q) = %d, want 1", topic, got)
		}
	}
	if got := bus.Subscribers(event.TopicSettingsChanged); got != 0 {
		t.Errorf("settings.changed subscribers = %d, want 0", got)
	}

	n.Close()
	for _, topic := range Topics {
		if got := bus.Subscribers(topic); got != 0 {
			t.Errorf("after Close Subscribers(%q) = %d, want 0", topic, got)
		}
	}
}

func TestHandleEvent_DeliversWebhook(t *testing.T) {
	var mu sync.Mutex
	var received []Payload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "Themestudio-Webhook/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, p)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bus := event.NewBus(zap.NewNop())
	n := New(Config{URL: srv.URL, Timeout: 5 * time.Second, Enabled: true}, bus, zap.NewNop())

	_ = bus.Publish(context.Background(), event.Event{
		Topic:     event.TopicThemeApplied,
		Source:    "themes",
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Payload:   map[string]string{"theme_id": "t-1"},
	})
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("received %d webhooks, want 1", len(received))
	}
	if received[0].Event != event.TopicThemeApplied {
		t.Errorf("event = %q, want %q", received[0].Event, event.TopicThemeApplied)
	}
	if received[0].Source != "themes" {
		t.Errorf("source = %q, want themes", received[0].Source)
	}
	if received[0].Timestamp != "2026-01-01T00:00:00Z" {
		t.Errorf("timestamp = %q", received[0].Timestamp)
	}
}

func TestHandleEvent_OutlivesPublisherContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL, Enabled: true}, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	n.handleEvent(ctx, event.Event{Topic: event.TopicThemeCreated, Timestamp: time.Now()})
	cancel()
	n.Close()

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestHandleEvent_SkipsWhenDisabled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL, Enabled: false}, nil, zap.NewNop())
	n.handleEvent(context.Background(), event.Event{Topic: event.TopicThemeApplied, Timestamp: time.Now()})
	n.Close()

	if calls.Load() != 0 {
		t.Error("expected webhook NOT to be called when disabled")
	}
}

func TestNew_WarnsWithoutURL(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	n := New(DefaultConfig(), nil, zap.New(core))

	// Dropped silently once the warning has been logged.
	n.handleEvent(context.Background(), event.Event{Topic: event.TopicThemeApplied, Timestamp: time.Now()})
	n.Close()

	if logs.FilterMessage("webhook URL not configured; notifications will be dropped").Len() != 1 {
		t.Errorf("expected missing URL warning, got %v", logs.All())
	}
}

func TestHandleEvent_LogsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	n := New(Config{URL: srv.URL, Enabled: true}, nil, zap.New(core))
	n.handleEvent(context.Background(), event.Event{
		Topic:     event.TopicThemeDeleted,
		Timestamp: time.Now(),
		Payload:   map[string]string{"theme_id": "t-1"},
	})
	n.Close()

	entries := logs.FilterMessage("webhook endpoint returned error").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status_code"]; got != int64(http.StatusInternalServerError) {
		t.Errorf("status_code = %v, want 500", got)
	}
}
