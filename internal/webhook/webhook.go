// Package webhook posts theme change notifications to an external URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/internal/version"
)

// Config holds the webhook notifier configuration.
type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Enabled bool          `mapstructure:"enabled"`
}

// DefaultConfig returns an enabled notifier with no URL.
func DefaultConfig() Config {
	return Config{Timeout: 10 * time.Second, Enabled: true}
}

// Topics are the bus topics forwarded to the webhook.
var Topics = []string{
	event.TopicThemeCreated,
	event.TopicThemeUpdated,
	event.TopicThemeDeleted,
	event.TopicThemeApplied,
}

// Payload is the JSON body sent to the webhook URL.
type Payload struct {
	Event     string `json:"event"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// Notifier forwards theme events to the configured URL. Deliveries run in
// the background so a slow endpoint never holds up the API request that
// published the event.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
	unsubs []func()
	wg     sync.WaitGroup
}

// New creates a Notifier and subscribes it to bus.
func New(cfg Config, bus *event.Bus, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	n := &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}

	if cfg.URL == "" {
		logger.Warn("webhook URL not configured; notifications will be dropped")
	}
	if bus != nil {
		for _, topic := range Topics {
			n.unsubs = append(n.unsubs, bus.Subscribe(topic, n.handleEvent))
		}
	}

	logger.Info("webhook notifier initialized",
		zap.String("url", cfg.URL),
		zap.Duration("timeout", cfg.Timeout),
		zap.Bool("enabled", cfg.Enabled),
	)
	return n
}

// Close unsubscribes from the bus and waits for in-flight deliveries.
func (n *Notifier) Close() {
	for _, unsub := range n.unsubs {
		unsub()
	}
	n.unsubs = nil
	n.wg.Wait()
}

func (n *Notifier) handleEvent(ctx context.Context, e event.Event) {
	if !n.cfg.Enabled || n.cfg.URL == "" {
		return
	}

	body, err := json.Marshal(Payload{
		Event:     e.Topic,
		Source:    e.Source,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		Data:      e.Payload,
	})
	if err != nil {
		n.logger.Error("failed to marshal webhook payload",
			zap.String("topic", e.Topic),
			zap.Error(err),
		)
		return
	}

	// The publishing request may finish before delivery does.
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.send(ctx, body, e.Topic)
	}()
}

func (n *Notifier) send(ctx context.Context, body []byte, topic string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to create webhook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Themestudio-Webhook/"+version.Short())

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			zap.String("url", n.cfg.URL),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.Warn("webhook endpoint returned error",
			zap.String("url", n.cfg.URL),
			zap.String("topic", topic),
			zap.Int("status_code", resp.StatusCode),
		)
		return
	}

	n.logger.Debug("webhook delivered",
		zap.String("topic", topic),
		zap.Int("status_code", resp.StatusCode),
	)
}
