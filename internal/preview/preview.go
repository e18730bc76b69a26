// Package preview shows a candidate settings document on the style scope
// without committing it.
package preview

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/pkg/theme"
)

// Target receives documents to project.
type Target interface {
	Synthesize(s theme.Settings)
}

// Committed is the store holding the session's committed document.
type Committed interface {
	Settings() theme.Settings
	Subscribe(fn func(ctx context.Context, s theme.Settings)) (unsubscribe func())
}

// Controller tracks whether a preview is showing.
type Controller struct {
	mu        sync.Mutex
	active    bool
	candidate theme.Settings
	target    Target
	committed Committed
	bus       *event.Bus
	logger    *zap.Logger
	unsub     func()
}

// New creates a Controller. Any committed change to the store ends a running
// preview, since the synthesizer has already projected the committed value.
func New(target Target, committed Committed, bus *event.Bus, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		target:    target,
		committed: committed,
		bus:       bus,
		logger:    logger,
	}
	c.unsub = committed.Subscribe(func(ctx context.Context, _ theme.Settings) {
		c.end(ctx, "committed change")
	})
	return c
}

// Preview projects candidate. The store and the persisted theme are left
// untouched.
func (c *Controller) Preview(ctx context.Context, candidate theme.Settings) {
	c.mu.Lock()
	c.active = true
	c.candidate = candidate.Clone()
	c.mu.Unlock()

	c.target.Synthesize(candidate)
	c.logger.Debug("preview started")
	c.publish(ctx, true)
}

// Revert re-projects the committed document. It is a no-op when no preview
// is showing.
func (c *Controller) Revert(ctx context.Context) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.candidate = theme.Settings{}
	c.mu.Unlock()

	c.target.Synthesize(c.committed.Settings())
	c.logger.Debug("preview reverted")
	c.publish(ctx, false)
}

// Active reports whether a preview is showing.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Candidate returns the document being previewed.
func (c *Controller) Candidate() (theme.Settings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return theme.Settings{}, false
	}
	return c.candidate.Clone(), true
}

// Close stops watching the store.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

func (c *Controller) end(ctx context.Context, reason string) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.candidate = theme.Settings{}
	c.mu.Unlock()

	c.logger.Debug("preview ended", zap.String("reason", reason))
	c.publish(ctx, false)
}

func (c *Controller) publish(ctx context.Context, active bool) {
	if c.bus == nil {
		return
	}
	_ = c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicPreviewChanged,
		Source:  "preview",
		Payload: active,
	})
}
