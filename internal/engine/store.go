package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/pkg/theme"
)

// ErrStoreClosed is returned by writes to a store that has been torn down.
var ErrStoreClosed = errors.New("settings store closed")

const storeSource = "store"

// Store holds the session's settings document. Every committed change is
// published as a settings.changed event on the bus before the write returns,
// so subscribers never observe a document they have not been told about.
// Writes are serialized through publication, so concurrent writers are
// announced in commit order. Subscribers must not write to the store.
type Store struct {
	commit   sync.Mutex // held from commit through publish
	mu       sync.RWMutex
	settings theme.Settings
	open     bool
	bus      *event.Bus
	logger   *zap.Logger
}

// NewStore creates a store holding the default document. It accepts writes
// only after Init.
func NewStore(bus *event.Bus, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		settings: theme.Default(),
		bus:      bus,
		logger:   logger,
	}
}

// Init opens the store and announces the current document so that
// subscribers attached before Init can project it.
func (s *Store) Init(ctx context.Context) {
	s.commit.Lock()
	defer s.commit.Unlock()

	s.mu.Lock()
	s.open = true
	snap := s.settings.Clone()
	s.mu.Unlock()
	s.publish(ctx, snap, "init")
}

// Teardown closes the store. The document is kept readable but further
// writes fail with ErrStoreClosed.
func (s *Store) Teardown(context.Context) {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// Settings returns a deep copy of the current document.
func (s *Store) Settings() theme.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Content returns the content override for id, if one is set.
func (s *Store) Content(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings.Content[id]
	return v, ok
}

// Style returns a copy of the style override for id, if one is set.
func (s *Store) Style(id string) (theme.ElementStyle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settings.Styles[id]
	if !ok {
		return theme.ElementStyle{}, false
	}
	return theme.ElementStyle{}.Over(st), true
}

// Update merges patch into the current document and notifies subscribers.
// Leaves that do not fit the schema are dropped, logged and returned; the
// rest of the patch still applies.
func (s *Store) Update(ctx context.Context, patch theme.Patch) ([]theme.Rejection, error) {
	s.commit.Lock()
	defer s.commit.Unlock()

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	merged, rejections := theme.Merge(s.settings, patch)
	s.settings = merged
	snap := merged.Clone()
	s.mu.Unlock()

	s.logRejections(rejections)
	s.publish(ctx, snap, "update")
	return rejections, nil
}

// Replace swaps the whole document, as the bootstrap load does. next must
// be complete; callers normalize wire input first.
func (s *Store) Replace(ctx context.Context, next theme.Settings) error {
	s.commit.Lock()
	defer s.commit.Unlock()

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.settings = next.Clone()
	snap := next.Clone()
	s.mu.Unlock()

	s.publish(ctx, snap, "replace")
	return nil
}

// Subscribe calls fn with a copy of the document after every committed
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(ctx context.Context, settings theme.Settings)) (unsubscribe func()) {
	return s.bus.Subscribe(event.TopicSettingsChanged, func(ctx context.Context, e event.Event) {
		if e.Source != storeSource {
			return
		}
		if settings, ok := e.Payload.(theme.Settings); ok {
			fn(ctx, settings.Clone())
		}
	})
}

func (s *Store) publish(ctx context.Context, snap theme.Settings, kind string) {
	settingsUpdatesTotal.WithLabelValues(kind).Inc()
	_ = s.bus.Publish(ctx, event.Event{
		Topic:   event.TopicSettingsChanged,
		Source:  storeSource,
		Payload: snap,
	})
}

func (s *Store) logRejections(rejections []theme.Rejection) {
	for _, r := range rejections {
		branch, _, _ := strings.Cut(r.Path, ".")
		mergeRejectionsTotal.WithLabelValues(branch).Inc()
		s.logger.Warn("settings patch leaf rejected",
			zap.String("path", r.Path),
			zap.String("reason", r.Reason),
		)
	}
}
