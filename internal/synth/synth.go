package synth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/pkg/theme"
)

// Synthesizer writes the projection of a document into a Scope. It remembers
// which variables it wrote so that variables dropped by a later document are
// removed instead of left behind.
type Synthesizer struct {
	mu      sync.Mutex
	scope   Scope
	written map[string]string
	last    []Variable
	logger  *zap.Logger
}

// New creates a Synthesizer writing to scope.
func New(scope Scope, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		scope:   scope,
		written: make(map[string]string),
		logger:  logger,
	}
}

// Synthesize projects s onto the scope. Unchanged variables are not
// rewritten; variables from the previous run that s no longer produces are
// removed.
func (sy *Synthesizer) Synthesize(s theme.Settings) {
	vars := Project(s)

	sy.mu.Lock()
	defer sy.mu.Unlock()

	next := make(map[string]string, len(vars))
	for _, v := range vars {
		next[v.Name] = v.Value
		if prev, ok := sy.written[v.Name]; ok && prev == v.Value {
			continue
		}
		sy.scope.SetProperty(v.Name, v.Value)
	}
	removed := 0
	for name := range sy.written {
		if _, ok := next[name]; !ok {
			sy.scope.RemoveProperty(name)
			removed++
		}
	}
	sy.written = next
	sy.last = vars

	sy.logger.Debug("synthesized style variables",
		zap.Int("count", len(vars)),
		zap.Int("removed", removed),
	)
}

// Clear removes every variable the synthesizer has written.
func (sy *Synthesizer) Clear() {
	sy.mu.Lock()
	defer sy.mu.Unlock()
	for name := range sy.written {
		sy.scope.RemoveProperty(name)
	}
	sy.written = make(map[string]string)
	sy.last = nil
}

// Variables returns the variables written by the last run, in projection order.
func (sy *Synthesizer) Variables() []Variable {
	sy.mu.Lock()
	defer sy.mu.Unlock()
	out := make([]Variable, len(sy.last))
	copy(out, sy.last)
	return out
}

// Attach subscribes the synthesizer to settings.changed events on bus. The
// event payload must be a theme.Settings; anything else is logged and
// ignored. The returned function detaches it.
func (sy *Synthesizer) Attach(bus *event.Bus) (detach func()) {
	return bus.Subscribe(event.TopicSettingsChanged, func(_ context.Context, e event.Event) {
		s, ok := e.Payload.(theme.Settings)
		if !ok {
			sy.logger.Warn("settings event without settings payload",
				zap.String("source", e.Source),
			)
			return
		}
		sy.Synthesize(s)
	})
}
