// Package selection tracks edit mode and the element currently being edited.
package selection

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/pkg/theme"
)

// ErrNoSelection is returned by edits issued while no element is selected.
var ErrNoSelection = errors.New("no element selected")

// State is one of Inert, Armed or Editing.
type State interface {
	isState()
	String() string
}

// Inert means edit mode is off. Overrides still render but cannot be edited.
type Inert struct{}

// Armed means edit mode is on and nothing is selected yet.
type Armed struct{}

// Editing means edit mode is on and ID is selected.
type Editing struct {
	ID string
}

func (Inert) isState()   {}
func (Armed) isState()   {}
func (Editing) isState() {}

func (Inert) String() string     { return "inert" }
func (Armed) String() string     { return "armed" }
func (e Editing) String() string { return "editing(" + e.ID + ")" }

// Editor is where edits for the selected element go.
type Editor interface {
	SetContent(ctx context.Context, id, value string) error
	SetStyle(ctx context.Context, id string, patch theme.Patch) ([]theme.Rejection, error)
}

// Change is the payload of selection.changed events.
type Change struct {
	From State
	To   State
}

// Controller is the selection state machine.
type Controller struct {
	mu     sync.Mutex
	state  State
	editor Editor
	bus    *event.Bus
	logger *zap.Logger
}

// New creates a Controller in the Inert state.
func New(editor Editor, bus *event.Bus, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		state:  Inert{},
		editor: editor,
		bus:    bus,
		logger: logger,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// EditMode reports whether edit mode is on.
func (c *Controller) EditMode() bool {
	_, inert := c.State().(Inert)
	return !inert
}

// Selected returns the selected element id, if any.
func (c *Controller) Selected() (string, bool) {
	if e, ok := c.State().(Editing); ok {
		return e.ID, true
	}
	return "", false
}

// IsSelected reports whether id is the element being edited.
func (c *Controller) IsSelected(id string) bool {
	sel, ok := c.Selected()
	return ok && sel == id
}

// EnableEditMode moves Inert to Armed. It has no effect in edit mode.
func (c *Controller) EnableEditMode(ctx context.Context) {
	c.transition(ctx, func(s State) State {
		if _, ok := s.(Inert); ok {
			return Armed{}
		}
		return s
	})
}

// DisableEditMode returns to Inert from any state, dropping the selection.
func (c *Controller) DisableEditMode(ctx context.Context) {
	c.transition(ctx, func(State) State { return Inert{} })
}

// ToggleEditMode flips edit mode.
func (c *Controller) ToggleEditMode(ctx context.Context) {
	c.transition(ctx, func(s State) State {
		if _, ok := s.(Inert); ok {
			return Armed{}
		}
		return Inert{}
	})
}

// Click selects id when edit mode is on. Clicking while Inert does nothing.
func (c *Controller) Click(ctx context.Context, id string) {
	c.transition(ctx, func(s State) State {
		if _, ok := s.(Inert); ok || id == "" {
			return s
		}
		return Editing{ID: id}
	})
}

// Deselect drops the selection, returning Editing to Armed.
func (c *Controller) Deselect(ctx context.Context) {
	c.transition(ctx, func(s State) State {
		if _, ok := s.(Editing); ok {
			return Armed{}
		}
		return s
	})
}

// EditContent sets the content override of the selected element.
func (c *Controller) EditContent(ctx context.Context, value string) error {
	id, ok := c.Selected()
	if !ok {
		return ErrNoSelection
	}
	return c.editor.SetContent(ctx, id, value)
}

// EditStyle merges patch into the style override of the selected element.
func (c *Controller) EditStyle(ctx context.Context, patch theme.Patch) ([]theme.Rejection, error) {
	id, ok := c.Selected()
	if !ok {
		return nil, ErrNoSelection
	}
	return c.editor.SetStyle(ctx, id, patch)
}

func (c *Controller) transition(ctx context.Context, next func(State) State) {
	c.mu.Lock()
	from := c.state
	to := next(from)
	c.state = to
	c.mu.Unlock()

	if from == to {
		return
	}
	c.logger.Debug("selection changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	if c.bus != nil {
		_ = c.bus.Publish(ctx, event.Event{
			Topic:   event.TopicSelectionChanged,
			Source:  "selection",
			Payload: Change{From: from, To: to},
		})
	}
}
