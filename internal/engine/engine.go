// Package engine wires the session-resident theme editing engine: the
// settings store, the style variable synthesizer, overrides, selection,
// preview and the Theme API gateway.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/internal/gateway"
	"github.com/funaging/themestudio/internal/override"
	"github.com/funaging/themestudio/internal/preview"
	"github.com/funaging/themestudio/internal/selection"
	"github.com/funaging/themestudio/internal/synth"
	"github.com/funaging/themestudio/pkg/theme"
)

// Errors returned by persistence operations. The in-memory document is left
// unchanged whenever one of them is returned.
var (
	ErrSaveFailed  = errors.New("save theme failed")
	ErrApplyFailed = errors.New("apply theme failed")
	ErrNoTheme     = errors.New("no current theme")
	ErrPresetTheme = errors.New("preset themes cannot be modified")
)

// ErrAlreadyStarted is returned by Init on a session that is already running.
var ErrAlreadyStarted = errors.New("engine already initialized")

// Gateway is the Theme API as seen by the engine.
type Gateway interface {
	LoadActive(ctx context.Context) (theme.Theme, error)
	Get(ctx context.Context, id string) (theme.Theme, error)
	Create(ctx context.Context, req gateway.CreateRequest) (theme.Theme, error)
	Update(ctx context.Context, id string, req gateway.UpdateRequest) (theme.Theme, error)
	Apply(ctx context.Context, id string, preview bool) (theme.Theme, error)
	Preview(ctx context.Context, id string) (theme.Theme, error)
	Export(ctx context.Context, id string) (theme.Document, error)
	Import(ctx context.Context, doc theme.Document) (theme.Theme, error)
}

// Config holds editor options.
type Config struct {
	DevMode bool `mapstructure:"dev_mode"` // Warn on writes to unregistered element ids
}

// Engine is one editing session.
type Engine struct {
	bus       *event.Bus
	store     *Store
	scope     synth.Scope
	synth     *synth.Synthesizer
	overrides *override.Registry
	selection *selection.Controller
	preview   *preview.Controller
	gateway   Gateway
	logger    *zap.Logger

	mu      sync.Mutex
	current *theme.Theme
	detach  func()
	closed  bool
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	scope   synth.Scope
	bus     *event.Bus
	catalog *override.Catalog
	cfg     Config
}

// WithScope sets the scope style variables are written to. The default is a
// fresh synth.RootScope.
func WithScope(s synth.Scope) Option {
	return func(o *options) { o.scope = s }
}

// WithBus shares an existing event bus.
func WithBus(b *event.Bus) Option {
	return func(o *options) { o.bus = b }
}

// WithCatalog sets the element id catalog used by the override registry.
func WithCatalog(c *override.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithConfig sets editor options.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// New builds an Engine. Call Init before use and Teardown when the session
// ends.
func New(gw Gateway, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scope == nil {
		o.scope = synth.NewRootScope()
	}
	if o.bus == nil {
		o.bus = event.NewBus(logger.Named("bus"))
	}
	if o.catalog == nil {
		o.catalog = override.NewCatalog()
	}

	store := NewStore(o.bus, logger.Named("store"))
	sy := synth.New(o.scope, logger.Named("synth"))
	reg := override.New(store, logger.Named("overrides"),
		override.WithCatalog(o.catalog),
		override.WithDevMode(o.cfg.DevMode),
	)

	e := &Engine{
		bus:       o.bus,
		store:     store,
		scope:     o.scope,
		synth:     sy,
		overrides: reg,
		selection: selection.New(reg, o.bus, logger.Named("selection")),
		gateway:   gw,
		logger:    logger.Named("engine"),
	}
	e.preview = e.newPreview()
	return e
}

func (e *Engine) newPreview() *preview.Controller {
	return preview.New(e.synth, e.store, e.bus, e.logger.Named("preview"))
}

// Init subscribes the synthesizer, projects the default document and then
// replaces it with the active theme. A failed load is logged and the
// defaults stay in place. Init fails if ctx is already done or the session
// is running; a torn-down session may be started again.
func (e *Engine) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.detach != nil {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.detach = e.synth.Attach(e.bus)
	if e.closed {
		e.preview = e.newPreview()
		e.closed = false
	}
	e.mu.Unlock()

	e.store.Init(ctx)

	active, err := e.gateway.LoadActive(ctx)
	if err != nil {
		e.logger.Warn("load active theme failed, using defaults", zap.Error(err))
		return nil
	}
	if err := e.store.Replace(ctx, active.Settings); err != nil {
		return err
	}
	e.setCurrent(active)
	e.logger.Info("active theme loaded",
		zap.String("theme_id", active.ID),
		zap.String("name", active.Name),
	)
	return nil
}

// Teardown ends the session: selection returns to Inert, any preview is
// dropped, and the store stops accepting writes.
func (e *Engine) Teardown(ctx context.Context) {
	e.selection.DisableEditMode(ctx)

	e.mu.Lock()
	if !e.closed {
		e.preview.Close()
		e.closed = true
	}
	if e.detach != nil {
		e.detach()
		e.detach = nil
	}
	e.mu.Unlock()

	e.store.Teardown(ctx)
	e.logger.Debug("session torn down")
}

// Settings returns a copy of the committed document.
func (e *Engine) Settings() theme.Settings { return e.store.Settings() }

// Store returns the settings store.
func (e *Engine) Store() *Store { return e.store }

// Scope returns the scope the synthesizer writes to.
func (e *Engine) Scope() synth.Scope { return e.scope }

// Variables returns the style variables currently projected.
func (e *Engine) Variables() []synth.Variable { return e.synth.Variables() }

// Overrides returns the override registry.
func (e *Engine) Overrides() *override.Registry { return e.overrides }

// Selection returns the selection controller.
func (e *Engine) Selection() *selection.Controller { return e.selection }

// Preview returns the preview controller.
func (e *Engine) Preview() *preview.Controller {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview
}

// Bus returns the session's event bus.
func (e *Engine) Bus() *event.Bus { return e.bus }

// Current returns the theme the session was loaded from or last saved to.
func (e *Engine) Current() (theme.Theme, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return theme.Theme{}, false
	}
	t := *e.current
	t.Settings = t.Settings.Clone()
	return t, true
}

// Update merges an operator patch into the document.
func (e *Engine) Update(ctx context.Context, patch theme.Patch) ([]theme.Rejection, error) {
	return e.store.Update(ctx, patch)
}

// Reset restores the compiled-in default document.
func (e *Engine) Reset(ctx context.Context) error {
	return e.store.Replace(ctx, theme.Default())
}

// Save stores the current document as a new theme. On failure the error
// wraps ErrSaveFailed. The document is not modified either way, so edits
// made while the request was in flight are kept.
func (e *Engine) Save(ctx context.Context, name, description string) (theme.Theme, error) {
	saved, err := e.gateway.Create(ctx, gateway.CreateRequest{
		Name:        name,
		Description: description,
		Settings:    e.store.Settings(),
	})
	observeOp("save", err)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	e.setCurrent(saved)
	e.logger.Info("theme saved", zap.String("theme_id", saved.ID), zap.String("name", saved.Name))
	return saved, nil
}

// SaveChanges writes the current document back to the current theme.
// Preset themes are read-only; save those under a new name with Save.
func (e *Engine) SaveChanges(ctx context.Context) (theme.Theme, error) {
	cur, ok := e.Current()
	if !ok {
		return theme.Theme{}, fmt.Errorf("%w: %w", ErrSaveFailed, ErrNoTheme)
	}
	if cur.IsPreset {
		return theme.Theme{}, fmt.Errorf("%w: %w", ErrSaveFailed, ErrPresetTheme)
	}

	settings := e.store.Settings()
	saved, err := e.gateway.Update(ctx, cur.ID, gateway.UpdateRequest{Settings: &settings})
	observeOp("update", err)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	e.setCurrent(saved)
	e.logger.Info("theme updated", zap.String("theme_id", saved.ID), zap.Int("version", saved.Version))
	return saved, nil
}

// Apply makes id the site-wide active theme and loads its settings. On
// failure the error wraps ErrApplyFailed and the document is unchanged.
func (e *Engine) Apply(ctx context.Context, id string) (theme.Theme, error) {
	applied, err := e.gateway.Apply(ctx, id, false)
	observeOp("apply", err)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("%w: %w", ErrApplyFailed, err)
	}
	if err := e.store.Replace(ctx, applied.Settings); err != nil {
		return theme.Theme{}, fmt.Errorf("%w: %w", ErrApplyFailed, err)
	}
	e.setCurrent(applied)
	e.logger.Info("theme applied", zap.String("theme_id", applied.ID), zap.String("name", applied.Name))
	return applied, nil
}

// PreviewTheme fetches a stored theme and previews it without committing.
func (e *Engine) PreviewTheme(ctx context.Context, id string) (theme.Theme, error) {
	t, err := e.gateway.Preview(ctx, id)
	observeOp("preview", err)
	if err != nil {
		return theme.Theme{}, err
	}
	e.Preview().Preview(ctx, t.Settings)
	return t, nil
}

// PreviewSettings previews a candidate document without committing it.
func (e *Engine) PreviewSettings(ctx context.Context, candidate theme.Settings) {
	e.Preview().Preview(ctx, candidate)
}

// RevertPreview restores the committed document's variables.
func (e *Engine) RevertPreview(ctx context.Context) {
	e.Preview().Revert(ctx)
}

// Export fetches the export envelope for id.
func (e *Engine) Export(ctx context.Context, id string) (theme.Document, error) {
	doc, err := e.gateway.Export(ctx, id)
	observeOp("export", err)
	return doc, err
}

// ExportCurrent builds an export envelope from the session's document
// without a round trip.
func (e *Engine) ExportCurrent(name string) theme.Document {
	doc := theme.Document{Name: name, Settings: e.store.Settings()}
	if cur, ok := e.Current(); ok {
		if doc.Name == "" {
			doc.Name = cur.Name
		}
		doc.Description = cur.Description
	}
	return doc
}

// Import stores doc as a new theme. It does not change the session's
// document; apply the returned theme to use it.
func (e *Engine) Import(ctx context.Context, doc theme.Document) (theme.Theme, error) {
	t, err := e.gateway.Import(ctx, doc)
	observeOp("import", err)
	return t, err
}

func (e *Engine) setCurrent(t theme.Theme) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t.Settings = t.Settings.Clone()
	e.current = &t
}
