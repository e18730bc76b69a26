// Package override resolves per-element content and style overrides and
// routes operator edits for them through the settings merge.
package override

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/validate"
	"github.com/funaging/themestudio/pkg/theme"
)

// ErrInvalidElementID is returned for writes whose element id does not
// follow the naming convention.
var ErrInvalidElementID = errors.New("invalid element id")

// Source is the document the registry reads from and writes to.
type Source interface {
	Content(id string) (string, bool)
	Style(id string) (theme.ElementStyle, bool)
	Update(ctx context.Context, patch theme.Patch) ([]theme.Rejection, error)
}

// Registry is the lookup every overridable element calls at render time.
type Registry struct {
	src     Source
	catalog *Catalog
	devMode bool
	logger  *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithDevMode makes writes to unregistered element ids log a warning.
func WithDevMode(enabled bool) Option {
	return func(r *Registry) { r.devMode = enabled }
}

// WithCatalog sets the catalog of known element ids.
func WithCatalog(c *Catalog) Option {
	return func(r *Registry) { r.catalog = c }
}

// New creates a Registry over src.
func New(src Source, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		src:     src,
		catalog: NewCatalog(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the registry's element id catalog.
func (r *Registry) Catalog() *Catalog { return r.catalog }

// Content returns the override for id, or fallback when none is set.
func (r *Registry) Content(id, fallback string) string {
	if v, ok := r.src.Content(id); ok {
		return v
	}
	return fallback
}

// HasContent reports whether a content override exists for id.
func (r *Registry) HasContent(id string) bool {
	_, ok := r.src.Content(id)
	return ok
}

// Style returns the style override for id. The zero ElementStyle means no
// override.
func (r *Registry) Style(id string) theme.ElementStyle {
	st, _ := r.src.Style(id)
	return st
}

// StyleOver returns base with the override for id laid on top.
func (r *Registry) StyleOver(id string, base theme.ElementStyle) theme.ElementStyle {
	st, ok := r.src.Style(id)
	if !ok {
		return base
	}
	return st.Over(base)
}

// SetContent stores value as the content override for id. A later call
// replaces it.
func (r *Registry) SetContent(ctx context.Context, id, value string) error {
	if err := r.checkWrite(id); err != nil {
		return err
	}
	_, err := r.src.Update(ctx, theme.Patch{
		"content": map[string]any{id: value},
	})
	return err
}

// SetStyle merges patch, property by property, into the style override for
// id. A nil property value removes it. Properties that do not fit are
// returned as rejections.
func (r *Registry) SetStyle(ctx context.Context, id string, patch theme.Patch) ([]theme.Rejection, error) {
	if err := r.checkWrite(id); err != nil {
		return nil, err
	}
	return r.src.Update(ctx, theme.Patch{
		"styles": map[string]any{id: map[string]any(patch)},
	})
}

// ResetContent removes the content override for id.
func (r *Registry) ResetContent(ctx context.Context, id string) error {
	if err := r.checkWrite(id); err != nil {
		return err
	}
	_, err := r.src.Update(ctx, theme.Patch{
		"content": map[string]any{id: nil},
	})
	return err
}

// ResetStyle removes the whole style override for id.
func (r *Registry) ResetStyle(ctx context.Context, id string) error {
	if err := r.checkWrite(id); err != nil {
		return err
	}
	_, err := r.src.Update(ctx, theme.Patch{
		"styles": map[string]any{id: nil},
	})
	return err
}

func (r *Registry) checkWrite(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if r.devMode && !r.catalog.Known(id) {
		r.logger.Warn("override written for unregistered element id",
			zap.String("element_id", id),
		)
	}
	return nil
}

// ValidateID checks id against the element identifier convention.
func ValidateID(id string) error {
	if err := validate.ElementID(id); err != nil {
		return fmt.Errorf("%w %q", ErrInvalidElementID, id)
	}
	return nil
}
