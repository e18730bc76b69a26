// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/funaging/themestudio/internal/store"
	"github.com/funaging/themestudio/pkg/theme"
)

// NewStore opens a private in-memory database that is closed when the test
// finishes.
func NewStore(t testing.TB) *store.SQLiteStore {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// NewTheme returns a custom Theme with the default document, suitable for
// test fixtures. Override individual fields with options.
func NewTheme(opts ...func(*theme.Theme)) theme.Theme {
	now := time.Now().UTC()
	t := theme.Theme{
		ID:        uuid.New().String(),
		Name:      "Test Theme",
		Version:   1,
		Settings:  theme.Default(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithName sets the theme name.
func WithName(name string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.Name = name }
}

// WithPrimary sets the primary color.
func WithPrimary(hex string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.Settings.Colors.Primary = hex }
}

// WithContent sets one content override.
func WithContent(id, value string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.Settings.Content[id] = value }
}

// AsPreset marks the theme as a built-in preset.
func AsPreset() func(*theme.Theme) {
	return func(t *theme.Theme) { t.IsPreset = true }
}
