package themes

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/pkg/theme"
)

type recorder struct {
	mu     sync.Mutex
	topics []string
}

func (r *recorder) handle(_ context.Context, e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, e.Topic)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.topics...)
}

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	bus := event.NewBus(zap.NewNop())
	rec := &recorder{}
	bus.SubscribeAll(rec.handle)

	svc := NewService(newTestStore(t), bus, zap.NewNop())
	require.NoError(t, svc.Seed(context.Background()))
	return svc, rec
}

func presetByName(t *testing.T, svc *Service, name string) theme.Theme {
	t.Helper()
	list, err := svc.ListPresets(context.Background())
	require.NoError(t, err)
	for _, p := range list {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("preset %q not found", name)
	return theme.Theme{}
}

func TestService_Seed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.ListPresets(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPresetName, active.Name)
	assert.Equal(t, theme.Default(), active.Settings)

	// Seeding again is a no-op.
	require.NoError(t, svc.Seed(ctx))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestService_CreateFillsDefaults(t *testing.T) {
	svc, rec := newTestService(t)

	created, err := svc.Create(context.Background(), CreateRequest{
		Name:     "  Mine  ",
		Settings: theme.Patch{"colors": map[string]any{"primary": "#112233"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mine", created.Name)
	assert.False(t, created.IsPreset)
	assert.False(t, created.IsActive)
	assert.Equal(t, "#112233", created.Settings.Colors.Primary)
	assert.Equal(t, theme.Default().Typography, created.Settings.Typography)
	assert.Contains(t, rec.all(), event.TopicThemeCreated)
}

func TestService_CreateRejectsBadSettings(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateRequest{
		Name:     "Bad",
		Settings: theme.Patch{"banner": map[string]any{"overlayOpacity": 3}},
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "banner.overlayOpacity")

	_, err = svc.Create(context.Background(), CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestService_UpdateReplacesSettings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Name:     "Mine",
		Settings: theme.Patch{"content": map[string]any{"hero.title": "Hi", "hero.sub": "There"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateRequest{
		Settings: theme.Patch{"content": map[string]any{"hero.title": "Hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, map[string]string{"hero.title": "Hello"}, updated.Settings.Content)

	name := "Renamed"
	updated, err = svc.Update(ctx, created.ID, UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "Hello", updated.Settings.Content["hero.title"])
}

func TestService_PresetsAreReadOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := presetByName(t, svc, "Ocean Calm")

	name := "Mine now"
	_, err := svc.Update(ctx, p.ID, UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrPreset)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrPreset)
}

func TestService_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Apply(ctx, "missing", false)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Export(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
}

func TestService_ApplyAndPreview(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	ocean := presetByName(t, svc, "Ocean Calm")

	previewed, err := svc.Apply(ctx, ocean.ID, true)
	require.NoError(t, err)
	assert.False(t, previewed.IsActive)
	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPresetName, active.Name)
	assert.NotContains(t, rec.all(), event.TopicThemeApplied)

	applied, err := svc.Apply(ctx, ocean.ID, false)
	require.NoError(t, err)
	assert.True(t, applied.IsActive)
	active, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, ocean.ID, active.ID)
	assert.Contains(t, rec.all(), event.TopicThemeApplied)
}

func TestService_DeleteActiveRestoresDefault(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Name: "Temp"})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, created.ID, false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPresetName, active.Name)
	assert.Contains(t, rec.all(), event.TopicThemeDeleted)
}

func TestService_ExportImport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Name:        "Travel",
		Description: "for trips",
		Settings: theme.Patch{
			"colors":  map[string]any{"primary": "#0000FF"},
			"content": map[string]any{"hero.title": "Go places"},
		},
	})
	require.NoError(t, err)

	doc, err := svc.Export(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel", doc.Name)

	patch, err := theme.ToPatch(doc.Settings)
	require.NoError(t, err)
	imported, err := svc.Import(ctx, theme.RawDocument{
		Name:        doc.Name,
		Description: doc.Description,
		IsPreset:    true,
		Settings:    patch,
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, imported.ID)
	assert.False(t, imported.IsPreset, "imports are never presets")
	assert.Equal(t, created.Settings, imported.Settings)
}

func TestService_ImportDefaultsName(t *testing.T) {
	svc, _ := newTestService(t)

	imported, err := svc.Import(context.Background(), theme.RawDocument{})
	require.NoError(t, err)
	assert.Equal(t, ImportedName, imported.Name)
	assert.Equal(t, theme.Default(), imported.Settings)
}

func TestService_ActiveCSS(t *testing.T) {
	svc, _ := newTestService(t)

	css, err := svc.ActiveCSS(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(css, ":root {\n"))
	assert.Contains(t, css, "--primary: 22 89.7% 54.1%;")
	assert.Contains(t, css, "--banner-enabled: 0;")
}

func TestService_ActiveCSSWithoutActiveTheme(t *testing.T) {
	svc := NewService(newTestStore(t), nil, nil)

	css, err := svc.ActiveCSS(context.Background())
	require.NoError(t, err)
	assert.Contains(t, css, "--font-family: Noto Serif Thai;")
}
