package themes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funaging/themestudio/internal/testutil"
	"github.com/funaging/themestudio/pkg/theme"
)

func newTestStore(t *testing.T) *ThemeStore {
	t.Helper()
	s, err := NewStore(context.Background(), testutil.NewStore(t), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestThemeStore_InsertGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	th := testutil.NewTheme(testutil.WithName("Sunrise"), testutil.WithPrimary("#112233"),
		testutil.WithContent("hero.title", "Hello"))
	require.NoError(t, s.Insert(ctx, &th))

	got, err := s.Get(ctx, th.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sunrise", got.Name)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "#112233", got.Settings.Colors.Primary)
	assert.Equal(t, "Hello", got.Settings.Content["hero.title"])
	assert.WithinDuration(t, th.CreatedAt, got.CreatedAt, time.Second)
}

func TestThemeStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	active, err := s.Active(context.Background())
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestThemeStore_UpdateVersions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	th := testutil.NewTheme()
	require.NoError(t, s.Insert(ctx, &th))

	th.Settings.Colors.Primary = "#000000"
	require.NoError(t, s.Update(ctx, &th, true))
	assert.Equal(t, 2, th.Version)

	th.Name = "Renamed"
	require.NoError(t, s.Update(ctx, &th, false))
	assert.Equal(t, 2, th.Version, "metadata change keeps the settings version")

	got, err := s.Get(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "#000000", got.Settings.Colors.Primary)

	history, err := s.History(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, history)
}

func TestThemeStore_UpdateMissing(t *testing.T) {
	s := newTestStore(t)
	th := testutil.NewTheme()
	err := s.Update(context.Background(), &th, true)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestThemeStore_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	th := testutil.NewTheme()
	require.NoError(t, s.Insert(ctx, &th))
	require.NoError(t, s.Delete(ctx, th.ID))

	history, err := s.History(ctx, th.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.ErrorIs(t, s.Delete(ctx, th.ID), ErrNotFound)
}

func TestThemeStore_SetActive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testutil.NewTheme(testutil.WithName("A"))
	b := testutil.NewTheme(testutil.WithName("B"))
	require.NoError(t, s.Insert(ctx, &a))
	require.NoError(t, s.Insert(ctx, &b))

	require.NoError(t, s.SetActive(ctx, a.ID))
	require.NoError(t, s.SetActive(ctx, b.ID))

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, b.ID, active.ID)

	// A failed activation leaves the previous theme active.
	assert.ErrorIs(t, s.SetActive(ctx, "missing"), ErrNotFound)
	active, err = s.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, b.ID, active.ID)

	list, err := s.List(ctx, false)
	require.NoError(t, err)
	activeCount := 0
	for _, th := range list {
		if th.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestThemeStore_ListPresetsFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	custom := testutil.NewTheme(testutil.WithName("Custom"))
	preset := testutil.NewTheme(testutil.WithName("Preset"), testutil.AsPreset())
	require.NoError(t, s.Insert(ctx, &custom))
	require.NoError(t, s.Insert(ctx, &preset))

	all, err := s.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Preset", all[0].Name)

	presetsOnly, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, presetsOnly, 1)
	assert.True(t, presetsOnly[0].IsPreset)
}

func TestThemeStore_NormalizesStoredSettings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, err := NewStore(context.Background(), testutil.NewStore(t), zap.New(core))
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err = s.db.DB().ExecContext(ctx,
		"INSERT INTO themes (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		"legacy", "Legacy", now, now)
	require.NoError(t, err)
	_, err = s.db.DB().ExecContext(ctx,
		"INSERT INTO theme_settings (theme_id, version, settings, created_at) VALUES (?, ?, ?, ?)",
		"legacy", 1, `{"colors":{"primary":"#123456","accent":7}}`, now)
	require.NoError(t, err)

	got, err := s.Get(ctx, "legacy")
	require.NoError(t, err)
	require.NotNil(t, got)

	def := theme.Default()
	assert.Equal(t, "#123456", got.Settings.Colors.Primary)
	assert.Equal(t, def.Colors.Accent, got.Settings.Colors.Accent)
	assert.Equal(t, def.Typography, got.Settings.Typography)
	assert.NotNil(t, got.Settings.Content)

	require.Equal(t, 1, logs.FilterMessage("stored theme settings leaf dropped").Len())
	assert.Equal(t, "colors.accent", logs.All()[0].ContextMap()["path"])
}
