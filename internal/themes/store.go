package themes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/store"
	"github.com/funaging/themestudio/pkg/theme"
)

// ThemeStore provides database access for themes. Every settings change adds
// a row to theme_settings; reads use the highest version.
type ThemeStore struct {
	db     *store.SQLiteStore
	logger *zap.Logger
}

// NewStore creates a ThemeStore and runs its migrations.
func NewStore(ctx context.Context, db *store.SQLiteStore, logger *zap.Logger) (*ThemeStore, error) {
	if err := db.Migrate(ctx, "themes", migrations()); err != nil {
		return nil, fmt.Errorf("migrate themes: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeStore{db: db, logger: logger}, nil
}

const selectTheme = `
	SELECT t.id, t.name, t.description, t.is_preset, t.is_active,
	       t.created_at, t.updated_at, s.version, s.settings
	FROM themes t
	JOIN theme_settings s ON s.theme_id = t.id
	WHERE s.version = (SELECT MAX(version) FROM theme_settings WHERE theme_id = t.id)`

// Insert stores a new theme with its first settings version.
func (s *ThemeStore) Insert(ctx context.Context, t *theme.Theme) error {
	data, err := json.Marshal(t.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	t.Version = 1
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO themes (id, name, description, is_preset, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.Description, t.IsPreset, t.IsActive, t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert theme: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO theme_settings (theme_id, version, settings, created_at) VALUES (?, ?, ?, ?)",
			t.ID, t.Version, string(data), t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert theme settings: %w", err)
		}
		return nil
	})
}

// Get returns a theme by ID. Returns nil, nil if not found.
func (s *ThemeStore) Get(ctx context.Context, id string) (*theme.Theme, error) {
	row := s.db.DB().QueryRowContext(ctx, selectTheme+" AND t.id = ?", id)
	t, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get theme: %w", err)
	}
	return t, nil
}

// Active returns the active theme. Returns nil, nil if none is active.
func (s *ThemeStore) Active(ctx context.Context) (*theme.Theme, error) {
	row := s.db.DB().QueryRowContext(ctx, selectTheme+" AND t.is_active = 1")
	t, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active theme: %w", err)
	}
	return t, nil
}

// List returns themes ordered presets first, then by creation time.
func (s *ThemeStore) List(ctx context.Context, presetsOnly bool) ([]theme.Theme, error) {
	query := selectTheme
	if presetsOnly {
		query += " AND t.is_preset = 1"
	}
	query += " ORDER BY t.is_preset DESC, t.created_at, t.name"

	rows, err := s.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	out := []theme.Theme{}
	for rows.Next() {
		t, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update writes name and description and, when settingsChanged is set, a new
// settings version. t.Version and t.UpdatedAt are advanced in place.
func (s *ThemeStore) Update(ctx context.Context, t *theme.Theme, settingsChanged bool) error {
	var data []byte
	if settingsChanged {
		var err error
		if data, err = json.Marshal(t.Settings); err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
	}
	t.UpdatedAt = time.Now().UTC()

	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE themes SET name = ?, description = ?, updated_at = ? WHERE id = ?",
			t.Name, t.Description, t.UpdatedAt, t.ID,
		)
		if err != nil {
			return fmt.Errorf("update theme: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if !settingsChanged {
			return nil
		}

		var version int
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(version), 0) + 1 FROM theme_settings WHERE theme_id = ?", t.ID,
		).Scan(&version); err != nil {
			return fmt.Errorf("next settings version: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO theme_settings (theme_id, version, settings, created_at) VALUES (?, ?, ?, ?)",
			t.ID, version, string(data), t.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert theme settings: %w", err)
		}
		t.Version = version
		return nil
	})
}

// Delete removes a theme and its settings history.
func (s *ThemeStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.DB().ExecContext(ctx, "DELETE FROM themes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete theme: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive makes id the only active theme.
func (s *ThemeStore) SetActive(ctx context.Context, id string) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE themes SET is_active = 0 WHERE is_active = 1"); err != nil {
			return fmt.Errorf("deactivate themes: %w", err)
		}
		res, err := tx.ExecContext(ctx, "UPDATE themes SET is_active = 1 WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("activate theme: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// History returns the stored settings versions of a theme, newest first.
func (s *ThemeStore) History(ctx context.Context, id string) ([]int, error) {
	rows, err := s.db.DB().QueryContext(ctx,
		"SELECT version FROM theme_settings WHERE theme_id = ? ORDER BY version DESC", id)
	if err != nil {
		return nil, fmt.Errorf("list settings versions: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan settings version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *ThemeStore) scan(row scanner) (*theme.Theme, error) {
	var (
		raw      theme.RawTheme
		settings string
	)
	if err := row.Scan(
		&raw.ID, &raw.Name, &raw.Description, &raw.IsPreset, &raw.IsActive,
		&raw.CreatedAt, &raw.UpdatedAt, &raw.Version, &settings,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(settings), &raw.Settings); err != nil {
		return nil, fmt.Errorf("decode settings of theme %s: %w", raw.ID, err)
	}

	// Stored documents are normalized so rows written by older schemas
	// still come back complete.
	t, rejections := raw.Normalize()
	for _, r := range rejections {
		s.logger.Warn("stored theme settings leaf dropped",
			zap.String("theme_id", raw.ID),
			zap.String("path", r.Path),
			zap.String("reason", r.Reason),
		)
	}
	return &t, nil
}
