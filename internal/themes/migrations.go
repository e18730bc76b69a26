package themes

import (
	"database/sql"

	"github.com/funaging/themestudio/internal/store"
)

func migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create theme tables (themes, theme_settings)",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS themes (
						id          TEXT PRIMARY KEY,
						name        TEXT NOT NULL,
						description TEXT NOT NULL DEFAULT '',
						is_preset   INTEGER NOT NULL DEFAULT 0,
						is_active   INTEGER NOT NULL DEFAULT 0,
						created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE INDEX IF NOT EXISTS idx_themes_preset ON themes(is_preset)`,
					`CREATE UNIQUE INDEX IF NOT EXISTS idx_themes_single_active ON themes(is_active) WHERE is_active = 1`,

					`CREATE TABLE IF NOT EXISTS theme_settings (
						theme_id   TEXT NOT NULL REFERENCES themes(id) ON DELETE CASCADE,
						version    INTEGER NOT NULL,
						settings   TEXT NOT NULL,
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						PRIMARY KEY (theme_id, version)
					)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
