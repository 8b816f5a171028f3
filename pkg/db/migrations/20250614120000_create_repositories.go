package migrations

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/db"
)

func Migration20250614120000CreateRepositories() db.Migration {
	return db.Migration{
		Version:     20250614120000,
		Description: "Create repositories table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS repositories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					owner TEXT NOT NULL,
					repo TEXT NOT NULL,
					branch TEXT NOT NULL DEFAULT 'main',
					display_name TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					website TEXT NOT NULL DEFAULT '',
					featured INTEGER NOT NULL DEFAULT 0,
					skills_path TEXT NOT NULL DEFAULT '',
					default_category TEXT NOT NULL DEFAULT '',
					category_overrides TEXT NOT NULL DEFAULT '{}',
					exclude_folders TEXT NOT NULL DEFAULT '[]',
					sync_status TEXT NOT NULL DEFAULT 'pending',
					sync_error TEXT NOT NULL DEFAULT '',
					last_synced_at DATETIME,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(owner, repo)
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create repositories table")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_repositories_featured
				ON repositories(featured)
			`); err != nil {
				return errors.Wrap(err, "failed to create featured index")
			}

			return nil
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS repositories")
			return errors.Wrap(err, "failed to drop repositories table")
		},
	}
}
