package migrations

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/db"
)

func Migration20250614120002CreateSyncLogs() db.Migration {
	return db.Migration{
		Version:     20250614120002,
		Description: "Create sync_logs table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS sync_logs (
					id TEXT PRIMARY KEY,
					repo_id INTEGER NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
					status TEXT NOT NULL,
					skills_added INTEGER NOT NULL DEFAULT 0,
					skills_removed INTEGER NOT NULL DEFAULT 0,
					error TEXT NOT NULL DEFAULT '',
					duration_ms INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create sync_logs table")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_sync_logs_repo_created
				ON sync_logs(repo_id, created_at)
			`); err != nil {
				return errors.Wrap(err, "failed to create repo/created index")
			}

			return nil
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS sync_logs")
			return errors.Wrap(err, "failed to drop sync_logs table")
		},
	}
}
