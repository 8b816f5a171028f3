package migrations

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/db"
)

func Migration20250614120001CreateSkills() db.Migration {
	return db.Migration{
		Version:     20250614120001,
		Description: "Create skills table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS skills (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					repo_id INTEGER NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
					skill_name TEXT NOT NULL,
					display_name TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					short_description TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL DEFAULT '',
					tags TEXT NOT NULL DEFAULT '[]',
					author TEXT NOT NULL DEFAULT '',
					version TEXT NOT NULL DEFAULT '',
					license TEXT NOT NULL DEFAULT '',
					github_url TEXT NOT NULL DEFAULT '',
					download_url TEXT NOT NULL DEFAULT '',
					detail_url TEXT NOT NULL DEFAULT '',
					extended_content TEXT,
					download_count INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(repo_id, skill_name)
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create skills table")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_skills_category
				ON skills(category)
			`); err != nil {
				return errors.Wrap(err, "failed to create category index")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_skills_repo_id
				ON skills(repo_id)
			`); err != nil {
				return errors.Wrap(err, "failed to create repo_id index")
			}

			return nil
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS skills")
			return errors.Wrap(err, "failed to drop skills table")
		},
	}
}
