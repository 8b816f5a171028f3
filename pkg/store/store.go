// Package store persists repositories, skills, and sync logs in SQLite.
// It is the query/mutation layer between the sync service and the HTTP API.
package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/skill"
)

// Sync status values for repositories and sync logs.
const (
	StatusPending = "pending"
	StatusSyncing = "syncing"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Store provides access to the skills database.
type Store struct {
	db *sqlx.DB
}

// New creates a Store on top of an opened database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle, mainly for tests.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// UpsertRepository inserts or updates a repository row keyed by
// (owner, repo) and returns its id.
func (s *Store) UpsertRepository(ctx context.Context, rec RepositoryRecord) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO repositories (
			owner, repo, branch, display_name, description, website, featured,
			skills_path, default_category, category_overrides, exclude_folders, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner, repo) DO UPDATE SET
			branch = excluded.branch,
			display_name = excluded.display_name,
			description = excluded.description,
			website = excluded.website,
			featured = excluded.featured,
			skills_path = excluded.skills_path,
			default_category = excluded.default_category,
			category_overrides = excluded.category_overrides,
			exclude_folders = excluded.exclude_folders,
			updated_at = CURRENT_TIMESTAMP
	`, rec.Owner, rec.Repo, rec.Branch, rec.DisplayName, rec.Description,
		rec.Website, rec.Featured, rec.SkillsPath, rec.DefaultCategory,
		rec.CategoryOverrides, rec.ExcludeFolders)
	if err != nil {
		return 0, errors.Wrap(err, "failed to upsert repository")
	}

	var id int64
	err = s.db.GetContext(ctx, &id,
		"SELECT id FROM repositories WHERE owner = ? AND repo = ?", rec.Owner, rec.Repo)
	if err != nil {
		return 0, errors.Wrap(err, "failed to resolve repository id")
	}

	return id, nil
}

// GetRepository returns a repository row, or nil when it is not registered.
func (s *Store) GetRepository(ctx context.Context, owner, repo string) (*RepositoryRecord, error) {
	var rec RepositoryRecord
	err := s.db.GetContext(ctx, &rec,
		"SELECT * FROM repositories WHERE owner = ? AND repo = ?", owner, repo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get repository")
	}
	return &rec, nil
}

// ListRepositories returns all registered repositories ordered by name.
func (s *Store) ListRepositories(ctx context.Context) ([]RepositoryRecord, error) {
	var recs []RepositoryRecord
	err := s.db.SelectContext(ctx, &recs,
		"SELECT * FROM repositories ORDER BY owner, repo")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list repositories")
	}
	return recs, nil
}

// UpdateSyncStatus records the sync state of a repository. A non-empty
// status of StatusSuccess also stamps last_synced_at.
func (s *Store) UpdateSyncStatus(ctx context.Context, repoID int64, status, syncErr string) error {
	var err error
	if status == StatusSuccess {
		_, err = s.db.ExecContext(ctx, `
			UPDATE repositories
			SET sync_status = ?, sync_error = ?, last_synced_at = CURRENT_TIMESTAMP,
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, status, syncErr, repoID)
	} else {
		_, err = s.db.ExecContext(ctx, `
			UPDATE repositories
			SET sync_status = ?, sync_error = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, status, syncErr, repoID)
	}
	return errors.Wrap(err, "failed to update sync status")
}

// UpsertSkills inserts or updates skill rows for a repository, keyed by
// (repo_id, skill_name). Returns the number of rows written.
func (s *Store) UpsertSkills(ctx context.Context, repoID int64, skills []SkillRecord) (int, error) {
	if len(skills) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, rec := range skills {
		var extended any
		if rec.ExtendedContent != nil {
			extended, err = rec.ExtendedContent.Value()
			if err != nil {
				return 0, errors.Wrapf(err, "failed to marshal content for skill %s", rec.SkillName)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO skills (
				repo_id, skill_name, display_name, description, short_description,
				category, tags, author, version, license,
				github_url, download_url, detail_url, extended_content, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(repo_id, skill_name) DO UPDATE SET
				display_name = excluded.display_name,
				description = excluded.description,
				short_description = excluded.short_description,
				category = excluded.category,
				tags = excluded.tags,
				author = excluded.author,
				version = excluded.version,
				license = excluded.license,
				github_url = excluded.github_url,
				download_url = excluded.download_url,
				detail_url = excluded.detail_url,
				extended_content = excluded.extended_content,
				updated_at = CURRENT_TIMESTAMP
		`, repoID, rec.SkillName, rec.DisplayName, rec.Description,
			rec.ShortDescription, rec.Category, rec.Tags, rec.Author,
			rec.Version, rec.License, rec.GithubURL, rec.DownloadURL,
			rec.DetailURL, extended)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to upsert skill %s", rec.SkillName)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit skills")
	}

	return len(skills), nil
}

// DeleteRemovedSkills deletes skills of a repository that are no longer in
// the current folder list. Returns the number of deleted rows.
func (s *Store) DeleteRemovedSkills(ctx context.Context, repoID int64, currentNames []string) (int, error) {
	if len(currentNames) == 0 {
		res, err := s.db.ExecContext(ctx, "DELETE FROM skills WHERE repo_id = ?", repoID)
		if err != nil {
			return 0, errors.Wrap(err, "failed to delete skills")
		}
		n, _ := res.RowsAffected()
		return int(n), nil
	}

	query, args, err := sqlx.In(
		"DELETE FROM skills WHERE repo_id = ? AND skill_name NOT IN (?)",
		repoID, currentNames)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build delete query")
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete removed skills")
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// SkillFilter narrows ListSkills results. Zero values mean "no filter".
type SkillFilter struct {
	Search   string
	Category string
	Owner    string
	Repo     string
}

const skillsWithRepoSelect = `
	SELECT s.*,
	       r.owner AS repo_owner,
	       r.repo AS repo_name,
	       r.branch AS repo_branch,
	       r.display_name AS repo_display_name
	FROM skills s
	JOIN repositories r ON r.id = s.repo_id
`

// ListSkills returns catalog skills matching the filter, ordered by
// display name.
func (s *Store) ListSkills(ctx context.Context, filter SkillFilter) ([]skill.Skill, error) {
	query := skillsWithRepoSelect
	var conds []string
	var args []any

	if filter.Category != "" && filter.Category != "all" {
		conds = append(conds, "s.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Owner != "" {
		conds = append(conds, "r.owner = ?")
		args = append(args, filter.Owner)
	}
	if filter.Repo != "" {
		conds = append(conds, "r.repo = ?")
		args = append(args, filter.Repo)
	}
	if filter.Search != "" {
		conds = append(conds, "(s.display_name LIKE ? OR s.description LIKE ? OR s.tags LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.display_name"

	var rows []SkillWithRepo
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list skills")
	}

	skills := make([]skill.Skill, 0, len(rows))
	for _, row := range rows {
		skills = append(skills, row.Skill())
	}
	return skills, nil
}

// GetSkill returns a single catalog skill, or nil when it does not exist.
func (s *Store) GetSkill(ctx context.Context, owner, repo, skillName string) (*skill.Skill, error) {
	var row SkillWithRepo
	err := s.db.GetContext(ctx, &row,
		skillsWithRepoSelect+" WHERE r.owner = ? AND r.repo = ? AND s.skill_name = ?",
		owner, repo, skillName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get skill")
	}

	result := row.Skill()
	return &result, nil
}

// InsertSyncLog records the outcome of a repository sync.
func (s *Store) InsertSyncLog(ctx context.Context, log SyncLogRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_logs (id, repo_id, status, skills_added, skills_removed, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.RepoID, log.Status, log.SkillsAdded, log.SkillsRemoved,
		log.Error, log.DurationMs, Now())
	return errors.Wrap(err, "failed to insert sync log")
}

// RecentSyncLogs returns the most recent sync logs, newest first.
func (s *Store) RecentSyncLogs(ctx context.Context, limit int) ([]SyncLogRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var logs []SyncLogRecord
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM sync_logs ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sync logs")
	}
	return logs, nil
}
