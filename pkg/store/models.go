package store

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/skill"
)

// JSONField handles JSON marshaling of structured columns.
type JSONField[T any] struct {
	Data T
}

// Scan implements sql.Scanner.
func (j *JSONField[T]) Scan(value any) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.Errorf("cannot scan %T into JSONField", value)
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, &j.Data)
}

// Value implements driver.Valuer.
func (j JSONField[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Timestamp stores a time as text. SQLite has no native datetime type, so
// values written by Go round-trip as RFC3339Nano and values filled in by
// CURRENT_TIMESTAMP defaults arrive in SQLite's own "2006-01-02 15:04:05"
// shape; Scan accepts both.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp{time.Now().UTC()}
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return errors.Errorf("cannot scan %T into Timestamp", value)
	}
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02 15:04:05.999999999-07:00"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return errors.Errorf("unrecognized timestamp %q", s)
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return t.UTC().Format(time.RFC3339Nano), nil
}

// RepositoryRecord represents a row of the repositories table.
type RepositoryRecord struct {
	ID                int64                        `db:"id"`
	Owner             string                       `db:"owner"`
	Repo              string                       `db:"repo"`
	Branch            string                       `db:"branch"`
	DisplayName       string                       `db:"display_name"`
	Description       string                       `db:"description"`
	Website           string                       `db:"website"`
	Featured          bool                         `db:"featured"`
	SkillsPath        string                       `db:"skills_path"`
	DefaultCategory   string                       `db:"default_category"`
	CategoryOverrides JSONField[map[string]string] `db:"category_overrides"`
	ExcludeFolders    JSONField[[]string]          `db:"exclude_folders"`
	SyncStatus        string                       `db:"sync_status"`
	SyncError         string                       `db:"sync_error"`
	LastSyncedAt      *Timestamp                   `db:"last_synced_at"`
	CreatedAt         Timestamp                    `db:"created_at"`
	UpdatedAt         Timestamp                    `db:"updated_at"`
}

// Config converts a repository row back into a RepoConfig.
func (r RepositoryRecord) Config() skill.RepoConfig {
	return skill.RepoConfig{
		Owner:       r.Owner,
		Repo:        r.Repo,
		Branch:      r.Branch,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Website:     r.Website,
		Featured:    r.Featured,
		Options: skill.RepoOptions{
			SkillsPath:        r.SkillsPath,
			DefaultCategory:   r.DefaultCategory,
			CategoryOverrides: r.CategoryOverrides.Data,
			ExcludeFolders:    r.ExcludeFolders.Data,
		},
	}
}

// NewRepositoryRecord builds a repository row from a RepoConfig.
func NewRepositoryRecord(cfg skill.RepoConfig) RepositoryRecord {
	return RepositoryRecord{
		Owner:             cfg.Owner,
		Repo:              cfg.Repo,
		Branch:            cfg.BranchOrDefault(),
		DisplayName:       cfg.DisplayNameOrDefault(),
		Description:       cfg.Description,
		Website:           cfg.Website,
		Featured:          cfg.Featured,
		SkillsPath:        cfg.Options.SkillsPath,
		DefaultCategory:   cfg.Options.DefaultCategory,
		CategoryOverrides: JSONField[map[string]string]{Data: cfg.Options.CategoryOverrides},
		ExcludeFolders:    JSONField[[]string]{Data: cfg.Options.ExcludeFolders},
	}
}

// SkillRecord represents a row of the skills table.
type SkillRecord struct {
	ID               int64                      `db:"id"`
	RepoID           int64                      `db:"repo_id"`
	SkillName        string                     `db:"skill_name"`
	DisplayName      string                     `db:"display_name"`
	Description      string                     `db:"description"`
	ShortDescription string                     `db:"short_description"`
	Category         string                     `db:"category"`
	Tags             JSONField[[]string]        `db:"tags"`
	Author           string                     `db:"author"`
	Version          string                     `db:"version"`
	License          string                     `db:"license"`
	GithubURL        string                     `db:"github_url"`
	DownloadURL      string                     `db:"download_url"`
	DetailURL        string                     `db:"detail_url"`
	ExtendedContent  *JSONField[skill.Content]  `db:"extended_content"`
	DownloadCount    int                        `db:"download_count"`
	CreatedAt        Timestamp                  `db:"created_at"`
	UpdatedAt        Timestamp                  `db:"updated_at"`
}

// NewSkillRecord builds a skill row from a catalog skill.
func NewSkillRecord(s skill.Skill) SkillRecord {
	rec := SkillRecord{
		SkillName:        s.SkillName,
		DisplayName:      s.DisplayName,
		Description:      s.Metadata.Description,
		ShortDescription: s.ShortDescription,
		Category:         s.Metadata.Category,
		Tags:             JSONField[[]string]{Data: s.Metadata.Tags},
		Author:           s.Metadata.Author,
		Version:          s.Metadata.Version,
		License:          s.Metadata.License,
		GithubURL:        s.GithubURL,
		DownloadURL:      s.DownloadURL,
		DetailURL:        s.DetailURL,
		DownloadCount:    s.DownloadCount,
	}
	if s.Metadata.Content != nil {
		rec.ExtendedContent = &JSONField[skill.Content]{Data: *s.Metadata.Content}
	}
	return rec
}

// SkillWithRepo is a skill row joined with its repository's identifying
// columns.
type SkillWithRepo struct {
	SkillRecord
	RepoOwner       string `db:"repo_owner"`
	RepoName        string `db:"repo_name"`
	RepoBranch      string `db:"repo_branch"`
	RepoDisplayName string `db:"repo_display_name"`
}

// Skill converts a joined row into the catalog Skill shape.
func (r SkillWithRepo) Skill() skill.Skill {
	s := skill.Skill{
		ID:        r.RepoOwner + "/" + r.RepoName + "/" + r.SkillName,
		Owner:     r.RepoOwner,
		Repo:      r.RepoName,
		SkillName: r.SkillName,
		Metadata: skill.Metadata{
			Name:        r.DisplayName,
			Description: r.Description,
			Category:    r.Category,
			Tags:        r.Tags.Data,
			Author:      r.Author,
			Version:     r.Version,
			License:     r.License,
		},
		GithubURL:        r.GithubURL,
		DownloadURL:      r.DownloadURL,
		DetailURL:        r.DetailURL,
		DisplayName:      r.DisplayName,
		ShortDescription: r.ShortDescription,
		RepoDisplayName:  r.RepoDisplayName,
		Branch:           r.RepoBranch,
		DownloadCount:    r.DownloadCount,
	}
	if r.ExtendedContent != nil {
		content := r.ExtendedContent.Data
		if !content.IsEmpty() {
			s.Metadata.Content = &content
		}
	}
	return s
}

// SyncLogRecord represents a row of the sync_logs table.
type SyncLogRecord struct {
	ID            string    `db:"id"`
	RepoID        int64     `db:"repo_id"`
	Status        string    `db:"status"`
	SkillsAdded   int       `db:"skills_added"`
	SkillsRemoved int       `db:"skills_removed"`
	Error         string    `db:"error"`
	DurationMs    int64     `db:"duration_ms"`
	CreatedAt     Timestamp `db:"created_at"`
}
