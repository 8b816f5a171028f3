package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/schwepps/skills-store/pkg/db"
	"github.com/schwepps/skills-store/pkg/db/migrations"
	"github.com/schwepps/skills-store/pkg/skill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	runner := db.NewMigrationRunner(conn)
	require.NoError(t, runner.Run(ctx, migrations.All()))

	return New(conn)
}

func testRepoConfig() skill.RepoConfig {
	return skill.RepoConfig{
		Owner:       "octo",
		Repo:        "skills",
		Branch:      "main",
		DisplayName: "Octo Skills",
	}
}

func testSkill(name, category string) skill.Skill {
	return skill.Skill{
		ID:        "octo/skills/" + name,
		Owner:     "octo",
		Repo:      "skills",
		SkillName: name,
		Metadata: skill.Metadata{
			Name:        name,
			Description: "A skill named " + name,
			Category:    category,
			Tags:        []string{"testing"},
		},
		DisplayName:      skill.FormatSkillName(name),
		ShortDescription: "A skill named " + name,
		Branch:           "main",
	}
}

func TestUpsertRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.UpsertRepository(ctx, NewRepositoryRecord(testRepoConfig()))
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	t.Run("get returns the stored config", func(t *testing.T) {
		rec, err := s.GetRepository(ctx, "octo", "skills")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "Octo Skills", rec.DisplayName)
		assert.Equal(t, StatusPending, rec.SyncStatus)
		assert.Nil(t, rec.LastSyncedAt)
	})

	t.Run("upsert is idempotent on id", func(t *testing.T) {
		cfg := testRepoConfig()
		cfg.DisplayName = "Renamed"
		again, err := s.UpsertRepository(ctx, NewRepositoryRecord(cfg))
		require.NoError(t, err)
		assert.Equal(t, id, again)

		rec, err := s.GetRepository(ctx, "octo", "skills")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", rec.DisplayName)
	})

	t.Run("missing repository is nil without error", func(t *testing.T) {
		rec, err := s.GetRepository(ctx, "nobody", "nothing")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestUpdateSyncStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.UpsertRepository(ctx, NewRepositoryRecord(testRepoConfig()))
	require.NoError(t, err)

	require.NoError(t, s.UpdateSyncStatus(ctx, id, StatusError, "boom"))
	rec, err := s.GetRepository(ctx, "octo", "skills")
	require.NoError(t, err)
	assert.Equal(t, StatusError, rec.SyncStatus)
	assert.Equal(t, "boom", rec.SyncError)
	assert.Nil(t, rec.LastSyncedAt, "failures do not stamp last_synced_at")

	require.NoError(t, s.UpdateSyncStatus(ctx, id, StatusSuccess, ""))
	rec, err = s.GetRepository(ctx, "octo", "skills")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, rec.SyncStatus)
	assert.Empty(t, rec.SyncError)
	require.NotNil(t, rec.LastSyncedAt)
	assert.False(t, rec.LastSyncedAt.IsZero())
}

func TestUpsertAndListSkills(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	repoID, err := s.UpsertRepository(ctx, NewRepositoryRecord(testRepoConfig()))
	require.NoError(t, err)

	records := []SkillRecord{
		NewSkillRecord(testSkill("pdf-tools", "document")),
		NewSkillRecord(testSkill("seo-audit", "seo")),
	}
	n, err := s.UpsertSkills(ctx, repoID, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	t.Run("list all", func(t *testing.T) {
		skills, err := s.ListSkills(ctx, SkillFilter{})
		require.NoError(t, err)
		require.Len(t, skills, 2)
		// Ordered by display name.
		assert.Equal(t, "Pdf Tools", skills[0].DisplayName)
		assert.Equal(t, "octo/skills/pdf-tools", skills[0].ID)
		assert.Equal(t, "Octo Skills", skills[0].RepoDisplayName)
		assert.Equal(t, []string{"testing"}, skills[0].Metadata.Tags)
	})

	t.Run("category filter", func(t *testing.T) {
		skills, err := s.ListSkills(ctx, SkillFilter{Category: "seo"})
		require.NoError(t, err)
		require.Len(t, skills, 1)
		assert.Equal(t, "seo-audit", skills[0].SkillName)
	})

	t.Run("search matches display name", func(t *testing.T) {
		skills, err := s.ListSkills(ctx, SkillFilter{Search: "Pdf"})
		require.NoError(t, err)
		require.Len(t, skills, 1)
		assert.Equal(t, "pdf-tools", skills[0].SkillName)
	})

	t.Run("owner and repo filter", func(t *testing.T) {
		skills, err := s.ListSkills(ctx, SkillFilter{Owner: "octo", Repo: "skills"})
		require.NoError(t, err)
		assert.Len(t, skills, 2)

		skills, err = s.ListSkills(ctx, SkillFilter{Owner: "someone-else"})
		require.NoError(t, err)
		assert.Empty(t, skills)
	})

	t.Run("get single skill", func(t *testing.T) {
		sk, err := s.GetSkill(ctx, "octo", "skills", "pdf-tools")
		require.NoError(t, err)
		require.NotNil(t, sk)
		assert.Equal(t, "document", sk.Metadata.Category)

		missing, err := s.GetSkill(ctx, "octo", "skills", "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("upsert updates in place", func(t *testing.T) {
		updated := testSkill("pdf-tools", "productivity")
		_, err := s.UpsertSkills(ctx, repoID, []SkillRecord{NewSkillRecord(updated)})
		require.NoError(t, err)

		skills, err := s.ListSkills(ctx, SkillFilter{})
		require.NoError(t, err)
		assert.Len(t, skills, 2, "no duplicate rows")

		sk, err := s.GetSkill(ctx, "octo", "skills", "pdf-tools")
		require.NoError(t, err)
		assert.Equal(t, "productivity", sk.Metadata.Category)
	})
}

func TestSkillExtendedContentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	repoID, err := s.UpsertRepository(ctx, NewRepositoryRecord(testRepoConfig()))
	require.NoError(t, err)

	sk := testSkill("writer", "marketing")
	sk.Metadata.Content = &skill.Content{
		UsageTriggers: []string{"Writing a launch announcement"},
		ExamplePrompts: []skill.ExamplePrompt{
			{Prompt: "Write a launch post for this feature"},
		},
	}

	_, err = s.UpsertSkills(ctx, repoID, []SkillRecord{NewSkillRecord(sk)})
	require.NoError(t, err)

	got, err := s.GetSkill(ctx, "octo", "skills", "writer")
	require.NoError(t, err)
	require.NotNil(t, got.Metadata.Content)
	assert.Equal(t, sk.Metadata.Content.UsageTriggers, got.Metadata.Content.UsageTriggers)
	require.Len(t, got.Metadata.Content.ExamplePrompts, 1)
	assert.Equal(t, "Write a launch post for this feature", got.Metadata.Content.ExamplePrompts[0].Prompt)
}

func TestDeleteRemovedSkills(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	repoID, err := s.UpsertRepository(ctx, NewRepositoryRecord(testRepoConfig()))
	require.NoError(t, err)

	_, err = s.UpsertSkills(ctx, repoID, []SkillRecord{
		NewSkillRecord(testSkill("keep-me", "other")),
		NewSkillRecord(testSkill("drop-me", "other")),
	})
	require.NoError(t, err)

	t.Run("removes skills not in the current list", func(t *testing.T) {
		n, err := s.DeleteRemovedSkills(ctx, repoID, []string{"keep-me"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		skills, err := s.ListSkills(ctx, SkillFilter{})
		require.NoError(t, err)
		require.Len(t, skills, 1)
		assert.Equal(t, "keep-me", skills[0].SkillName)
	})

	t.Run("empty list removes everything", func(t *testing.T) {
		n, err := s.DeleteRemovedSkills(ctx, repoID, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		skills, err := s.ListSkills(ctx, SkillFilter{})
		require.NoError(t, err)
		assert.Empty(t, skills)
	})
}

func TestSyncLogs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	repoID, err := s.UpsertRepository(ctx, NewRepositoryRecord(testRepoConfig()))
	require.NoError(t, err)

	require.NoError(t, s.InsertSyncLog(ctx, SyncLogRecord{
		ID:          "log-1",
		RepoID:      repoID,
		Status:      StatusSuccess,
		SkillsAdded: 3,
		DurationMs:  120,
	}))
	require.NoError(t, s.InsertSyncLog(ctx, SyncLogRecord{
		ID:     "log-2",
		RepoID: repoID,
		Status: StatusError,
		Error:  "rate limited",
	}))

	logs, err := s.RecentSyncLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Newest first.
	assert.Equal(t, "log-2", logs[0].ID)
	assert.Equal(t, "rate limited", logs[0].Error)
	assert.Equal(t, 3, logs[1].SkillsAdded)
	assert.False(t, logs[0].CreatedAt.IsZero())
}

func TestRepositoryConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cfg := testRepoConfig()
	cfg.Options = skill.RepoOptions{
		SkillsPath:        "skills",
		DefaultCategory:   "development",
		CategoryOverrides: map[string]string{"pdf-tools": "document"},
		ExcludeFolders:    []string{"drafts", "wip-*"},
	}

	_, err := s.UpsertRepository(ctx, NewRepositoryRecord(cfg))
	require.NoError(t, err)

	rec, err := s.GetRepository(ctx, "octo", "skills")
	require.NoError(t, err)
	got := rec.Config()
	assert.Equal(t, cfg.Options, got.Options)
	assert.Equal(t, cfg.Owner, got.Owner)
}
