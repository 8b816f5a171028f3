package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
}

func TestDefaultDBPath(t *testing.T) {
	origBasePath := os.Getenv("SKILLS_STORE_BASE_PATH")
	defer os.Setenv("SKILLS_STORE_BASE_PATH", origBasePath)

	t.Run("with SKILLS_STORE_BASE_PATH", func(t *testing.T) {
		os.Setenv("SKILLS_STORE_BASE_PATH", "/custom/path")
		path, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, "/custom/path/skills.db", path)
	})

	t.Run("without SKILLS_STORE_BASE_PATH", func(t *testing.T) {
		os.Setenv("SKILLS_STORE_BASE_PATH", "")
		path, err := DefaultDBPath()
		require.NoError(t, err)
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, ".skills-store", "skills.db"), path)
	})
}

func testMigrations() []Migration {
	return []Migration{
		{
			Version:     20240101000001,
			Description: "Create test table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT)")
				return err
			},
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec("DROP TABLE test_items")
				return err
			},
		},
		{
			Version:     20240101000002,
			Description: "Add column",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("ALTER TABLE test_items ADD COLUMN created_at DATETIME")
				return err
			},
			Down: func(tx *sql.Tx) error {
				return nil
			},
		},
	}
}

func TestMigrationRunner(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db)
	migrations := testMigrations()

	require.NoError(t, runner.Run(ctx, migrations))

	versions, err := runner.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{20240101000001, 20240101000002}, versions)

	t.Run("rerun is a no-op", func(t *testing.T) {
		require.NoError(t, runner.Run(ctx, migrations))

		versions, err := runner.GetAppliedVersions(ctx)
		require.NoError(t, err)
		assert.Len(t, versions, 2)
	})

	t.Run("rollback removes the latest migration", func(t *testing.T) {
		require.NoError(t, runner.Rollback(ctx, migrations))

		versions, err := runner.GetAppliedVersions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{20240101000001}, versions)
	})

	t.Run("rollback without a down function fails", func(t *testing.T) {
		noDown := []Migration{{
			Version:     20240101000001,
			Description: "Create test table",
			Up:          migrations[0].Up,
		}}
		assert.Error(t, runner.Rollback(ctx, noDown))
	})
}

func TestMigrationRunner_AppliesInVersionOrder(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	migrations := testMigrations()
	// Reversed input order; the runner must sort before applying, or the
	// ALTER TABLE would run against a missing table.
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run(ctx, []Migration{migrations[1], migrations[0]}))

	versions, err := runner.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{20240101000001, 20240101000002}, versions)
}
