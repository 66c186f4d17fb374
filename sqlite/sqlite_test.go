package sqlite_test

import (
	"context"
	"testing"

	"github.com/dashkite/unfurl/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		// Verify tables exist by querying them
		ctx := context.Background()

		var count int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})
}

func TestDB_Open_Reopen(t *testing.T) {
	t.Parallel()

	dbPath := t.TempDir() + "/cache.db"

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO records (id, url, metadata, fetched_at) VALUES ('r1', 'https://example.com', '{}', '2026-01-01T00:00:00Z')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening keeps existing rows since the schema is only created if missing.
	db = sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM records").Scan(&count))
	require.Equal(t, 1, count)
}

func TestDB_Open_AddsVariantColumn(t *testing.T) {
	t.Parallel()

	dbPath := t.TempDir() + "/cache.db"
	ctx := context.Background()

	// Rebuild the table as it was before records carried a variant.
	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	for _, stmt := range []string{
		"DROP INDEX idx_records_url_variant",
		"ALTER TABLE records DROP COLUMN variant",
		"INSERT INTO records (id, url, metadata, fetched_at) VALUES ('r1', 'https://example.com', '{}', '2026-01-01T00:00:00Z')",
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	db = sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	var variant string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT variant FROM records WHERE id = 'r1'").Scan(&variant))
	require.Empty(t, variant)
}
