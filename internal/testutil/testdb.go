package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens an in-memory lesson store schema and fails the test unless
// every migration applied. The database is closed on cleanup.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	return openMigrated(t, ":memory:")
}

// NewFileTestDB is NewTestDB backed by a file in the test's temp dir. The
// returned path can be reopened to check what survives a restart.
func NewFileTestDB(t testing.TB) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lessonplan.db")
	return openMigrated(t, path), path
}

func openMigrated(t testing.TB, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = database.Close() })

	version, err := db.SchemaVersion(t.Context(), database, db.DialectSQLite)
	require.NoError(t, err)
	require.Positive(t, version, "schema has no applied migrations")
	return database
}
