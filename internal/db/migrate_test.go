package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_AppliesSchema(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{
		"course_assignments",
		"curriculum_lessons",
		"recurrence_patterns",
		"pattern_time_slots",
		"occurrences",
		"lesson_reports",
		"blocked_dates",
	} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}

	version, err := db.SchemaVersion(context.Background(), database, db.DialectSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, 1, database.Stats().MaxOpenConnections)
}

func TestOpenDB_MigrateIsIdempotent(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.Migrate(context.Background(), database, db.DialectSQLite))
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lessonplan.db")

	database, err := db.OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Reopening an existing file keeps the schema and does not re-run migrations.
	again, err := db.OpenDB(path)
	require.NoError(t, err)
	defer again.Close()
	version, err := db.SchemaVersion(context.Background(), again, db.DialectSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestOpenDB_OccurrenceKeyIsUnique(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO course_assignments (id, course_id, start_date, created_at, updated_at)
		VALUES ('ca-1', 'c-1', '2024-03-04', '2024-03-01T00:00:00Z', '2024-03-01T00:00:00Z')`)
	require.NoError(t, err)

	insert := `INSERT INTO occurrences (id, course_assignment_id, lesson_id, start_at, end_at, lesson_number, origin, created_at, updated_at)
		VALUES (?, 'ca-1', 'L1', '2024-03-04T15:00:00Z', '2024-03-04T16:00:00Z', 1, 'generated', '2024-03-01T00:00:00Z', '2024-03-01T00:00:00Z')`
	_, err = database.Exec(insert, "o-1")
	require.NoError(t, err)
	_, err = database.Exec(insert, "o-2")
	assert.Error(t, err, "second occurrence for the same lesson must be rejected")
}

func TestMigrate_UnknownDialect(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	err = db.Migrate(context.Background(), database, db.Dialect("oracle"))
	assert.Error(t, err)
}
