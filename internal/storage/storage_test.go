package storage_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/homectl/internal/logger"
	"codeberg.org/mutker/homectl/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	logger.Init(false, false, true)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestInitSchemaCreatesTables(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, storage.InitSchema(db))

	for _, table := range []string{"schema_versions", "devices", "readings"} {
		exists, err := storage.TableExists(db, table)
		require.NoError(t, err)
		assert.True(t, exists, "expected table %s", table)
	}

	version, err := storage.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, storage.SchemaVersion, version)
}

func TestInitSchemaIdempotent(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, storage.InitSchema(db))
	require.NoError(t, storage.InitSchema(db))

	var versions int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_versions`).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestGetSchemaVersionFreshDatabase(t *testing.T) {
	db := openMemoryDB(t)

	version, err := storage.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestOpenValidatesConfig(t *testing.T) {
	logger.Init(false, false, true)

	_, err := storage.Open(storage.Config{})
	require.Error(t, err)
}

func TestOpenAndClose(t *testing.T) {
	logger.Init(false, false, true)

	cfg := storage.Config{DBPath: filepath.Join(t.TempDir(), "homectl.db")}
	db, err := storage.Open(cfg)
	require.NoError(t, err)

	exists, err := storage.TableExists(db, "readings")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, storage.Close(db))
}

func TestRetentionPrunesOldReadings(t *testing.T) {
	logger.Init(false, false, true)

	cfg := storage.Config{
		DBPath:        filepath.Join(t.TempDir(), "homectl.db"),
		RetentionDays: 30,
	}
	db, err := storage.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	insert := func(id, date string) {
		_, err := db.Exec(`
            INSERT INTO readings (device_id, reading_id, date, time, data)
            VALUES ('dev-1', ?, ?, '12:00:00', 'line')
        `, id, date)
		require.NoError(t, err)
	}
	insert("r-old", "2001-01-01")
	insert("r-new", "2999-01-01")

	ret, err := storage.StartRetention(db, cfg)
	require.NoError(t, err)
	require.NotNil(t, ret)
	t.Cleanup(ret.Stop)

	require.NoError(t, ret.PruneOnce(context.Background()))

	var remaining []string
	rows, err := db.Query(`SELECT reading_id FROM readings`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		remaining = append(remaining, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"r-new"}, remaining)
}

func TestRetentionDisabled(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, storage.InitSchema(db))

	ret, err := storage.StartRetention(db, storage.Config{DBPath: ":memory:"})
	require.NoError(t, err)
	assert.Nil(t, ret, "zero retention days disables the job")
	ret.Stop() // nil-safe
}
