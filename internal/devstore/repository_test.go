package devstore_test

import (
	"context"
	"database/sql"
	"testing"

	"codeberg.org/mutker/homectl/internal/device"
	"codeberg.org/mutker/homectl/internal/devstore"
	"codeberg.org/mutker/homectl/internal/errors"
	"codeberg.org/mutker/homectl/internal/logger"
	"codeberg.org/mutker/homectl/internal/reading"
	"codeberg.org/mutker/homectl/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	logger.Init(false, false, true)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.InitSchema(db))

	return db
}

func TestSaveAndFindByID(t *testing.T) {
	repo := devstore.NewRepository(openTestDB(t))
	ctx := context.Background()

	s := device.State{
		ID:         "dev-20250307090502",
		Name:       "Living Room AC",
		Brand:      "Arctic",
		Kind:       device.KindAC,
		On:         true,
		Online:     true,
		Level:      22,
		PowerUsage: 690,
	}
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestUpdateUpserts(t *testing.T) {
	repo := devstore.NewRepository(openTestDB(t))
	ctx := context.Background()

	s := device.State{ID: "dev-1", Name: "Fan", Kind: device.KindFan, Level: 3}
	require.NoError(t, repo.Save(ctx, s))

	s.On = true
	s.PowerUsage = 35
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.FindByID(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, got.On)
	assert.Equal(t, 35, got.PowerUsage)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := devstore.NewRepository(openTestDB(t))

	_, err := repo.FindByID(context.Background(), "dev-missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, devstore.ErrNotFound))
}

func TestFindAll(t *testing.T) {
	repo := devstore.NewRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, device.State{ID: "dev-2", Name: "Fan", Kind: device.KindFan}))
	require.NoError(t, repo.Save(ctx, device.State{ID: "dev-1", Name: "AC", Kind: device.KindAC}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dev-1", all[0].ID)
	assert.Equal(t, "dev-2", all[1].ID)
}

func TestDeleteByIDLeavesReadings(t *testing.T) {
	db := openTestDB(t)
	devices := devstore.NewRepository(db)
	readings := reading.NewRepository(db, 0)
	ctx := context.Background()

	require.NoError(t, devices.Save(ctx, device.State{ID: "dev-1", Name: "AC", Kind: device.KindAC}))
	require.NoError(t, readings.Save(ctx, &reading.Reading{
		ID: "r1", DeviceID: "dev-1", Date: "2025-03-07", Time: "09:00:00", Data: "line",
	}))

	require.NoError(t, devices.DeleteByID(ctx, "dev-1"))

	_, err := devices.FindByID(ctx, "dev-1")
	assert.True(t, errors.IsCode(err, devstore.ErrNotFound))

	// No cascade: the reading survives its device.
	orphans, err := readings.FindByDeviceID(ctx, "dev-1", 10)
	require.NoError(t, err)
	assert.Len(t, orphans, 1)
}

func TestDeleteAbsentIsNoError(t *testing.T) {
	repo := devstore.NewRepository(openTestDB(t))
	assert.NoError(t, repo.DeleteByID(context.Background(), "dev-missing"))
}

func TestUnknownKindTolerated(t *testing.T) {
	db := openTestDB(t)
	repo := devstore.NewRepository(db)
	ctx := context.Background()

	// A row written by a newer build with a kind this build does not
	// know comes back as unknown.
	_, err := db.ExecContext(ctx, `
        INSERT INTO devices (device_id, name, kind, brand, on_state, online, level, power_usage)
        VALUES ('dev-x', 'Toaster', 'TOASTER', 'Crisp', 1, 1, 2, 0)
    `)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "dev-x")
	require.NoError(t, err)
	assert.Equal(t, device.KindUnknown, got.Kind)
}
