// Package reading persists telemetry readings in a partitioned
// key-value layout: device_id partitions, reading_id sorts within a
// partition.
package reading

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"codeberg.org/mutker/homectl/internal/errors"

	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultScanCap = 250
	minScanCap     = 100
	maxScanCap     = 500
)

type sqliteRepository struct {
	db      *sql.DB
	scanCap int
	mu      sync.Mutex
}

// NewRepository builds a reading repository over an opened store.
// scanCap bounds date-range results; zero picks the default and
// out-of-range values are clamped to [100, 500].
func NewRepository(db *sql.DB, scanCap int) Repository {
	switch {
	case scanCap == 0:
		scanCap = defaultScanCap
	case scanCap < minScanCap:
		scanCap = minScanCap
	case scanCap > maxScanCap:
		scanCap = maxScanCap
	}

	return &sqliteRepository{
		db:      db,
		scanCap: scanCap,
	}
}

func (r *sqliteRepository) Save(ctx context.Context, rd *Reading) error {
	errFactory := errors.New()

	if rd == nil || rd.ID == "" || rd.DeviceID == "" {
		return errFactory.New(ErrInvalidReading)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO readings (device_id, reading_id, date, time, data)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(device_id, reading_id) DO UPDATE SET
            date = excluded.date,
            time = excluded.time,
            data = excluded.data
    `,
		rd.DeviceID,
		rd.ID,
		rd.Date,
		rd.Time,
		rd.Data,
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) FindByDeviceID(ctx context.Context, deviceID string, limit int) ([]Reading, error) {
	errFactory := errors.New()

	if limit <= 0 {
		return nil, errFactory.New(ErrInvalidLimit)
	}

	// Reverse sort-key order within one partition; the composite
	// primary key serves this without a scan.
	rows, err := r.db.QueryContext(ctx, `
        SELECT device_id, reading_id, date, time, data
        FROM readings
        WHERE device_id = ?
        ORDER BY reading_id DESC
        LIMIT ?
    `, deviceID, limit)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	return collect(rows)
}

func (r *sqliteRepository) FindRecent(ctx context.Context, limit int) ([]Reading, error) {
	errFactory := errors.New()

	if limit <= 0 {
		return nil, errFactory.New(ErrInvalidLimit)
	}

	readings, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(readings, func(i, j int) bool {
		ti, tj := readings[i].Timestamp(), readings[j].Timestamp()
		if ti != tj {
			return ti > tj
		}
		return readings[i].ID > readings[j].ID
	})

	if len(readings) > limit {
		readings = readings[:limit]
	}

	return readings, nil
}

func (r *sqliteRepository) FindByDateRange(ctx context.Context, start, end string) ([]Reading, error) {
	errFactory := errors.New()

	if start == "" || end == "" || start > end {
		return nil, errFactory.WithData(ErrInvalidRange, struct {
			Start string
			End   string
		}{start, end})
	}

	lower := start + " 00:00:00"
	upper := end + " 23:59:59"

	all, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	// Client-side filter over the full scan: no secondary index
	// exists on (date, time).
	readings := all[:0]
	for _, rd := range all {
		ts := rd.Timestamp()
		if ts >= lower && ts <= upper {
			readings = append(readings, rd)
		}
	}

	sort.Slice(readings, func(i, j int) bool {
		ti, tj := readings[i].Timestamp(), readings[j].Timestamp()
		if ti != tj {
			return ti < tj
		}
		return readings[i].ID < readings[j].ID
	})

	// Truncation past the cap is silent.
	if len(readings) > r.scanCap {
		readings = readings[:r.scanCap]
	}

	return readings, nil
}

// scan reads the whole readings table.
func (r *sqliteRepository) scan(ctx context.Context) ([]Reading, error) {
	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, `
        SELECT device_id, reading_id, date, time, data
        FROM readings
    `)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]Reading, error) {
	errFactory := errors.New()

	var readings []Reading
	for rows.Next() {
		var rd Reading
		if err := rows.Scan(&rd.DeviceID, &rd.ID, &rd.Date, &rd.Time, &rd.Data); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return readings, nil
}
