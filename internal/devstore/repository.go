// Package devstore persists device snapshots keyed by device id.
package devstore

import (
	"context"
	"database/sql"
	"sync"

	"codeberg.org/mutker/homectl/internal/device"
	"codeberg.org/mutker/homectl/internal/errors"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRepository builds a device repository over an opened store.
func NewRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Save(ctx context.Context, s device.State) error {
	errFactory := errors.New()

	if s.ID == "" {
		return errFactory.New(ErrInvalidSnapshot)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO devices (device_id, name, kind, brand, on_state, online, level, power_usage)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(device_id) DO UPDATE SET
            name = excluded.name,
            kind = excluded.kind,
            brand = excluded.brand,
            on_state = excluded.on_state,
            online = excluded.online,
            level = excluded.level,
            power_usage = excluded.power_usage
    `,
		s.ID,
		s.Name,
		s.Kind.String(),
		s.Brand,
		boolToInt(s.On),
		boolToInt(s.Online),
		s.Level,
		s.PowerUsage,
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Update(ctx context.Context, s device.State) error {
	return r.Save(ctx, s)
}

func (r *sqliteRepository) FindByID(ctx context.Context, id string) (device.State, error) {
	errFactory := errors.New()

	row := r.db.QueryRowContext(ctx, `
        SELECT device_id, name, kind, brand, on_state, online, level, power_usage
        FROM devices
        WHERE device_id = ?
    `, id)

	s, err := scanState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return device.State{}, errFactory.WithData(ErrNotFound, id)
	}
	if err != nil {
		return device.State{}, errFactory.Wrap(ErrStorageAccess, err)
	}

	return s, nil
}

func (r *sqliteRepository) FindAll(ctx context.Context) ([]device.State, error) {
	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, `
        SELECT device_id, name, kind, brand, on_state, online, level, power_usage
        FROM devices
        ORDER BY device_id
    `)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var states []device.State
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return states, nil
}

func (r *sqliteRepository) DeleteByID(ctx context.Context, id string) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Readings for this device are deliberately left behind.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE device_id = ?`, id); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (device.State, error) {
	var (
		s        device.State
		kind     string
		onState  int
		onlineID int
	)
	if err := row.Scan(&s.ID, &s.Name, &kind, &s.Brand, &onState, &onlineID, &s.Level, &s.PowerUsage); err != nil {
		return device.State{}, err
	}

	s.Kind = device.ParseKind(kind)
	s.On = onState != 0
	s.Online = onlineID != 0

	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
