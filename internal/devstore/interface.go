package devstore

import (
	"context"

	"codeberg.org/mutker/homectl/internal/device"
)

// Repository persists device snapshots keyed by device id. Deleting a
// device leaves its readings in place; there is no cascade.
type Repository interface {
	// Save upserts a snapshot.
	Save(ctx context.Context, s device.State) error

	// Update is an alias of Save kept for call-site clarity; both
	// upsert.
	Update(ctx context.Context, s device.State) error

	// FindByID returns the snapshot for id, or a not-found error,
	// which is distinct from a storage error.
	FindByID(ctx context.Context, id string) (device.State, error)

	// FindAll scans the whole table. Device counts are small enough
	// that this is fine.
	FindAll(ctx context.Context) ([]device.State, error)

	// DeleteByID removes a snapshot. Deleting an absent id is not an
	// error.
	DeleteByID(ctx context.Context, id string) error
}
