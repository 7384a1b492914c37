package reading

import "context"

// Reading is one persisted telemetry line. DeviceID is the partition
// key, ID the sort key; ids are lexicographically time-ordered by
// construction. Readings are immutable once written.
type Reading struct {
	ID       string
	DeviceID string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM:SS
	Data     string // formatted telemetry line, opaque to storage
}

// Timestamp is the sortable date+time concatenation range logic works
// on.
func (r Reading) Timestamp() string {
	return r.Date + " " + r.Time
}

// Repository persists and queries readings.
type Repository interface {
	// Save upserts a reading by (DeviceID, ID).
	Save(ctx context.Context, r *Reading) error

	// FindByDeviceID returns up to limit readings for one device,
	// most recent first. This is an indexed single-partition query.
	FindByDeviceID(ctx context.Context, deviceID string, limit int) ([]Reading, error)

	// FindRecent returns up to limit readings across all devices,
	// most recent first. There is no cross-partition index: this is a
	// full scan plus an in-memory sort and does not scale with table
	// size.
	FindRecent(ctx context.Context, limit int) ([]Reading, error)

	// FindByDateRange returns readings whose timestamp falls within
	// [start 00:00:00, end 23:59:59], ascending, silently capped at
	// the configured scan cap. Callers must not assume completeness
	// beyond the cap. Also a full scan.
	FindByDateRange(ctx context.Context, start, end string) ([]Reading, error)
}
