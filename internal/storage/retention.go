package storage

import (
	"context"
	"database/sql"
	"time"

	"codeberg.org/mutker/homectl/internal/errors"
	"codeberg.org/mutker/homectl/internal/logger"
	"github.com/robfig/cron/v3"
)

// Readings are immutable and never deleted through the repository;
// this nightly job is the only bulk lifecycle they have.
const retentionSchedule = "0 3 * * *"

// Retention prunes readings older than a configured horizon on a cron
// schedule.
type Retention struct {
	db   *sql.DB
	cron *cron.Cron
	days int
}

// StartRetention schedules the nightly prune. A horizon of zero days
// disables the job and returns nil.
func StartRetention(db *sql.DB, cfg Config) (*Retention, error) {
	errFactory := errors.New()

	if cfg.RetentionDays <= 0 {
		logger.Debug().Msg("Reading retention disabled")
		return nil, nil
	}

	r := &Retention{
		db:   db,
		cron: cron.New(),
		days: cfg.RetentionDays,
	}

	if _, err := r.cron.AddFunc(retentionSchedule, func() {
		if err := r.PruneOnce(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Reading retention prune failed")
		}
	}); err != nil {
		return nil, errFactory.Wrap(ErrRetentionSchedule, err)
	}

	r.cron.Start()
	logger.Info().
		Int("retention_days", cfg.RetentionDays).
		Str("schedule", retentionSchedule).
		Msg("Reading retention scheduled")

	return r, nil
}

// PruneOnce deletes readings whose date falls before the retention
// horizon and checkpoints the WAL.
func (r *Retention) PruneOnce(ctx context.Context) error {
	errFactory := errors.New()

	cutoff := time.Now().AddDate(0, 0, -r.days).Format("2006-01-02")

	res, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE date < ?`, cutoff)
	if err != nil {
		return errFactory.Wrap(ErrRetentionPrune, err)
	}

	if _, err := r.db.ExecContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)"); err != nil {
		return errFactory.Wrap(ErrRetentionPrune, err)
	}

	deleted, _ := res.RowsAffected()
	logger.Info().
		Str("cutoff", cutoff).
		Int64("deleted", deleted).
		Msg("Pruned old readings")

	return nil
}

// Stop halts the schedule, letting a running prune finish.
func (r *Retention) Stop() {
	if r == nil {
		return
	}
	<-r.cron.Stop().Done()
}
