package telemetry

import (
	"time"

	"codeberg.org/mutker/homectl/internal/errors"
)

const (
	defaultInterval = 3 * time.Second

	// Every Nth generated line is also persisted as a reading.
	defaultPersistEvery = 33
)

type Config struct {
	Interval     time.Duration
	PersistEvery int
}

func DefaultConfig() Config {
	return Config{
		Interval:     defaultInterval,
		PersistEvery: defaultPersistEvery,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(ErrInvalidInterval, c.Interval)
	}
	if c.PersistEvery <= 0 {
		return errFactory.WithData(ErrInvalidCadence, c.PersistEvery)
	}
	return nil
}
