package storage

import "codeberg.org/mutker/homectl/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/homectl/homectl.db"
)

type Config struct {
	DBPath        string
	RetentionDays int
}

func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.RetentionDays < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "retention_days must not be negative")
	}
	return nil
}
