// Package config loads daemon configuration from a TOML file,
// environment, and command-line flags, in ascending precedence.
package config

import (
	"os"

	"codeberg.org/mutker/homectl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval      = 3
	defaultPersistEvery  = 33
	defaultScanCap       = 250
	defaultRetentionDays = 0
	defaultDBPath        = "/var/lib/homectl/homectl.db"
)

type Config struct {
	Interval      int    `mapstructure:"interval"`
	PersistEvery  int    `mapstructure:"persist_every"`
	ScanCap       int    `mapstructure:"scan_cap"`
	Database      string `mapstructure:"database"`
	RetentionDays int    `mapstructure:"retention_days"`
	MetricsListen string `mapstructure:"metrics_listen"`
	LogLevel      string `mapstructure:"log_level"`
	Debug         bool   `mapstructure:"debug"`
	Verbose       bool   `mapstructure:"verbose"`
}

// Load reads configuration from homectl.toml (or the file named by
// HOMECTL_CONFIG), then applies flag overrides and validates.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("persist_every", defaultPersistEvery)
	v.SetDefault("scan_cap", defaultScanCap)
	v.SetDefault("database", defaultDBPath)
	v.SetDefault("retention_days", defaultRetentionDays)
	v.SetDefault("metrics_listen", "")
	v.SetDefault("log_level", DefaultLogLevel)

	// A fresh flag set per call keeps repeated loads (tests) from
	// tripping over re-registration.
	fs := pflag.NewFlagSet("homectl", pflag.ContinueOnError)
	fs.Int("interval", defaultInterval, "Seconds between telemetry ticks")
	fs.Int("persist-every", defaultPersistEvery, "Persist every Nth telemetry line")
	fs.Int("scan-cap", defaultScanCap, "Maximum rows returned by date-range queries")
	fs.String("database", defaultDBPath, "Path to the sqlite database")
	fs.Int("retention-days", defaultRetentionDays, "Days of readings to keep, 0 disables pruning")
	fs.String("metrics-listen", "", "Address for the prometheus endpoint, empty disables it")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	for key, flag := range map[string]string{
		"interval":       "interval",
		"persist_every":  "persist-every",
		"scan_cap":       "scan-cap",
		"database":       "database",
		"retention_days": "retention-days",
		"metrics_listen": "metrics-listen",
		"log_level":      "log-level",
		"debug":          "debug",
		"verbose":        "verbose",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if path := os.Getenv("HOMECTL_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("homectl")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.PersistEvery <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "persist_every must be positive")
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}
