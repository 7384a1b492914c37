package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/homectl/internal/config"
	"codeberg.org/mutker/homectl/internal/device"
	"codeberg.org/mutker/homectl/internal/devstore"
	"codeberg.org/mutker/homectl/internal/logger"
	"codeberg.org/mutker/homectl/internal/metrics"
	"codeberg.org/mutker/homectl/internal/pid"
	"codeberg.org/mutker/homectl/internal/reading"
	"codeberg.org/mutker/homectl/internal/storage"
	"codeberg.org/mutker/homectl/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to acquire pid file")
	}
	defer pid.Remove()

	storageCfg := storage.Config{
		DBPath:        cfg.Database,
		RetentionDays: cfg.RetentionDays,
	}
	db, err := storage.Open(storageCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer func() {
		if err := storage.Close(db); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	devices := devstore.NewRepository(db)
	readings := reading.NewRepository(db, cfg.ScanCap)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	registry := device.NewRegistry()
	if err := restoreFleet(ctx, registry, devices); err != nil {
		logger.Fatal().Err(err).Msg("failed to restore device fleet")
	}

	retention, err := storage.StartRetention(db, storageCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule reading retention")
	}
	defer retention.Stop()

	if cfg.MetricsListen != "" {
		serveMetrics(cfg.MetricsListen)
	}

	streamer, err := telemetry.NewStreamer(
		telemetry.Config{
			Interval:     time.Duration(cfg.Interval) * time.Second,
			PersistEvery: cfg.PersistEvery,
		},
		registry,
		&logTransport{},
		readings,
		telemetry.NewGenerator(time.Now().UnixNano()),
		metrics.NewStreaming(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build streamer")
	}

	if err := streamer.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in streaming loop")
	}

	persistFleet(registry, devices)
	logger.Info().Msg("Exiting...")
}

// restoreFleet loads the persisted fleet, seeding a small default one
// on first run, and attaches the notification sink to each device.
func restoreFleet(ctx context.Context, registry *device.Registry, devices devstore.Repository) error {
	states, err := devices.FindAll(ctx)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		for _, d := range []*device.Device{
			device.New(device.KindAC, "Arctic", "Living Room AC"),
			device.New(device.KindFan, "Breeze", "Bedroom Fan"),
			device.New(device.KindSpeaker, "Boom", "Kitchen Speaker"),
		} {
			if err := devices.Save(ctx, d.State()); err != nil {
				return err
			}
			d.Attach(&logObserver{})
			registry.Add(d)
		}
		logger.Info().Int("devices", registry.Len()).Msg("Seeded default fleet")
		return nil
	}

	for _, s := range states {
		d := device.Restore(s)
		d.Attach(&logObserver{})
		registry.Add(d)
	}
	logger.Info().Int("devices", registry.Len()).Msg("Restored device fleet")

	return nil
}

func persistFleet(registry *device.Registry, devices devstore.Repository) {
	// Best effort on the way out; storage may already be degraded.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, d := range registry.Snapshot() {
		if err := devices.Update(ctx, d.State()); err != nil {
			logger.Error().Err(err).Str("device_id", d.ID()).Msg("failed to persist device state")
		}
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	go func() {
		logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("metrics endpoint failed")
		}
	}()
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

// logTransport is the in-binary telemetry sink; the real network
// transport is wired in by deployments that have one.
type logTransport struct{}

func (*logTransport) Send(line string) error {
	logger.Info().Msg(line)
	return nil
}

// logObserver surfaces device state changes on the console.
type logObserver struct{}

func (*logObserver) Receive(message string) {
	logger.Info().Msg(message)
}
