// Package telemetry generates simulated sensor readings and streams
// them from a background producer.
package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/homectl/internal/device"
	"codeberg.org/mutker/homectl/internal/errors"
	"codeberg.org/mutker/homectl/internal/ident"
	"codeberg.org/mutker/homectl/internal/logger"
	"codeberg.org/mutker/homectl/internal/metrics"
	"codeberg.org/mutker/homectl/internal/reading"
)

// Streamer is the telemetry producer: every tick it snapshots the
// device collection, generates one line per device, forwards each line
// over the transport, and persists every Nth line as a reading.
//
// One producer iteration always runs to completion: cancellation is
// observed between ticks, never inside one, and a slow transport
// simply delays subsequent ticks rather than overlapping them.
type Streamer struct {
	cfg       Config
	registry  *device.Registry
	transport Transport
	repo      reading.Repository
	gen       *Generator
	stats     *metrics.Streaming

	counter   atomic.Uint64
	streaming atomic.Bool
}

// NewStreamer wires a producer. stats may be nil, in which case
// unregistered collectors are used.
func NewStreamer(
	cfg Config,
	registry *device.Registry,
	transport Transport,
	repo reading.Repository,
	gen *Generator,
	stats *metrics.Streaming,
) (*Streamer, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil || transport == nil || repo == nil || gen == nil {
		return nil, errFactory.New(ErrMissingWiring)
	}
	if stats == nil {
		stats = metrics.NewStreaming(nil)
	}

	return &Streamer{
		cfg:       cfg,
		registry:  registry,
		transport: transport,
		repo:      repo,
		gen:       gen,
		stats:     stats,
	}, nil
}

// IsStreaming reports whether a Run loop is active.
func (s *Streamer) IsStreaming() bool {
	return s.streaming.Load()
}

// Run streams until ctx is cancelled. Only one loop may run at a time.
// A failed tick never terminates the loop.
func (s *Streamer) Run(ctx context.Context) error {
	errFactory := errors.New()

	if !s.streaming.CompareAndSwap(false, true) {
		return errFactory.New(ErrAlreadyStreaming)
	}
	defer s.streaming.Store(false)

	logger.Info().
		Dur("interval", s.cfg.Interval).
		Int("persist_every", s.cfg.PersistEvery).
		Msg("Telemetry streaming started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Telemetry streaming stopped")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one full producer iteration over all known devices.
func (s *Streamer) tick(ctx context.Context) {
	start := time.Now()

	for _, d := range s.registry.Snapshot() {
		st := d.State()
		line := s.gen.Line(st.Name, st.Kind, st.Level, st.PowerUsage)

		s.stats.Lines.Inc()
		if err := s.transport.Send(line); err != nil {
			// Fire and forget: log, count, move on.
			s.stats.TransportFailures.Inc()
			logger.Warn().
				Err(err).
				Str("device_id", st.ID).
				Msg("Transport send failed")
		}

		if n := s.counter.Add(1); n%uint64(s.cfg.PersistEvery) == 0 {
			s.persist(ctx, st.ID, line)
		}
	}

	s.stats.TickDuration.Observe(time.Since(start).Seconds())
}

func (s *Streamer) persist(ctx context.Context, deviceID, line string) {
	now := time.Now()
	rd := &reading.Reading{
		ID:       ident.NewReadingID(),
		DeviceID: deviceID,
		Date:     ident.Date(now),
		Time:     ident.Clock(now),
		Data:     line,
	}

	if err := s.repo.Save(ctx, rd); err != nil {
		logger.Error().
			Err(err).
			Str("device_id", deviceID).
			Msg("Failed to persist reading")
		return
	}

	s.stats.ReadingsPersisted.Inc()
	logger.Debug().
		Str("reading_id", rd.ID).
		Str("device_id", deviceID).
		Msg("Reading persisted")
}
