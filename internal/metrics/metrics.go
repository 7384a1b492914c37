// Package metrics exposes prometheus instrumentation for the
// telemetry pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Streaming counts what the telemetry producer does per tick.
type Streaming struct {
	Lines             prometheus.Counter
	TransportFailures prometheus.Counter
	ReadingsPersisted prometheus.Counter
	TickDuration      prometheus.Histogram
}

// NewStreaming registers the streaming collectors with reg. A nil
// registerer yields working but unregistered collectors, which is what
// tests want.
func NewStreaming(reg prometheus.Registerer) *Streaming {
	factory := promauto.With(reg)

	return &Streaming{
		Lines: factory.NewCounter(prometheus.CounterOpts{
			Name: "homectl_telemetry_lines_total",
			Help: "Telemetry lines generated and handed to the transport.",
		}),
		TransportFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "homectl_transport_failures_total",
			Help: "Transport sends that failed; failures are logged, not retried.",
		}),
		ReadingsPersisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "homectl_readings_persisted_total",
			Help: "Telemetry lines additionally persisted as readings.",
		}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "homectl_tick_duration_seconds",
			Help:    "Wall time of one full streaming tick including all sends.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Handler serves the default registry for the optional /metrics
// endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
