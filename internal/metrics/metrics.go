package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all poll-stream metrics
type Metrics struct {
	// Video stream counters
	FramesFetched atomic.Uint64
	FrameErrors   atomic.Uint64

	// Event stream counters
	EventBatches  atomic.Uint64
	EventErrors   atomic.Uint64
	StaleBatches  atomic.Uint64
	LastBatchSize atomic.Uint64

	// Health stream counters
	HealthChecks   atomic.Uint64
	HealthFailures atomic.Uint64

	// Scene switching
	SceneSwitches   atomic.Uint64
	SwitchRollbacks atomic.Uint64

	// Latency tracking
	EventLatencyMs atomic.Uint64 // Last event fetch latency in ms

	// Prometheus collectors
	registry *prometheus.Registry
}

// New creates a new Metrics instance with Prometheus collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.registerPrometheusMetrics()
	return m
}

// registerPrometheusMetrics registers all metrics with Prometheus
func (m *Metrics) registerPrometheusMetrics() {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_frames_fetched_total",
			Help: "Total video frames fetched from the backend",
		},
		func() float64 { return float64(m.FramesFetched.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_frame_errors_total",
			Help: "Total failed video frame fetches",
		},
		func() float64 { return float64(m.FrameErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_event_batches_total",
			Help: "Total event batches fetched and applied",
		},
		func() float64 { return float64(m.EventBatches.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_event_errors_total",
			Help: "Total failed event polls",
		},
		func() float64 { return float64(m.EventErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_stale_batches_total",
			Help: "Event batches that arrived after a scene switch",
		},
		func() float64 { return float64(m.StaleBatches.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_last_batch_size",
			Help: "Size of the most recent event batch",
		},
		func() float64 { return float64(m.LastBatchSize.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_health_checks_total",
			Help: "Total health probes issued",
		},
		func() float64 { return float64(m.HealthChecks.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_health_failures_total",
			Help: "Total failed health probes",
		},
		func() float64 { return float64(m.HealthFailures.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_scene_switches_total",
			Help: "Total successful scene switches",
		},
		func() float64 { return float64(m.SceneSwitches.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_switch_rollbacks_total",
			Help: "Scene switches rolled back after backend failure",
		},
		func() float64 { return float64(m.SwitchRollbacks.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "monitor_event_latency_ms",
			Help: "Latency of the most recent event fetch in milliseconds",
		},
		func() float64 { return float64(m.EventLatencyMs.Load()) },
	))
}

// UpdateEventLatency records the latency of an event fetch
func (m *Metrics) UpdateEventLatency(start time.Time) {
	m.EventLatencyMs.Store(uint64(time.Since(start).Milliseconds()))
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server
func (m *Metrics) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
