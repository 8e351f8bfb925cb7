package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the engine. Components accept a
// nil *Metrics and skip recording, so unit tests don't fight over the
// default registry.
type Metrics struct {
	// --- Core processing ---
	EventsApplied *prometheus.CounterVec
	EventErrors   *prometheus.CounterVec
	ApplyDuration *prometheus.HistogramVec

	// --- Dispatcher ---
	EventsRouted prometheus.Counter
	LanesOpened  prometheus.Counter
	LanesActive  prometheus.Gauge

	// --- Export ---
	ExportRows     prometheus.Counter
	ExportDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	applyBuckets := []float64{
		0.000001, 0.000005, 0.00001, 0.000025, 0.00005,
		0.0001, 0.00025, 0.0005, 0.001,
	}

	return &Metrics{
		EventsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_events_applied_total",
			Help: "Events successfully applied by the state machine",
		}, []string{"kind"}),

		EventErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_event_errors_total",
			Help: "Per-event domain errors reported by workers",
		}, []string{"kind"}),

		ApplyDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pay_event_apply_duration_seconds",
			Help:    "State machine apply latency",
			Buckets: applyBuckets,
		}, []string{"kind"}),

		EventsRouted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pay_events_routed_total",
			Help: "Events routed to a client lane",
		}),

		LanesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pay_lanes_opened_total",
			Help: "Client lanes created",
		}),

		LanesActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_lanes_active",
			Help: "Client lanes currently draining",
		}),

		ExportRows: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pay_export_rows_total",
			Help: "Balance snapshot rows written to Postgres",
		}),

		ExportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pay_export_duration_seconds",
			Help:    "Balance snapshot export latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
