package dev

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics are exported on /metrics by the dev server.
//
// Collected:
//   - roko_dev_generations_total: regenerated files by result
//   - roko_dev_generation_duration_seconds: duration of regeneration batches
//   - roko_dev_wasm_builds_total: WebAssembly builds by result
//   - roko_dev_reloads_total: reload broadcasts by message type
//   - roko_dev_reload_clients: connected reload clients
type serverMetrics struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	builds      *prometheus.CounterVec
	reloads     *prometheus.CounterVec
	clients     prometheus.Gauge
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roko",
			Subsystem: "dev",
			Name:      "generations_total",
			Help:      "Total number of regenerated files, by result",
		}, []string{"result"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roko",
			Subsystem: "dev",
			Name:      "generation_duration_seconds",
			Help:      "Regeneration batch duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		}),

		builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roko",
			Subsystem: "dev",
			Name:      "wasm_builds_total",
			Help:      "Total number of WebAssembly builds, by result",
		}, []string{"result"}),

		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roko",
			Subsystem: "dev",
			Name:      "reloads_total",
			Help:      "Total number of reload broadcasts, by message type",
		}, []string{"type"}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "roko",
			Subsystem: "dev",
			Name:      "reload_clients",
			Help:      "Number of connected reload clients",
		}),
	}
}
