// Package metrics exposes Prometheus instrumentation for the analysis
// service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TensorBuilds counts tensor constructions by analysis mode.
	TensorBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shotlens",
		Name:      "tensor_builds_total",
		Help:      "Shot tensors built, by analysis mode.",
	}, []string{"mode"})

	// EventsDropped counts events discarded during binning.
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shotlens",
		Name:      "events_dropped_total",
		Help:      "Shot events dropped for falling outside the grid or time range.",
	})

	// EventsRetained counts events accumulated into tensors.
	EventsRetained = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shotlens",
		Name:      "events_retained_total",
		Help:      "Shot events binned into tensors.",
	})

	// SidecarCalls counts calls to the compute sidecar by operation and
	// outcome.
	SidecarCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shotlens",
		Name:      "sidecar_calls_total",
		Help:      "Compute sidecar calls, by operation and status.",
	}, []string{"op", "status"})

	// RequestDuration observes HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shotlens",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
