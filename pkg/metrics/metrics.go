// Package metrics exposes Prometheus collectors for the aggregation layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AggregationDuration observes one full scatter/gather fan-out.
	AggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "primis",
		Subsystem: "registry",
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of catalog aggregation fan-outs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	// AdapterErrors counts swallowed per-adapter failures during aggregation.
	AdapterErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "primis",
		Subsystem: "registry",
		Name:      "adapter_errors_total",
		Help:      "Adapter failures degraded to empty results during aggregation.",
	}, []string{"provider", "kind"})

	// CacheRequests counts router cache lookups by slot and outcome.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "primis",
		Subsystem: "router",
		Name:      "cache_requests_total",
		Help:      "Smart router cache lookups.",
	}, []string{"slot", "outcome"})

	// LaunchAttempts counts instance launches by provider and result.
	LaunchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "primis",
		Subsystem: "registry",
		Name:      "launch_attempts_total",
		Help:      "Instance launch attempts dispatched to providers.",
	}, []string{"provider", "result"})
)
