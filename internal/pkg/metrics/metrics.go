// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treasury_upstream_requests_total",
		Help: "Upstream HTTP requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "treasury_upstream_request_seconds",
		Help:    "Upstream HTTP request latency.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"provider"})

	Retries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treasury_retries_total",
		Help: "Retries by provider and backoff class.",
	}, []string{"provider", "class"})

	ResolverWins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treasury_resolver_source_total",
		Help: "Fallback resolver outcomes by query and winning source.",
	}, []string{"query", "source"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treasury_cache_lookups_total",
		Help: "Cache lookups by result (hit, miss, stale).",
	}, []string{"result"})

	RPCRotations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_rpc_endpoint_rotations_total",
		Help: "RPC endpoint rotations after a failed batch.",
	})
)
