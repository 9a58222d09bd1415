package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricket_gateway_requests_total",
			Help: "Gateway requests served, by resource and HTTP status.",
		},
		[]string{"resource", "status"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cricket_gateway_request_duration_seconds",
			Help:    "Latency of gateway resource reads.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricket_sync_runs_total",
			Help: "Per-resource sync attempts, by outcome.",
		},
		[]string{"resource", "status"},
	)

	SyncRecordsMerged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricket_sync_records_merged_total",
			Help: "Upstream records merged into local storage.",
		},
		[]string{"resource"},
	)
)
