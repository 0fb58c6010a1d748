package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RPCRequestsTotal counts JSON-RPC calls issued to the fullnode, by method.
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suiport_rpc_requests_total",
			Help: "Total JSON-RPC requests issued to the Sui fullnode.",
		},
		[]string{"method"},
	)

	// RPCRetriesTotal counts retried JSON-RPC calls, by method.
	RPCRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suiport_rpc_retries_total",
			Help: "Total JSON-RPC retry attempts.",
		},
		[]string{"method"},
	)

	// RPCFailuresTotal counts JSON-RPC calls that failed after retries, by
	// method and failure kind (transport, protocol).
	RPCFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suiport_rpc_failures_total",
			Help: "Total JSON-RPC calls failed after exhausting retries.",
		},
		[]string{"method", "kind"},
	)

	// PriceFeedRequestsTotal counts batched price feed lookups.
	PriceFeedRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "suiport_price_feed_requests_total",
			Help: "Total batched price feed requests.",
		},
	)

	// PriceFeedFailuresTotal counts price feed lookups that returned no data.
	PriceFeedFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "suiport_price_feed_failures_total",
			Help: "Total price feed requests that failed.",
		},
	)

	// SnapshotRunsTotal counts completed valuation runs.
	SnapshotRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "suiport_snapshot_runs_total",
			Help: "Total completed portfolio snapshot runs.",
		},
	)

	// SnapshotDuration observes end-to-end run duration in seconds.
	SnapshotDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suiport_snapshot_duration_seconds",
			Help:    "Duration of a full snapshot run.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once from main before any collector is used.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		RPCRequestsTotal,
		RPCRetriesTotal,
		RPCFailuresTotal,
		PriceFeedRequestsTotal,
		PriceFeedFailuresTotal,
		SnapshotRunsTotal,
		SnapshotDuration,
	)
}
