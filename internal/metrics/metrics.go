// Package metrics registers the Prometheus collectors for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hisab_http_requests_total",
		Help: "Total HTTP requests handled.",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hisab_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// WSConnections tracks currently open websocket connections.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hisab_ws_connections",
		Help: "Currently open websocket connections.",
	})

	// Broadcasts counts realtime events fanned out by event kind.
	Broadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hisab_ws_broadcasts_total",
		Help: "Realtime events broadcast to group channels.",
	}, []string{"event"})

	// BroadcastErrors counts failed websocket writes. Failures are logged
	// and dropped, never surfaced to the write path.
	BroadcastErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hisab_ws_broadcast_errors_total",
		Help: "Websocket writes that failed during broadcast.",
	})
)
