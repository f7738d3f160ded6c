// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ReactionToggles *prometheus.CounterVec
	Uploads         *prometheus.CounterVec
}

// New returns the process-wide metrics, registering them on first use.
//
// Metrics:
//   - jcb_http_requests_total{method,route,status}
//   - jcb_http_request_duration_seconds{method,route}
//   - jcb_reaction_toggles_total{target,action}
//   - jcb_uploads_total{strategy,result}
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jcb_http_requests_total",
					Help: "Total HTTP requests by method, route and status code",
				},
				[]string{"method", "route", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "jcb_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
				},
				[]string{"method", "route"},
			),
			ReactionToggles: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jcb_reaction_toggles_total",
					Help: "Reaction toggles by target kind and resulting action",
				},
				[]string{"target", "action"},
			),
			Uploads: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jcb_uploads_total",
					Help: "Server-side upload operations by strategy and result",
				},
				[]string{"strategy", "result"},
			),
		}
	})
	return globalMetrics
}
