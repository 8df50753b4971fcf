// Package metrics defines and registers all custom Prometheus metrics for
// the inventory client core. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory_client"

// Request outcome label values used by the pipeline.
const (
	OutcomeOK           = "ok"
	OutcomeUnauthorized = "unauthorized"
	OutcomeValidation   = "validation"
	OutcomeForbidden    = "forbidden"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeServerError  = "server_error"
	OutcomeNetworkError = "network_error"
)

// RequestsTotal counts outbound backend calls by HTTP method and outcome.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of outbound backend calls, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures how long a single outbound call takes, including
// any transparent refresh-and-retry.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound backend calls, end to end.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// TokenRefreshTotal counts transparent access-token refresh attempts.
// Label:
//   - result: "success" or "failure"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access-token refresh attempts, by result.",
	},
	[]string{"result"},
)

// ForcedLogoutsTotal counts sessions cleared because token recovery failed.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of logout cascades triggered by unrecoverable authentication failures.",
	},
)

// BackendUp reflects the most recent liveness probe result: 1 reachable,
// 0 unreachable.
var BackendUp = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_up",
		Help:      "Whether the last liveness probe of the backend succeeded.",
	},
)

// HealthProbeDuration measures liveness probe round-trip time.
var HealthProbeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "health_probe_duration_seconds",
		Help:      "Duration of backend liveness probes.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	},
)
