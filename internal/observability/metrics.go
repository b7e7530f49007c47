// Prometheus metrics for the HR portal. This file is the single source of
// truth for metric names, labels, and help strings; everything is registered
// with the default registry at init via promauto.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hr_portal"

// RequestsTotal counts handled HTTP requests.
// Labels: path (route pattern), method, status (numeric HTTP status).
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"path", "method", "status"},
)

// RequestDuration measures request handling time end-to-end.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"path", "method"},
)

// ErrorsTotal counts requests that ended in a domain error.
// Label: code (DomainError code such as INVALID_CREDENTIALS).
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of requests that failed with a domain error.",
	},
	[]string{"code"},
)

// LoginsTotal counts authentication attempts.
// Labels: role ("ADMIN"/"EMPLOYEE"), result ("success"/"failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts by role and result.",
	},
	[]string{"role", "result"},
)

// ResetTokensIssuedTotal counts password-reset tokens actually stored. The
// issue endpoint answers identically whether or not a token was created, so
// this counter is the only place the distinction is visible.
var ResetTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_tokens_issued_total",
		Help:      "Total number of password reset tokens issued.",
	},
)

// ResetRedemptionsTotal counts redeem attempts.
// Label: result ("success", "invalid", "expired", "rejected").
var ResetRedemptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_redemptions_total",
		Help:      "Total number of password reset redemption attempts by result.",
	},
	[]string{"result"},
)
