// Package metrics holds the Prometheus collectors the service exports on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cv_portfolio"

// LoginAttemptsTotal counts admin login attempts.
// Label result: success, invalid_credentials, locked, not_found.
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_login_attempts_total",
		Help:      "Admin login attempts by result.",
	},
	[]string{"result"},
)

var LockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_lockouts_total",
		Help:      "Number of times an admin identity was locked out.",
	},
)

// ProfileSavesTotal counts persisted profile records.
// Labels locale and trigger (manual, autosave, import).
var ProfileSavesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_saves_total",
		Help:      "Profile records saved, by locale and trigger.",
	},
	[]string{"locale", "trigger"},
)

var ActivityEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_entries_total",
		Help:      "Activity log entries appended, by action.",
	},
	[]string{"action"},
)

var ActivityArchivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_archived_total",
		Help:      "Activity entries handled by the archive worker, by outcome.",
	},
	[]string{"outcome"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route, method and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)

// GinMiddleware records HTTPRequestDuration for every matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
