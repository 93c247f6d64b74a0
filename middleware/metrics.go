package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sophia_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sophia_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	// UptimeChecks counts monitoring sweep results by outcome.
	UptimeChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sophia_uptime_checks_total",
			Help: "Uptime sweep results by outcome",
		},
		[]string{"outcome"},
	)
)

func InitMetrics() {
	for _, collector := range []prometheus.Collector{httpRequests, httpDuration, UptimeChecks} {
		if err := prometheus.Register(collector); err != nil {
			log.Error().Err(err).Msg("Failed to register metric")
		}
	}
}

// Metrics records request counts and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
