package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware records request latency against the matched route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
