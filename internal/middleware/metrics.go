package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"adterminal/internal/metrics"
)

// PrometheusMetrics records request count, latency and in-flight requests,
// labelled by the matched route pattern rather than the raw path.
func PrometheusMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		c.Next()

		metrics.RecordAPIRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
