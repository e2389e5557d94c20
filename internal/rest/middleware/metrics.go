package middleware

import (
	"strconv"
	"time"

	"github.com/flexprice/invoicely/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and latency per matched route.
// Unmatched paths are grouped under a single label to bound cardinality.
func MetricsMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.ObserveRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
}
