package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus360/portal-api/internal/service"
)

// Metrics times each request and records it against the route pattern,
// not the raw URL, so path parameters do not explode label cardinality.
// A nil service turns the middleware into a pass-through.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			// Unmatched routes have no pattern; 404s group under the raw path.
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
