package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/observability"
)

// unobservedRoutes are probe and scrape endpoints kept out of API latency.
var unobservedRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

// Metrics records per-route request counts and latency. Requests that match
// no route are grouped under "unmatched" to keep label cardinality bounded.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if unobservedRoutes[route] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
