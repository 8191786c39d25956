package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// RequestLogger writes one line per request: debug for healthy probes, info
// for success, warn for 4xx and error for 5xx.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		ctx := c.Request.Context()
		if td := ctxutil.GetTraceData(ctx); td != nil {
			fields = append(fields, "request_id", td.RequestID, "trace_id", td.TraceID)
		}
		if id := ctxutil.UserID(ctx); id != uuid.Nil {
			fields = append(fields, "user_id", id.String())
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case route == "/healthcheck":
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
