package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxRequestIDLen = 128
)

// AttachRequestContext tags the request with request and trace ids, echoes
// them back as headers, and bounds the context by timeout so DB and storage
// calls made with it are cancelled when the budget runs out.
func AttachRequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}
		traceID := ""
		// a sampled span from otelgin wins over whatever the client sent
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else if h := strings.TrimSpace(c.GetHeader(headerTraceID)); h != "" && len(h) <= maxRequestIDLen {
			traceID = h
		} else {
			traceID = reqID
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{TraceID: traceID, RequestID: reqID})
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}
