package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "hermes/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	RequestIDKey = "request_id"
	TraceIDKey   = "trace_id"
)

// Trace extracts or generates trace and request IDs.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(c.GetHeader(HeaderTraceID), c.GetHeader(HeaderRequestID))

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))

		c.Set(TraceIDKey, trace.TraceID)
		c.Set(RequestIDKey, trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
