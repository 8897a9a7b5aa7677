package middleware

import (
	"context"
	"time"

	"admissions_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request id to the context and response headers,
// honoring one supplied by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := float64(time.Since(start).Microseconds()) / 1000.0
		log.WithContext(c.Request.Context()).HTTPRequest(
			c.Request.Method,
			c.FullPath(),
			c.Writer.Status(),
			latency,
			c.ClientIP(),
		)
	}
}
