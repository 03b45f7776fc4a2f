package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID propagates X-Request-ID into the request context,
// generating one when the client did not send it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), reqID))
		c.Writer.Header().Set("X-Request-ID", reqID)

		c.Next()
	}
}

// AccessLog logs every HTTP request with structured fields.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		FromCtx(c.Request.Context()).Info("incoming request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("duration_ms", time.Since(start)),
		)
	}
}
