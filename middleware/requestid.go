package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "rqID"

// RequestID tags every request with a uuid and logs it on completion.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rqID := c.GetHeader("X-Request-ID")
		if rqID == "" {
			rqID = uuid.NewString()
		}
		c.Set(RequestIDKey, rqID)
		c.Writer.Header().Set("X-Request-ID", rqID)

		start := time.Now()
		c.Next()

		slog.Debug(
			"request completed",
			slog.String("rqID", rqID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

// GetRequestID returns the request id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	rqID, ok := c.Get(RequestIDKey)
	if !ok {
		return ""
	}
	s, _ := rqID.(string)
	return s
}
