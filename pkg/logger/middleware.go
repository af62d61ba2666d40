package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	// userIDKey matches the key the auth middleware stores the caller under.
	userIDKey = "user_id"
)

// RequestID assigns a request id, reusing the caller's X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs every request once it has been handled. Errors attached
// to 5xx responses are logged separately.
func RequestLogger(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		reqLog := l
		if id := c.GetString(RequestIDKey); id != "" {
			reqLog = reqLog.WithRequestID(id)
		}
		if uid := c.GetString(userIDKey); uid != "" {
			reqLog = reqLog.WithUserID(uid)
		}
		reqLog.LogHTTPRequest(c, time.Since(start))

		if status := c.Writer.Status(); status >= 500 && len(c.Errors) > 0 {
			reqLog.LogHTTPError(c, c.Errors.Last(), status)
		}
	}
}
