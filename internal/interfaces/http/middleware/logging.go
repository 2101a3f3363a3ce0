package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/fundtrail/internal/shared/id"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDLength = 16
)

// RequestLogger writes one line per request and echoes X-Request-ID, assigning one when
// the caller sent none. The error a handler rendered is logged with its details, so a
// settlement reference shown to the client can be found by request id.
func RequestLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID, _ = id.Generate(requestIDLength)
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", fields...)
		case status >= 400:
			log.Warnw("request refused", fields...)
		default:
			log.Debugw("request served", fields...)
		}
	}
}
