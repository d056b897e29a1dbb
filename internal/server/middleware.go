package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reportportal/service-api-sub011/internal/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestLogger tags every request with an id and logs the outcome. The id
// from the incoming header is kept so callers can correlate across services.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("component", "RequestLogger")
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		if status >= 500 {
			reqLog.Error("Request failed", fields...)
			return
		}
		reqLog.Info("Request handled", fields...)
	}
}
