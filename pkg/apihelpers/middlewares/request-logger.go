package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured record per request. Runs after RequestID and sees the
// user id set by the auth middleware.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if ip := c.ClientIP(); ip != "" {
			fields = append(fields, slog.String("ip", ip))
		}
		if reqID := c.GetString("requestId"); reqID != "" {
			fields = append(fields, slog.String("request_id", reqID))
		}
		if userID := c.GetString("userId"); userID != "" {
			fields = append(fields, slog.String("user_id", userID))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	}
}
