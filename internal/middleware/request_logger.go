package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/logger"
	"github.com/guttosm/packing-slip-service/internal/service"
	"github.com/rs/zerolog"
)

// probePaths are polled by orchestrators and scrapers. Successful calls are
// logged at debug and never stored.
var probePaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger logs each request with the request-scoped logger and stores
// it in the logs collection when loggingService is set.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		level := levelForStatus(status)
		probe := probePaths[c.Request.URL.Path] && status < 400
		if probe {
			level = zerolog.DebugLevel
		}

		event := logger.FromContext(c.Request.Context()).WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status_code", status).
			Int("bytes", c.Writer.Size()).
			Dur("duration_ms", latency).
			Str("ip", c.ClientIP())
		if subject := GetSubject(c); subject != "" {
			event = event.Str("subject", subject)
		}
		event.Msg("HTTP request")

		if loggingService == nil || probe {
			return
		}

		entry := &model.LogEntry{
			Timestamp:  start.UTC(),
			Level:      level.String(),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: status,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Subject:    GetSubject(c),
			InvoiceID:  c.Param("invoiceId"),
		}
		if route := c.FullPath(); route != "" {
			entry.WithField("route", route)
		}
		if len(c.Errors) > 0 {
			entry.Error = strings.Join(c.Errors.Errors(), "; ")
		}
		storeLogEntry(loggingService, entry)
	}
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
