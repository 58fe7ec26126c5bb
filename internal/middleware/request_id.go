package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guttosm/packing-slip-service/internal/logger"
)

const (
	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader = "X-Request-ID"
	// TraceParentHeader is the W3C trace context header.
	TraceParentHeader = "traceparent"
	// ContextKeyRequestID holds the request id in the gin context.
	ContextKeyRequestID = "request_id"

	maxRequestIDLength = 128
)

// RequestID tags every request with a correlation id.
//
// A well formed X-Request-ID from the caller (the ERP or Dispatch correlating
// its own calls) wins. Otherwise the trace id of a valid traceparent is used,
// and failing both a time ordered UUID is minted. The id is echoed in the
// response and bound to the request context logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := incomingRequestID(c)
		c.Set(ContextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

func incomingRequestID(c *gin.Context) string {
	if id := c.GetHeader(RequestIDHeader); validRequestID(id) {
		return id
	}
	if traceID, ok := traceIDFrom(c.GetHeader(TraceParentHeader)); ok {
		return traceID
	}
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// traceIDFrom extracts the trace id of a version 00 traceparent
// ("00-<32 hex>-<16 hex>-<2 hex>"). An all zero trace id is invalid.
func traceIDFrom(header string) (string, bool) {
	parts := strings.Split(header, "-")
	if len(parts) != 4 || parts[0] != "00" || len(parts[1]) != 32 || len(parts[2]) != 16 || len(parts[3]) != 2 {
		return "", false
	}
	traceID := parts[1]
	if !isLowerHex(traceID) || strings.Trim(traceID, "0") == "" {
		return "", false
	}
	return traceID, true
}

func isLowerHex(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && (r < 'a' || r > 'f')
	}) < 0
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '-', r == '_', r == '.', r == ':':
			return false
		}
		return true
	}) < 0
}
