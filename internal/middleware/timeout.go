package middleware

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
	"github.com/guttosm/packing-slip-service/internal/logger"
	"github.com/guttosm/packing-slip-service/internal/metrics"
)

// TimeoutConfig holds configuration for the timeout middleware.
type TimeoutConfig struct {
	// Timeout is the maximum duration for request processing.
	Timeout time.Duration
}

// DefaultTimeoutConfig returns the default request timeout.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{Timeout: 30 * time.Second}
}

// Timeout puts a deadline on the request context, which the repositories pass
// to MongoDB, and holds the response back until the chain returns. If the
// deadline passed and the chain produced nothing or a 5xx, the caller gets 504
// instead. A 2xx or 4xx that made it is delivered as is: a generation that
// committed just after the deadline still reports its slip.
//
// An invoice reserved by a timed out generation is released by the handler
// path or, failing that, by the reservation sweeper.
func Timeout(cfg TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		out := c.Writer
		before := out.Header().Clone()
		held := &heldWriter{ResponseWriter: out}
		c.Writer = held
		defer func() { c.Writer = out }()

		c.Next()
		c.Writer = out

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && (!held.Written() || held.status >= 500) {
			metrics.RecordRequestTimeout(c.FullPath())
			logger.FromContext(ctx).Warn().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Dur("timeout", cfg.Timeout).
				Int("discarded_status", held.status).
				Msg("Request timed out")

			header := out.Header()
			clear(header)
			maps.Copy(header, before)
			message := i18n.GetTranslator().Translate(i18n.ErrKeyTimeout, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusGatewayTimeout,
				dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(GetRequestID(c)))
			return
		}

		held.release()
	}
}

// TimeoutWithDuration returns Timeout with the given duration.
func TimeoutWithDuration(timeout time.Duration) gin.HandlerFunc {
	cfg := DefaultTimeoutConfig()
	cfg.Timeout = timeout
	return Timeout(cfg)
}

// heldWriter buffers the status and body until release. Headers go straight
// to the wrapped writer's map, which is not sent before release.
type heldWriter struct {
	gin.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *heldWriter) WriteHeader(code int) {
	if w.status == 0 && code > 0 {
		w.status = code
	}
}

func (w *heldWriter) WriteHeaderNow() {
	if w.status == 0 {
		w.status = http.StatusOK
	}
}

func (w *heldWriter) Write(b []byte) (int, error) {
	w.WriteHeaderNow()
	return w.body.Write(b)
}

func (w *heldWriter) WriteString(s string) (int, error) {
	w.WriteHeaderNow()
	return w.body.WriteString(s)
}

func (w *heldWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *heldWriter) Size() int {
	if w.status == 0 {
		return -1
	}
	return w.body.Len()
}

func (w *heldWriter) Written() bool { return w.status != 0 }

// Flush is a no-op: nothing leaves before release.
func (w *heldWriter) Flush() {}

func (w *heldWriter) release() {
	if w.status == 0 {
		return
	}
	w.ResponseWriter.WriteHeader(w.status)
	if w.body.Len() == 0 {
		w.ResponseWriter.WriteHeaderNow()
		return
	}
	_, _ = w.ResponseWriter.Write(w.body.Bytes())
}
