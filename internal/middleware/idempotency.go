// Package middleware provides HTTP middleware components for the packing slip service.
package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
)

const (
	// IdempotencyKeyHeader carries the client chosen key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a successful response stays replayable.
	IdempotencyKeyTTL = 5 * time.Minute
	// MaxIdempotencyKeyLength is the longest key accepted.
	MaxIdempotencyKeyLength = 255
	// DefaultIdempotencyEntries bounds the number of stored responses.
	DefaultIdempotencyEntries = 10000
)

// IdempotencyConfig configures the Idempotency middleware.
type IdempotencyConfig struct {
	TTL        time.Duration
	MaxEntries int
	Enabled    bool

	store *idempotencyStore
}

// DefaultIdempotencyConfig returns an enabled config with a five minute window.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:        IdempotencyKeyTTL,
		MaxEntries: DefaultIdempotencyEntries,
		Enabled:    true,
	}
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key. A client retrying a packing slip generation after a lost
// response gets the slip it created instead of invalid_state.
//
// A key is scoped to the authenticated subject, the method and the path.
// Reusing it with a different body gets 422, and a retry arriving while the
// first request still runs gets 409. Failed responses are not kept, so the
// client may retry them with the same key.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	store := cfg.store
	if store == nil {
		ttl := cfg.TTL
		if ttl <= 0 {
			ttl = IdempotencyKeyTTL
		}
		store = newIdempotencyStore(ttl, cfg.MaxEntries)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortIdempotency(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyIdempotencyKeyLong)
			return
		}

		body, err := peekBody(c.Request)
		if err != nil {
			abortIdempotency(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody)
			return
		}

		scope := idempotencyScope(key, GetSubject(c), c.Request.Method, c.Request.URL.Path)
		fingerprint := digest(body)

		prior, claim := store.begin(scope, fingerprint)
		switch claim {
		case claimReplay:
			replay(c, prior)
			return
		case claimInFlight:
			abortIdempotency(c, http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyIdempotencyInFlight)
			return
		case claimReused:
			abortIdempotency(c, http.StatusUnprocessableEntity, dto.ErrCodeIdempotencyReused, i18n.ErrKeyIdempotencyReused)
			return
		}

		var kept *storedResponse
		defer func() { store.finish(scope, kept) }()

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			header := rec.Header().Clone()
			header.Del(RequestIDHeader)
			kept = &storedResponse{
				status:      status,
				header:      header,
				body:        rec.body.Bytes(),
				fingerprint: fingerprint,
			}
		}
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// peekBody reads the request body and puts an identical reader back.
func peekBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func idempotencyScope(key, subject, method, path string) string {
	h := sha256.New()
	for _, part := range []string{key, subject, method, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func replay(c *gin.Context, resp *storedResponse) {
	dst := c.Writer.Header()
	for name, values := range resp.header {
		dst[name] = append([]string(nil), values...)
	}
	dst.Set(IdempotencyReplayedHeader, "true")
	c.Writer.WriteHeader(resp.status)
	_, _ = c.Writer.Write(resp.body)
	c.Abort()
}

func abortIdempotency(c *gin.Context, status int, code, messageKey string) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c))
	c.AbortWithStatusJSON(status, dto.NewError(code, message).WithRequestID(GetRequestID(c)))
}

// recordingWriter copies the response body while passing it through.
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
