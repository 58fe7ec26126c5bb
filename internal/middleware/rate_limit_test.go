package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRateLimiter(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	return newRateLimiter(limit, window, 4, clock.now), clock
}

func TestNewShardedRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		numShards  int
		wantShards int
	}{
		{"zero uses default", 0, defaultNumShards},
		{"negative uses default", -3, defaultNumShards},
		{"custom", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(10, time.Minute, tt.numShards)
			defer rl.Stop()

			assert.Len(t, rl.shards, tt.wantShards)
			assert.Equal(t, 10, rl.limit)
			assert.Equal(t, time.Minute, rl.window)
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, clock := newTestRateLimiter(3, time.Minute)

	for want := 2; want >= 0; want-- {
		ok, remaining, resetIn := rl.allow("subject:ops")
		require.True(t, ok)
		assert.Equal(t, want, remaining)
		assert.Equal(t, time.Minute, resetIn)
	}

	clock.advance(15 * time.Second)
	ok, remaining, resetIn := rl.allow("subject:ops")
	assert.False(t, ok)
	assert.Zero(t, remaining)
	assert.Equal(t, 45*time.Second, resetIn)

	ok, _, _ = rl.allow("subject:warehouse")
	assert.True(t, ok, "other keys have their own window")

	clock.advance(45 * time.Second)
	ok, remaining, _ = rl.allow("subject:ops")
	assert.True(t, ok, "window resets")
	assert.Equal(t, 2, remaining)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl, clock := newTestRateLimiter(2, 30*time.Second)

	router := gin.New()
	router.Use(RequestID(), rl.Middleware("global", ByClientIP))
	router.POST("/api/invoices/:invoiceId/packing-slip", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/invoices/INV-1/packing-slip", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send("10.0.0.1:5000")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusCreated, send("10.0.0.1:5001").Code)

	clock.advance(10*time.Second + 500*time.Millisecond)
	w = send("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "20", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"error":"rate_limit_exceeded"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusCreated, send("10.0.0.2:5000").Code)
}

func TestRateLimiter_MiddlewareBySubject(t *testing.T) {
	rl, _ := newTestRateLimiter(1, time.Minute)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if s := c.GetHeader("X-Test-Subject"); s != "" {
			c.Set(ContextKeySubject, s)
		}
		c.Next()
	}, rl.Middleware("subject", BySubject))
	router.GET("/api/packing-slips", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(subject string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/packing-slips", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Test-Subject", subject)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("picker-1"))
	assert.Equal(t, http.StatusTooManyRequests, send("picker-1"))
	assert.Equal(t, http.StatusOK, send("picker-2"), "same address, different caller")
	assert.Equal(t, http.StatusOK, send(""), "anonymous falls back to address")
}

func TestKeyFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.168.1.1:12345"

	assert.Equal(t, "ip:192.168.1.1", ByClientIP(c))
	assert.Equal(t, "ip:192.168.1.1", BySubject(c))

	c.Set(ContextKeySubject, "api-key:0a1b2c")
	assert.Equal(t, "subject:api-key:0a1b2c", BySubject(c))
}

func TestRateLimiter_EvictExpiredAndStats(t *testing.T) {
	rl, clock := newTestRateLimiter(5, time.Minute)

	for _, key := range []string{"a", "b", "c"} {
		rl.allow(key)
	}
	clock.advance(30 * time.Second)
	rl.allow("d")

	total, perShard := rl.Stats()
	assert.Equal(t, 4, total)
	assert.Len(t, perShard, 4)

	clock.advance(45 * time.Second)
	rl.evictExpired()

	total, _ = rl.Stats()
	assert.Equal(t, 1, total, "only the newest window survives")
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestCeilSeconds(t *testing.T) {
	assert.Equal(t, 0, ceilSeconds(0))
	assert.Equal(t, 1, ceilSeconds(200*time.Millisecond))
	assert.Equal(t, 2, ceilSeconds(2*time.Second))
}
