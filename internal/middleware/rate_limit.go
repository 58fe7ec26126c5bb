package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
	"github.com/guttosm/packing-slip-service/internal/logger"
	"github.com/guttosm/packing-slip-service/internal/metrics"
)

const defaultNumShards = 16

// KeyFunc selects the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// ByClientIP counts requests per client address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// BySubject counts requests per authenticated caller. Anonymous requests
// fall back to the client address.
func BySubject(c *gin.Context) string {
	if subject := GetSubject(c); subject != "" {
		return "subject:" + subject
	}
	return ByClientIP(c)
}

type fixedWindow struct {
	remaining int
	resetAt   time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
}

// RateLimiter is a fixed window limiter. Keys are spread over shards so
// concurrent callers rarely share a lock.
type RateLimiter struct {
	shards []*limiterShard
	limit  int
	window time.Duration
	now    func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter allows limit requests per key in every window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return NewShardedRateLimiter(limit, window, defaultNumShards)
}

// NewShardedRateLimiter is NewRateLimiter with an explicit shard count.
func NewShardedRateLimiter(limit int, window time.Duration, numShards int) *RateLimiter {
	rl := newRateLimiter(limit, window, numShards, time.Now)
	go rl.sweep()
	return rl
}

func newRateLimiter(limit int, window time.Duration, numShards int, now func() time.Time) *RateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	shards := make([]*limiterShard, numShards)
	for i := range shards {
		shards[i] = &limiterShard{windows: make(map[string]*fixedWindow)}
	}
	return &RateLimiter{
		shards: shards,
		limit:  limit,
		window: window,
		now:    now,
		stopCh: make(chan struct{}),
	}
}

func (rl *RateLimiter) shardFor(key string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return rl.shards[h.Sum32()%uint32(len(rl.shards))]
}

// allow consumes one request from the window of key. It returns the requests
// left in the window and the time until the window resets.
func (rl *RateLimiter) allow(key string) (bool, int, time.Duration) {
	shard := rl.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	now := rl.now()
	w, ok := shard.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &fixedWindow{remaining: rl.limit, resetAt: now.Add(rl.window)}
		shard.windows[key] = w
	}

	resetIn := w.resetAt.Sub(now)
	if w.remaining <= 0 {
		return false, 0, resetIn
	}
	w.remaining--
	return true, w.remaining, resetIn
}

// Middleware limits requests per key. scope labels the rejection metric.
func (rl *RateLimiter) Middleware(scope string, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetIn := rl.allow(key(c))
		resetSeconds := strconv.Itoa(ceilSeconds(resetIn))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetSeconds)

		if !allowed {
			metrics.RecordRateLimited(scope)
			logger.FromContext(c.Request.Context()).Debug().
				Str("scope", scope).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")

			c.Header("Retry-After", resetSeconds)
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
			return
		}

		c.Next()
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictExpired()
		case <-rl.stopCh:
			return
		}
	}
}

// evictExpired drops windows that have already reset.
func (rl *RateLimiter) evictExpired() {
	now := rl.now()
	for _, shard := range rl.shards {
		shard.mu.Lock()
		for key, w := range shard.windows {
			if !now.Before(w.resetAt) {
				delete(shard.windows, key)
			}
		}
		shard.mu.Unlock()
	}
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Stats reports the number of tracked keys, in total and per shard.
func (rl *RateLimiter) Stats() (total int, perShard []int) {
	perShard = make([]int, len(rl.shards))
	for i, shard := range rl.shards {
		shard.mu.Lock()
		perShard[i] = len(shard.windows)
		shard.mu.Unlock()
		total += perShard[i]
	}
	return total, perShard
}
