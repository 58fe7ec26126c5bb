// Package cache provides in-memory TTL LRU caches keyed by string.
package cache

import (
	"time"
)

// Cache is a string-keyed cache of V.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Invalidate(key string)
	Clear()
	Stop()
}

// Stats is a snapshot of cache counters. Counters reset on Clear.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// HitRatio is Hits over lookups, or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	lookups := s.Hits + s.Misses
	if lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(lookups)
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Hits:      s.Hits + o.Hits,
		Misses:    s.Misses + o.Misses,
		Evictions: s.Evictions + o.Evictions,
		Size:      s.Size + o.Size,
		Capacity:  s.Capacity + o.Capacity,
	}
}

// Observer is told about every cache operation, e.g. ("get", "hit").
type Observer func(operation, result string)

// Option configures a cache.
type Option func(*config)

type config struct {
	shards        int
	now           func() time.Time
	observe       Observer
	report        func(Stats)
	sweepInterval time.Duration
}

func defaultConfig() config {
	return config{
		shards:        16,
		now:           time.Now,
		observe:       func(string, string) {},
		sweepInterval: time.Minute,
	}
}

// WithShards sets the shard count of a Sharded cache. It is rounded up to a
// power of two.
func WithShards(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.shards = n
		}
	}
}

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver installs fn as the operation observer.
func WithObserver(fn Observer) Option {
	return func(c *config) {
		if fn != nil {
			c.observe = fn
		}
	}
}

// WithStatsReporter calls fn with aggregated stats after every sweep.
func WithStatsReporter(fn func(Stats)) Option {
	return func(c *config) {
		c.report = fn
	}
}

// WithSweepInterval sets how often expired entries are purged. Zero or a
// negative interval disables the background sweep.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) {
		c.sweepInterval = d
	}
}
