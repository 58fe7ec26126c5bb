package cache

import (
	"hash/fnv"
	"sync"
	"time"
)

// Sharded spreads keys over several LRUs so readers of different keys do not
// share a lock. One goroutine sweeps expired entries from every shard.
type Sharded[V any] struct {
	shards   []*LRU[V]
	mask     uint32
	report   func(Stats)
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New returns a Sharded cache of total capacity split evenly across shards.
// Call Stop to end the background sweep.
func New[V any](capacity int, ttl time.Duration, opts ...Option) *Sharded[V] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	n := 1
	for n < cfg.shards {
		n <<= 1
	}

	s := &Sharded[V]{
		shards: make([]*LRU[V], n),
		mask:   uint32(n - 1),
		report: cfg.report,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = newLRU[V](capacity/n, ttl, cfg)
	}

	if cfg.sweepInterval > 0 {
		go s.sweep(cfg.sweepInterval)
	} else {
		close(s.done)
	}
	return s
}

func (s *Sharded[V]) shard(key string) *LRU[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()&s.mask]
}

// Get returns the live value for key.
func (s *Sharded[V]) Get(key string) (V, bool) { return s.shard(key).Get(key) }

// Set stores value under key.
func (s *Sharded[V]) Set(key string, value V) { s.shard(key).Set(key, value) }

// Invalidate drops key.
func (s *Sharded[V]) Invalidate(key string) { s.shard(key).Invalidate(key) }

// Clear empties every shard.
func (s *Sharded[V]) Clear() {
	for _, shard := range s.shards {
		shard.Clear()
	}
}

// Purge removes expired entries from every shard.
func (s *Sharded[V]) Purge() int {
	removed := 0
	for _, shard := range s.shards {
		removed += shard.Purge()
	}
	return removed
}

// Stats sums the counters of every shard.
func (s *Sharded[V]) Stats() Stats {
	var total Stats
	for _, shard := range s.shards {
		total = total.add(shard.Stats())
	}
	return total
}

// Stop ends the background sweep and waits for it. Safe to call twice.
func (s *Sharded[V]) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
}

func (s *Sharded[V]) sweep(every time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Purge()
			if s.report != nil {
				s.report(s.Stats())
			}
		case <-s.stopCh:
			return
		}
	}
}

var (
	_ Cache[int] = (*LRU[int])(nil)
	_ Cache[int] = (*Sharded[int])(nil)
)
