package service

import (
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/service/cache"
)

const slipCacheShards = 16

// SlipCache caches generated packing slips by number. A slip never changes
// once its invoice is packed, so entries only leave by TTL or eviction.
type SlipCache = cache.Sharded[model.PackingSlip]

// NewSlipCache returns a sharded slip cache reporting to Prometheus.
func NewSlipCache(capacity int, ttl time.Duration) *SlipCache {
	return cache.New[model.PackingSlip](capacity, ttl,
		cache.WithShards(slipCacheShards),
		cache.WithObserver(metrics.RecordCacheOperation),
		cache.WithStatsReporter(func(s cache.Stats) {
			metrics.UpdateCacheMetrics(s.Size, s.Capacity)
		}),
	)
}
