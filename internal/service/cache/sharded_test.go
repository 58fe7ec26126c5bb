package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RoundsShards(t *testing.T) {
	tests := []struct {
		shards int
		want   int
	}{
		{0, 16},
		{-2, 16},
		{1, 1},
		{3, 4},
		{8, 8},
		{9, 16},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.shards), func(t *testing.T) {
			c := New[int](64, time.Minute, WithShards(tt.shards), WithSweepInterval(0))
			defer c.Stop()

			assert.Len(t, c.shards, tt.want)
			assert.Equal(t, uint32(tt.want-1), c.mask)
		})
	}
}

func TestSharded_RoundTrip(t *testing.T) {
	c := New[int](400, time.Minute, WithShards(4), WithSweepInterval(0))
	defer c.Stop()

	for i := range 100 {
		c.Set(fmt.Sprintf("PS-20261019-%012d", i), i)
	}
	for i := range 100 {
		got, ok := c.Get(fmt.Sprintf("PS-20261019-%012d", i))
		require.True(t, ok, i)
		assert.Equal(t, i, got)
	}

	s := c.Stats()
	assert.EqualValues(t, 100, s.Hits)
	assert.Equal(t, 100, s.Size)
	assert.Equal(t, 400, s.Capacity)
}

func TestSharded_KeyStaysOnShard(t *testing.T) {
	c := New[int](64, time.Minute, WithShards(8), WithSweepInterval(0))
	defer c.Stop()

	assert.Same(t, c.shard("PS-42"), c.shard("PS-42"))
}

func TestSharded_InvalidateClear(t *testing.T) {
	c := New[int](64, time.Minute, WithShards(4), WithSweepInterval(0))
	defer c.Stop()

	c.Set("PS-1", 1)
	c.Set("PS-2", 2)
	c.Invalidate("PS-1")

	_, ok := c.Get("PS-1")
	assert.False(t, ok)
	_, ok = c.Get("PS-2")
	assert.True(t, ok)

	c.Clear()
	assert.Zero(t, c.Stats().Size)
	assert.Zero(t, c.Stats().Hits)
}

func TestSharded_SweepReportsStats(t *testing.T) {
	clk := newClock()
	reports := make(chan Stats, 8)
	c := New[int](64, time.Minute,
		WithShards(2),
		WithClock(clk.Now),
		WithSweepInterval(5*time.Millisecond),
		WithStatsReporter(func(s Stats) {
			select {
			case reports <- s:
			default:
			}
		}),
	)
	defer c.Stop()

	c.Set("PS-1", 1)
	c.Set("PS-2", 2)
	clk.Advance(2 * time.Minute)

	assert.Eventually(t, func() bool { return c.Stats().Size == 0 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return len(reports) > 0 }, time.Second, 5*time.Millisecond)
}

func TestSharded_StopTwice(t *testing.T) {
	c := New[int](8, time.Minute, WithSweepInterval(time.Millisecond))
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

func TestSharded_Concurrent(t *testing.T) {
	c := New[int](1024, time.Minute, WithSweepInterval(time.Millisecond))
	defer c.Stop()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := fmt.Sprintf("PS-%d-%d", w, i%20)
				c.Set(key, i)
				_, _ = c.Get(key)
				if i%50 == 0 {
					c.Invalidate(key)
				}
			}
		}()
	}
	wg.Wait()

	s := c.Stats()
	assert.LessOrEqual(t, s.Size, s.Capacity)
	assert.Positive(t, s.Hits)
}
