package task

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var (
	listCacheHits = promauto.NewCounter(prometheus.CounterOpts{Name: "task_list_cache_hits_total"})
	listCacheMiss = promauto.NewCounter(prometheus.CounterOpts{Name: "task_list_cache_miss_total"})
)

// ListCache memoizes the full task listing between mutations.
// Concurrent misses collapse into a single repository read.
type ListCache struct {
	mu        sync.RWMutex
	items     []Task
	fetchedAt time.Time
	ttl       time.Duration
	group     singleflight.Group
}

func NewListCache(ttl time.Duration) *ListCache {
	return &ListCache{ttl: ttl}
}

func (c *ListCache) Get(ctx context.Context, load func(context.Context) ([]Task, error)) ([]Task, error) {
	c.mu.RLock()
	if c.items != nil && (c.ttl <= 0 || time.Since(c.fetchedAt) <= c.ttl) {
		items := c.items
		c.mu.RUnlock()
		listCacheHits.Inc()
		return items, nil
	}
	c.mu.RUnlock()
	listCacheMiss.Inc()

	v, err, _ := c.group.Do("tasks", func() (interface{}, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items = items
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Task), nil
}

func (c *ListCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
