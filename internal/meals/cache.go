package meals

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
)

type monthRecords map[calendar.Month][]Record

// Cache memoizes an upstream Source per month.
// Readers load the current map without locking; writers replace it with a copy.
type Cache struct {
	Upstream Source

	entries atomic.Pointer[monthRecords]
	mu      sync.Mutex
}

// NewCache wraps upstream.
func NewCache(upstream Source) *Cache {
	c := &Cache{Upstream: upstream}
	c.entries.Store(&monthRecords{})
	return c
}

// MealsForMonth returns the cached records of m, fetching them on a miss.
func (c *Cache) MealsForMonth(ctx context.Context, m calendar.Month) ([]Record, error) {
	if cur := c.entries.Load(); cur != nil {
		if records, ok := (*cur)[m]; ok {
			slog.Debug(config.MsgCacheHit,
				config.LogKeyComponent, config.CompMeals,
				config.LogKeyMonth, m.String())
			return records, nil
		}
	}

	records, err := c.Upstream.MealsForMonth(ctx, m)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := monthRecords{}
	if cur := c.entries.Load(); cur != nil {
		for k, v := range *cur {
			next[k] = v
		}
	}
	next[m] = records
	c.entries.Store(&next)

	return records, nil
}

// Invalidate drops every cached month.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Store(&monthRecords{})
	slog.Debug(config.MsgCacheCleared, config.LogKeyComponent, config.CompMeals)
}

// Len returns the number of cached months.
func (c *Cache) Len() int {
	if cur := c.entries.Load(); cur != nil {
		return len(*cur)
	}
	return 0
}

// RunRefresher invalidates the cache every interval until ctx is cancelled.
// A non-positive interval disables the worker.
func (c *Cache) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	slog.Info(config.MsgWorkerStart,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyInterval, interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info(config.MsgWorkerStop, config.LogKeyComponent, config.CompWorker)
			return
		case <-ticker.C:
			c.Invalidate()
		}
	}
}
