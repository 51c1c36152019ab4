package market

import (
	"context"
	"sync"
	"time"
)

// CachedSource wraps a PriceDataSource and serves every request after the
// first from an in-memory copy. This is the "load once, evaluate many"
// half of the optimizer contract: a sweep over thousands of parameter
// combinations must hit the underlying source exactly once.
type CachedSource struct {
	inner PriceDataSource

	mu     sync.Mutex
	loaded bool
	series Series
	loads  int
}

func NewCachedSource(inner PriceDataSource) *CachedSource {
	return &CachedSource{inner: inner}
}

// GetSeries loads from the inner source on first call and serves window
// slices of the cached copy afterwards. The cached bars are shared
// read-only; callers never receive a deep copy and must not mutate.
func (c *CachedSource) GetSeries(ctx context.Context, symbol, timeframe string, start, end time.Time) (Series, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		s, err := c.inner.GetSeries(ctx, symbol, timeframe, start, end)
		if err != nil {
			return Series{}, err
		}
		c.series = s
		c.loaded = true
		c.loads++
		return s, nil
	}
	c.loads++
	return c.series.Window(start, end), nil
}

// Loads reports how many GetSeries calls have been served. The underlying
// source is only ever hit on the first.
func (c *CachedSource) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}
