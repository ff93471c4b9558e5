package ledger

import (
	"context"
	"time"

	"vypiska/internal/cache"
	"vypiska/internal/core"
)

// cacheKey is the single key cached readers use; one reader serves one
// statement source.
const cacheKey = "statement"

// Cached decorates a Reader with a TTL cache so that building several
// reports in a row does not re-read the underlying spreadsheet.
type Cached struct {
	inner Reader
	cache cache.Cache[*core.Table]
}

// NewCached wraps a reader with a cache holding the statement for ttl.
func NewCached(inner Reader, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: cache.NewLRU[*core.Table](1, ttl),
	}
}

func (c *Cached) Read(ctx context.Context) (*core.Table, error) {
	if table, ok := c.cache.Get(cacheKey); ok {
		return table, nil
	}
	table, err := c.inner.Read(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey, table)
	return table, nil
}

// Invalidate drops the cached statement, forcing the next read through.
func (c *Cached) Invalidate() {
	c.cache.Delete(cacheKey)
}
