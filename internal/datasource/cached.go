package datasource

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/talentdesk/internal/table"
)

// Cached wraps a Source with a time-based cache.
//
// Concurrent loads while the cache is cold share a single call to the
// underlying source. A TTL of zero or less disables caching but keeps the
// shared-call behaviour.
type Cached struct {
	src Source
	ttl time.Duration
	now func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	records  []table.Record
	loadedAt time.Time
	valid    bool
	gen      uint64
}

// NewCached wraps src with the given TTL.
func NewCached(src Source, ttl time.Duration) *Cached {
	return &Cached{src: src, ttl: ttl, now: time.Now}
}

// Load returns the cached dataset if it is fresh, or loads it from the
// underlying source.
func (c *Cached) Load(ctx context.Context) ([]table.Record, error) {
	c.mu.Lock()
	if c.fresh() {
		records := c.records
		c.mu.Unlock()
		return records, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do("load", func() (any, error) {
		c.mu.Lock()
		if c.fresh() {
			records := c.records
			c.mu.Unlock()
			return records, nil
		}
		c.mu.Unlock()

		records, err := c.src.Load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// A concurrent Invalidate means this result may already be stale.
		if c.ttl > 0 && gen == c.gen {
			c.records = records
			c.loadedAt = c.now()
			c.valid = true
		}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]table.Record), nil
}

// fresh reports whether the cached records can be served. Callers hold mu.
func (c *Cached) fresh() bool {
	return c.valid && c.ttl > 0 && c.now().Sub(c.loadedAt) < c.ttl
}

// Invalidate drops the cached dataset so the next Load fetches again.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.records = nil
	c.gen++
	c.mu.Unlock()
	c.group.Forget("load")
}
