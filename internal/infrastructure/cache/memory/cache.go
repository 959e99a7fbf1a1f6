package memory

import (
	"sync"
	"time"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

// DatasetCache holds one snapshot of the whole sheet with a TTL. Any write
// path invalidates it so the next read refetches.
type DatasetCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	rows    []domain.Record
	expires time.Time
}

func NewDatasetCache(ttl time.Duration, now func() time.Time) *DatasetCache {
	if now == nil {
		now = time.Now
	}
	return &DatasetCache{ttl: ttl, now: now}
}

func (c *DatasetCache) Get() ([]domain.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rows == nil || c.now().After(c.expires) {
		return nil, false
	}
	return c.rows, true
}

func (c *DatasetCache) Set(rows []domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = rows
	c.expires = c.now().Add(c.ttl)
}

func (c *DatasetCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = nil
}
