package store

import (
	"sync"
	"time"

	"github.com/jvcl/datachat/internal/chat/entity"
)

const (
	// DefaultTTL is used when NewDatasetCache receives a non-positive TTL.
	DefaultTTL = 5 * time.Minute
	// DefaultMaxEntries is used when NewDatasetCache receives a non-positive bound.
	DefaultMaxEntries = 8
)

// DatasetCache is a bounded folder→dataset cache with TTL expiry.
//
// It replaces implicit always-on memoization with an explicit object:
// entries expire after the TTL, the oldest entry is evicted when the
// bound is hit, and callers can invalidate a key to force a reload.
type DatasetCache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*cacheEntry
	now        func() time.Time
}

type cacheEntry struct {
	dataset  *entity.Dataset
	report   entity.LoadReport
	storedAt time.Time
}

// NewDatasetCache creates a cache with the given TTL and entry bound.
func NewDatasetCache(ttl time.Duration, maxEntries int) *DatasetCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}

	return &DatasetCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*cacheEntry),
		now:        time.Now,
	}
}

// Get returns the cached dataset and report for folder, if present and
// not expired. The cached value is returned as-is without re-scanning.
func (c *DatasetCache) Get(folder string) (*entity.Dataset, entity.LoadReport, bool) {
	c.mu.RLock()
	entry, ok := c.entries[folder]
	c.mu.RUnlock()

	if !ok {
		return nil, entity.LoadReport{}, false
	}

	if c.now().Sub(entry.storedAt) > c.ttl {
		c.Invalidate(folder)
		return nil, entity.LoadReport{}, false
	}

	return entry.dataset, entry.report, true
}

// Put stores the dataset and report for folder, evicting the oldest
// entry when the bound is exceeded.
func (c *DatasetCache) Put(folder string, dataset *entity.Dataset, report entity.LoadReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[folder] = &cacheEntry{
		dataset:  dataset,
		report:   report,
		storedAt: c.now(),
	}

	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.storedAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Invalidate removes the entry for folder, if any.
func (c *DatasetCache) Invalidate(folder string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, folder)
}

// Len returns the number of live entries, counting expired ones until
// they are read or evicted.
func (c *DatasetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
