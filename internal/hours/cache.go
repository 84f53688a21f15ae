package hours

import (
	"sync"
	"time"

	"antiques-directory/internal/models"
)

// Cache is a thread-safe TTL cache for the per-place week of day records,
// saving a database round trip on every listing row. It is constructed and
// injected by the caller; the clock is injectable so expiry is testable
// without sleeping.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[int64]cacheEntry
}

type cacheEntry struct {
	week      []models.DayHours
	expiresAt time.Time
}

// NewCache creates a cache with the given TTL. A nil now function defaults
// to time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, m: make(map[int64]cacheEntry)}
}

// Get returns the cached week for a place, if present and not expired.
func (c *Cache) Get(placeID int64) ([]models.DayHours, bool) {
	c.mu.RLock()
	e, ok := c.m[placeID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.m, placeID)
		c.mu.Unlock()
		return nil, false
	}
	return e.week, true
}

// Set stores the week for a place.
func (c *Cache) Set(placeID int64, week []models.DayHours) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[placeID] = cacheEntry{week: week, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops the cached week for a place. Called after admin edits.
func (c *Cache) Invalidate(placeID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, placeID)
}

// Len returns the number of cached places, counting expired entries that
// have not been read since expiry.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
