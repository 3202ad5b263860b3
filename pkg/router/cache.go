package router

import (
	"sync"
	"time"

	"github.com/primis-labs/primis-backend/pkg/metrics"
)

// Clock is injected so tests can move time without sleeping.
type Clock func() time.Time

// DefaultTTL is how long one cached snapshot stays valid.
const DefaultTTL = 60 * time.Second

// Cache slot names. Snapshots are keyed by logical name, never by request
// parameters: filtering and scoring always run over the full snapshot.
const (
	slotGPUOfferings   = "gpu-offerings"
	slotModelOfferings = "model-offerings"
	slotProviderHealth = "provider-health"
)

type cacheEntry struct {
	data      any
	timestamp time.Time
}

// ttlCache is a minimal last-writer-wins TTL cache. Concurrent refreshes of
// the same expired slot are not coalesced: fetches are idempotent and
// side-effect free, so two racing callers both refreshing is tolerated.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]cacheEntry
}

func newTTLCache(ttl time.Duration, now Clock) *ttlCache {
	if now == nil {
		now = time.Now
	}
	return &ttlCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *ttlCache) get(slot string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[slot]
	if !ok || c.now().Sub(entry.timestamp) >= c.ttl {
		metrics.CacheRequests.WithLabelValues(slot, "miss").Inc()
		return nil, false
	}
	metrics.CacheRequests.WithLabelValues(slot, "hit").Inc()
	return entry.data, true
}

func (c *ttlCache) set(slot string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slot] = cacheEntry{data: data, timestamp: c.now()}
}

func (c *ttlCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
