package connections

import (
	"fmt"
	"sync"
	"sync/atomic"

	"orthoroute/core"
	"orthoroute/geometry"
)

// routeKey identifies one Route call. Synthesis is deterministic in its inputs, so
// equal keys always produce equal routes.
type routeKey struct {
	a, dirA geometry.Point
	b, dirB geometry.Point
}

// RouteCache stores synthesized routes for reuse. It is safe for concurrent use.
type RouteCache struct {
	mu        sync.RWMutex
	routes    map[routeKey]core.Route
	maxSize   int
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewRouteCache creates a cache holding at most maxSize routes.
func NewRouteCache(maxSize int) *RouteCache {
	return &RouteCache{
		routes:  make(map[routeKey]core.Route),
		maxSize: maxSize,
	}
}

// get returns a copy of the cached route for key.
func (c *RouteCache) get(key routeKey) (core.Route, bool) {
	c.mu.RLock()
	route, found := c.routes[key]
	c.mu.RUnlock()

	if !found {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return route.Clone(), true
}

// put stores a copy of route. When the cache is full an arbitrary entry is evicted.
func (c *RouteCache) put(key routeKey, route core.Route) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.routes[key]; !ok && c.maxSize > 0 && len(c.routes) >= c.maxSize {
		for k := range c.routes {
			delete(c.routes, k)
			c.evictions.Add(1)
			break
		}
	}
	c.routes[key] = route.Clone()
}

// Clear removes every entry and resets the counters.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.routes = make(map[routeKey]core.Route)
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns the cache counters and the number of stored routes.
func (c *RouteCache) Stats() (hits, misses, evictions, size int) {
	c.mu.RLock()
	size = len(c.routes)
	c.mu.RUnlock()

	return int(c.hits.Load()), int(c.misses.Load()), int(c.evictions.Load()), size
}

func (c *RouteCache) String() string {
	hits, misses, evictions, size := c.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return fmt.Sprintf("RouteCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, c.maxSize, hits, misses, hitRate, evictions)
}
