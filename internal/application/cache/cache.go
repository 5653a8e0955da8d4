// Package cache stores derived analytics keyed by (dataset version, kind).
//
// Entries never expire on their own: the engine calls Invalidate when it
// installs a new Dataset, and every lookup carries the version it was
// computed for. Concurrent misses on the same key run the computation once.
package cache

import (
	"fmt"
	"sync"

	"github.com/alejandrodnm/bbfs/internal/ports"
	"golang.org/x/sync/singleflight"
)

// Kind names one derived analytic.
type Kind string

const (
	KindBacktest  Kind = "backtest"
	KindSummary   Kind = "summary"
	KindBreakdown Kind = "breakdown"
	KindTune      Kind = "tune"
)

type key struct {
	version uint64
	kind    Kind
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[key]any
	gen     uint64 // bumped by Invalidate
	group   singleflight.Group
	metrics ports.Metrics
}

// New creates an empty cache. A nil metrics uses ports.NopMetrics.
func New(metrics ports.Metrics) *Cache {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Cache{entries: make(map[key]any), metrics: metrics}
}

// GetOrCompute returns the value stored for (version, kind), or runs fn,
// stores its result and returns it. Errors are returned and never stored.
// A result computed across an Invalidate is returned to its callers but not
// stored.
func GetOrCompute[T any](c *Cache, version uint64, kind Kind, fn func() (T, error)) (T, error) {
	k := key{version: version, kind: kind}

	c.mu.Lock()
	if v, ok := c.entries[k]; ok {
		c.mu.Unlock()
		c.metrics.CacheHit(string(kind))
		return v.(T), nil
	}
	gen := c.gen
	c.mu.Unlock()

	c.metrics.CacheMiss(string(kind))
	v, err, _ := c.group.Do(fmt.Sprintf("%d/%d/%s", gen, version, kind), func() (any, error) {
		// A previous flight may have stored the value after our lookup.
		c.mu.Lock()
		if v, ok := c.entries[k]; ok {
			c.mu.Unlock()
			return v, nil
		}
		c.mu.Unlock()

		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.entries[k] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Put stores v for (version, kind), replacing any previous value.
func Put[T any](c *Cache, version uint64, kind Kind, v T) {
	c.mu.Lock()
	c.entries[key{version: version, kind: kind}] = v
	c.mu.Unlock()
}

// Invalidate drops every entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	clear(c.entries)
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
