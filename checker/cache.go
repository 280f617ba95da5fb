package checker

import (
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/lukemcguire/deadlinks/result"
)

// Cache is the run-scoped set of links confirmed alive. Entries are never
// removed. It is safe for concurrent use.
//
// A bloom filter answers most misses without touching the exact set; the
// exact set is authoritative, so Contains never reports a false positive.
type Cache struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	links  map[result.Link]struct{}
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		// Sized for 10,000 links at 0.1% false positives; larger runs only
		// raise the pre-check miss rate.
		filter: bloom.NewWithEstimates(10000, 0.001),
		links:  make(map[result.Link]struct{}),
	}
}

// Contains reports whether link was inserted earlier in the run.
func (c *Cache) Contains(link result.Link) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.filter.TestString(link.String()) {
		return false
	}
	_, ok := c.links[link]
	return ok
}

// Insert adds link. Inserting a link twice has no effect.
func (c *Cache) Insert(link result.Link) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.links[link]; ok {
		return
	}
	c.links[link] = struct{}{}
	c.filter.AddString(link.String())
}

// Len returns the number of cached links.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.links)
}
