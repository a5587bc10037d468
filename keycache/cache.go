// Package keycache holds the currently trusted JWT verification key set
// and decides when it is stale and when a remote refresh is permitted.
package keycache

import (
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// Cache holds the current verification key set and the unix-milli
// timestamp of the last successful refresh. The set is replaced wholesale,
// never mutated in place; a reader can never observe a half-installed set
// or a fetch timestamp torn from the set it belongs to.
type Cache struct {
	mu          sync.RWMutex
	keys        jwk.Set
	fetchedAt   int64
	initialized bool
}

// New returns an empty cache. It stays empty until the first successful
// refresh installs a key set via Set.
func New() *Cache { return &Cache{} }

// Get returns the current key set, or false before any successful refresh.
func (c *Cache) Get() (jwk.Set, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized {
		return nil, false
	}
	return c.keys, true
}

// Set atomically replaces the key set and records the fetch time.
// The fetch timestamp never moves backwards, even if concurrent refreshes
// land out of order.
func (c *Cache) Set(keys jwk.Set, atMillis int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = keys
	if !c.initialized || atMillis > c.fetchedAt {
		c.fetchedAt = atMillis
	}
	c.initialized = true
}

// LastFetch returns the unix-milli timestamp of the last successful
// refresh and whether one has ever occurred.
func (c *Cache) LastFetch() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt, c.initialized
}
