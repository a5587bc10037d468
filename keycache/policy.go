package keycache

import "time"

// Policy answers two questions about the cache it watches: is the cached
// key set old enough to distrust outright, and has enough time passed
// since the last fetch to permit another one. Separating the two lets a
// caller skip a doomed decode against a key known to be stale while the
// refresh window still protects the remote key server from bursts of
// invalid tokens.
type Policy struct {
	cache       *Cache
	ttl         int64 // millis; <=0 disables expiry checking
	minInterval int64 // millis; <=0 disables rate limiting
}

// NewPolicy builds a policy over the given cache. A zero ttl disables
// proactive expiry; a zero minInterval disables refresh rate limiting.
func NewPolicy(cache *Cache, ttl, minInterval time.Duration) *Policy {
	return &Policy{
		cache:       cache,
		ttl:         ttl.Milliseconds(),
		minInterval: minInterval.Milliseconds(),
	}
}

// IsExpired reports whether the cached key set is older than the TTL at
// the given unix-milli time. An uninitialized cache is never expired:
// there is no key to distrust yet, and the decode path handles emptiness
// by refreshing.
func (p *Policy) IsExpired(now int64) bool {
	if p.ttl <= 0 {
		return false
	}
	fetchedAt, ok := p.cache.LastFetch()
	if !ok {
		return false
	}
	return now-fetchedAt > p.ttl
}

// IsRefreshAllowed reports whether a remote fetch may be attempted at the
// given unix-milli time. The window is measured from the last successful
// fetch only: a failed fetch neither resets the window nor lets the next
// caller bypass it.
func (p *Policy) IsRefreshAllowed(now int64) bool {
	if p.minInterval <= 0 {
		return true
	}
	fetchedAt, ok := p.cache.LastFetch()
	if !ok {
		return true
	}
	return now-fetchedAt > p.minInterval
}
