package keyprovider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a read-through cache in front of another Provider. The
// serialized JWKS document is shared via Redis so that replicas verifying
// tokens from the same issuer do not each hit the remote endpoint.
type RedisCache struct {
	rdb      *redis.Client
	upstream Provider
	key      string
	ttl      time.Duration
}

// NewRedisCache wraps upstream with a Redis cache. An empty keyName
// defaults to "verikit:jwks"; ttl <= 0 defaults to 15 minutes.
func NewRedisCache(rdb *redis.Client, upstream Provider, keyName string, ttl time.Duration) *RedisCache {
	if keyName == "" {
		keyName = "verikit:jwks"
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisCache{rdb: rdb, upstream: upstream, key: keyName, ttl: ttl}
}

// FetchKeys returns the cached document when present and parseable.
// Cache misses, Redis outages and corrupt entries all fall through to the
// upstream provider; a successful upstream fetch repopulates the cache
// best effort.
func (c *RedisCache) FetchKeys(ctx context.Context) (jwk.Set, error) {
	if b, err := c.rdb.Get(ctx, c.key).Bytes(); err == nil {
		if set, perr := jwk.Parse(b); perr == nil && set.Len() > 0 {
			return set, nil
		}
	}

	set, err := c.upstream.FetchKeys(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(set); err == nil {
		_ = c.rdb.Set(ctx, c.key, b, c.ttl).Err()
	}
	return set, nil
}
