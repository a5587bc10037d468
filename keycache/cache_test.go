package keycache

import (
	"sync"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"
)

func TestCacheEmptyUntilFirstSet(t *testing.T) {
	c := New()

	_, ok := c.Get()
	require.False(t, ok)

	_, ok = c.LastFetch()
	require.False(t, ok)
}

func TestCacheSetInstallsKeysAndTimestamp(t *testing.T) {
	c := New()
	set := jwk.NewSet()

	c.Set(set, 1234)

	got, ok := c.Get()
	require.True(t, ok)
	require.Same(t, set, got)

	at, ok := c.LastFetch()
	require.True(t, ok)
	require.Equal(t, int64(1234), at)
}

func TestCacheTimestampNeverMovesBackwards(t *testing.T) {
	c := New()
	c.Set(jwk.NewSet(), 100)
	c.Set(jwk.NewSet(), 50)

	at, ok := c.LastFetch()
	require.True(t, ok)
	require.Equal(t, int64(100), at)
}

func TestCacheZeroTimestampInitializes(t *testing.T) {
	c := New()
	c.Set(jwk.NewSet(), 0)

	at, ok := c.LastFetch()
	require.True(t, ok)
	require.Equal(t, int64(0), at)
}

func TestCacheConcurrentReadersAndWriters(t *testing.T) {
	c := New()
	c.Set(jwk.NewSet(), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int64) {
			defer wg.Done()
			for j := int64(0); j < 100; j++ {
				c.Set(jwk.NewSet(), n*100+j)
			}
		}(int64(i))
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if set, ok := c.Get(); ok && set == nil {
					t.Error("initialized cache returned nil key set")
				}
				c.LastFetch()
			}
		}()
	}
	wg.Wait()
}
