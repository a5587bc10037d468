// Package keyprovider fetches JWT verification key sets from external
// sources: a remote JWKS endpoint, a pinned PEM key for degraded
// operation, or a Redis read-through cache shared between replicas.
package keyprovider

import (
	"context"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// Provider fetches the current verification key set from an external
// source. Implementations bound the fetch with their own timeout; callers
// treat any error as "no key available this attempt".
type Provider interface {
	FetchKeys(ctx context.Context) (jwk.Set, error)
}

// Func adapts a plain function to the Provider interface.
type Func func(ctx context.Context) (jwk.Set, error)

// FetchKeys calls f.
func (f Func) FetchKeys(ctx context.Context) (jwk.Set, error) { return f(ctx) }
