// Package verify decodes bearer tokens against a cached key set,
// refreshing the set from a remote provider when decoding fails and
// retrying exactly once.
package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/open-rails/verikit/core"
)

// PayloadDecoder validates a token's signature against the given key set
// and returns its claims. Implementations do the cryptographic work; the
// TokenVerifier decides which key set to trust and when to replace it.
type PayloadDecoder interface {
	DecodePayload(ctx context.Context, token string, keys jwk.Set) (core.Claims, error)
}

// JWXDecoder verifies tokens with lestrrat-go/jwx, including registered
// claim validation (exp/nbf, issuer, audience) when configured.
type JWXDecoder struct {
	issuer   string
	audience string
	skew     time.Duration
}

// NewJWXDecoder builds the default decoder from the shared config.
func NewJWXDecoder(cfg core.VerifyConfig) *JWXDecoder {
	return &JWXDecoder{issuer: cfg.Issuer, audience: cfg.Audience, skew: cfg.Skew}
}

// DecodePayload parses and validates the token, returning its full claims
// map. All failures wrap core.ErrInvalidToken.
func (d *JWXDecoder) DecodePayload(ctx context.Context, token string, keys jwk.Set) (core.Claims, error) {
	opts := []jwt.ParseOption{
		jwt.WithKeySet(keys, jws.WithInferAlgorithmFromKey(true)),
		jwt.WithValidate(true),
		jwt.WithContext(ctx),
	}
	if d.issuer != "" {
		opts = append(opts, jwt.WithIssuer(d.issuer))
	}
	if d.audience != "" {
		opts = append(opts, jwt.WithAudience(d.audience))
	}
	if d.skew > 0 {
		opts = append(opts, jwt.WithAcceptableSkew(d.skew))
	}

	parsed, err := jwt.ParseString(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}
	claims, err := parsed.AsMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}
	return core.Claims(claims), nil
}
