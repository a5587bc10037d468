package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/open-rails/verikit/core"
)

// StandardDecoder verifies tokens with golang-jwt, resolving the signing
// key by kid against the provided key set. An alternative to JWXDecoder
// for services that already standardize on golang-jwt claim types.
type StandardDecoder struct {
	issuer   string
	audience string
	skew     time.Duration
	methods  []string
}

// NewStandardDecoder builds the decoder from the shared config. When no
// algorithms are configured, the common asymmetric ones are accepted.
func NewStandardDecoder(cfg core.VerifyConfig) *StandardDecoder {
	methods := cfg.Algorithms
	if len(methods) == 0 {
		methods = []string{"RS256", "ES256", "EdDSA"}
	}
	return &StandardDecoder{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		skew:     cfg.Skew,
		methods:  methods,
	}
}

// DecodePayload parses and validates the token, returning its full claims
// map. All failures wrap core.ErrInvalidToken.
func (d *StandardDecoder) DecodePayload(_ context.Context, token string, keys jwk.Set) (core.Claims, error) {
	opts := []jwtlib.ParserOption{jwtlib.WithValidMethods(d.methods)}
	if d.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(d.issuer))
	}
	if d.audience != "" {
		opts = append(opts, jwtlib.WithAudience(d.audience))
	}
	if d.skew > 0 {
		opts = append(opts, jwtlib.WithLeeway(d.skew))
	}

	claims := jwtlib.MapClaims{}
	parsed, err := jwtlib.NewParser(opts...).ParseWithClaims(token, claims, keyfunc(keys))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, core.ErrInvalidToken
	}
	return core.Claims(claims), nil
}

// keyfunc resolves the token's kid against the key set. A set holding a
// single anonymous key is accepted without a kid header.
func keyfunc(keys jwk.Set) jwtlib.Keyfunc {
	return func(t *jwtlib.Token) (any, error) {
		var key jwk.Key
		if kid, _ := t.Header["kid"].(string); kid != "" {
			k, ok := keys.LookupKeyID(kid)
			if !ok {
				return nil, errors.New("verify: unknown kid")
			}
			key = k
		} else if keys.Len() == 1 {
			key, _ = keys.Key(0)
		} else {
			return nil, errors.New("verify: missing kid")
		}

		var raw any
		if err := key.Raw(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
}
