// Package identity turns decoded token claims into an authentication
// result consumable by the hosting service.
package identity

import (
	"fmt"

	"github.com/open-rails/verikit/core"
)

// AuthResult is the authentication context handed to the hosting service.
// Details always carries the full raw claims of the decoded token.
type AuthResult struct {
	Subject string      `json:"subject"`
	Email   string      `json:"email,omitempty"`
	Name    string      `json:"name,omitempty"`
	Roles   []string    `json:"roles,omitempty"`
	Details core.Claims `json:"details,omitempty"`
}

// Extractor supplies the identity fields of an AuthResult from claims.
type Extractor interface {
	BaseExtract(claims core.Claims) (AuthResult, error)
}

// Enrich runs the extractor and attaches the raw claims as Details,
// overwriting whatever the extractor put there.
func Enrich(ex Extractor, claims core.Claims) (AuthResult, error) {
	res, err := ex.BaseExtract(claims)
	if err != nil {
		return AuthResult{}, err
	}
	res.Details = claims
	return res, nil
}

// ClaimsExtractor is the default Extractor. It maps the common OIDC-style
// claims: sub (required), email, name, roles.
type ClaimsExtractor struct{}

// BaseExtract builds an AuthResult from standard claims. A token without
// a subject is rejected.
func (ClaimsExtractor) BaseExtract(claims core.Claims) (AuthResult, error) {
	sub, ok := claims.String("sub")
	if !ok {
		return AuthResult{}, fmt.Errorf("%w: missing sub claim", core.ErrInvalidToken)
	}
	res := AuthResult{Subject: sub}
	if v, ok := claims.String("email"); ok {
		res.Email = v
	}
	if v, ok := claims.String("name"); ok {
		res.Name = v
	}
	res.Roles = stringSlice(claims["roles"])
	return res, nil
}

// stringSlice tolerates both []string and the []any produced by JSON
// decoding.
func stringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
