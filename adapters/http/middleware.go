// Package verihttp exposes the token verifier as net/http middleware.
package verihttp

import (
	"context"
	"net/http"
	"strings"

	"github.com/open-rails/verikit/core"
	"github.com/open-rails/verikit/identity"
)

// Verifier is the subset of verify.TokenVerifier the middleware needs.
type Verifier interface {
	Decode(ctx context.Context, token string) (core.Claims, error)
}

type ctxKey struct{}

// AuthRequired wraps next, rejecting requests without a valid bearer
// token and attaching the enriched AuthResult to the request context.
// A nil extractor defaults to identity.ClaimsExtractor.
func AuthRequired(v Verifier, ex identity.Extractor, next http.Handler) http.Handler {
	if ex == nil {
		ex = identity.ClaimsExtractor{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims, err := v.Decode(r.Context(), token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		res, err := identity.Enrich(ex, claims)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), res)))
	})
}

// WithAuth attaches an AuthResult to ctx.
func WithAuth(ctx context.Context, res identity.AuthResult) context.Context {
	return context.WithValue(ctx, ctxKey{}, res)
}

// AuthFromContext reads the AuthResult stored by AuthRequired.
func AuthFromContext(ctx context.Context) (identity.AuthResult, bool) {
	res, ok := ctx.Value(ctxKey{}).(identity.AuthResult)
	return res, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
