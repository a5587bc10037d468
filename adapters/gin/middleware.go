// Package verigin exposes the token verifier as gin middleware.
package verigin

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/open-rails/verikit/core"
	"github.com/open-rails/verikit/identity"
)

// Verifier is the subset of verify.TokenVerifier the middleware needs.
type Verifier interface {
	Decode(ctx context.Context, token string) (core.Claims, error)
}

const authKey = "verikit.auth"

// AuthRequired rejects requests without a valid bearer token and stores
// the enriched AuthResult on the gin context. A nil extractor defaults to
// identity.ClaimsExtractor.
func AuthRequired(v Verifier, ex identity.Extractor) gin.HandlerFunc {
	if ex == nil {
		ex = identity.ClaimsExtractor{}
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := v.Decode(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		res, err := identity.Enrich(ex, claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(authKey, res)
		c.Next()
	}
}

// CurrentAuth returns the AuthResult stored by AuthRequired.
func CurrentAuth(c *gin.Context) (identity.AuthResult, bool) {
	v, ok := c.Get(authKey)
	if !ok {
		return identity.AuthResult{}, false
	}
	res, ok := v.(identity.AuthResult)
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
