// Package testing provides a mock authorization server for exercising
// the verifier: it serves a JWKS document over httptest and signs tokens
// that validate against it, including after key rotation.
//
// Example usage:
//
//	issuer := testing.NewTestIssuer()
//	defer issuer.Close()
//
//	provider := keyprovider.NewJWKS(issuer.JWKSURL(), nil)
//	v := verify.New(core.VerifyConfig{Issuer: issuer.URL()}, provider)
//
//	token := issuer.CreateToken("user-123", "test@example.com")
package testing

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// TestIssuer runs an HTTP server serving JWKS at /.well-known/jwks.json
// and signs JWTs with its current private key. RotateKey swaps in a fresh
// key pair so tests can simulate a cache holding a stale key.
type TestIssuer struct {
	mu       sync.Mutex
	server   *httptest.Server
	key      *rsa.PrivateKey
	kid      string
	audience string
	requests int
}

// NewTestIssuer creates a test issuer with a generated RSA key pair.
// Call Close when done to shut down the test server.
func NewTestIssuer() *TestIssuer {
	return NewTestIssuerWithAudience("test-app")
}

// NewTestIssuerWithAudience creates a test issuer with a specific audience claim.
func NewTestIssuerWithAudience(audience string) *TestIssuer {
	ti := &TestIssuer{audience: audience}
	ti.rotateLocked()

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/jwks.json", ti.handleJWKS)
	ti.server = httptest.NewServer(mux)
	return ti
}

// URL returns the base URL of the test issuer server. Use this as the
// issuer in your verifier configuration.
func (ti *TestIssuer) URL() string {
	return ti.server.URL
}

// JWKSURL returns the full JWKS endpoint URL.
func (ti *TestIssuer) JWKSURL() string {
	return ti.server.URL + "/.well-known/jwks.json"
}

// Audience returns the audience configured for this test issuer.
func (ti *TestIssuer) Audience() string {
	return ti.audience
}

// Close shuts down the test server.
func (ti *TestIssuer) Close() {
	if ti.server != nil {
		ti.server.Close()
	}
}

// RotateKey replaces the signing key pair. Previously issued tokens stop
// validating against the served JWKS.
func (ti *TestIssuer) RotateKey() {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.rotateLocked()
}

func (ti *TestIssuer) rotateLocked() {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic("testing: generate rsa key: " + err.Error())
	}
	ti.key = key
	ti.kid = "test-" + uuid.NewString()[:8]
}

// KeySet returns the current public keys as a jwk.Set, for wiring a
// static provider without going through HTTP.
func (ti *TestIssuer) KeySet() jwk.Set {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return ti.keySetLocked()
}

// FetchCount reports how many JWKS requests the server has answered.
func (ti *TestIssuer) FetchCount() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return ti.requests
}

func (ti *TestIssuer) keySetLocked() jwk.Set {
	pub, err := jwk.FromRaw(ti.key.Public())
	if err != nil {
		panic("testing: jwk from rsa public key: " + err.Error())
	}
	_ = pub.Set(jwk.KeyIDKey, ti.kid)
	_ = pub.Set(jwk.AlgorithmKey, jwa.RS256)
	_ = pub.Set(jwk.KeyUsageKey, "sig")

	set := jwk.NewSet()
	_ = set.AddKey(pub)
	return set
}

// handleJWKS serves the JWKS document containing the current public key.
func (ti *TestIssuer) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	ti.mu.Lock()
	set := ti.keySetLocked()
	ti.requests++
	ti.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(set)
}

// CreateToken creates a signed JWT for testing, valid for one hour.
// The token validates against the JWKS served by this issuer.
func (ti *TestIssuer) CreateToken(userID, email string) string {
	return ti.CreateTokenWithClaims(userID, email, nil)
}

// CreateTokenWithClaims creates a signed JWT with additional custom claims
// merged over the standard ones (sub, email, iss, aud, exp, iat).
func (ti *TestIssuer) CreateTokenWithClaims(userID, email string, extraClaims map[string]any) string {
	ti.mu.Lock()
	key, kid := ti.key, ti.kid
	ti.mu.Unlock()

	now := time.Now()
	claims := jwtlib.MapClaims{
		"sub":   userID,
		"email": email,
		"iss":   ti.URL(),
		"aud":   ti.audience,
		"exp":   now.Add(time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	for k, v := range extraClaims {
		claims[k] = v
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		panic("testing: sign token: " + err.Error())
	}
	return signed
}

// CreateTokenWithRoles creates a signed JWT with role claims.
func (ti *TestIssuer) CreateTokenWithRoles(userID, email string, roles []string) string {
	return ti.CreateTokenWithClaims(userID, email, map[string]any{
		"roles": roles,
	})
}

// CreateTokenWithExpiry creates a signed JWT with a custom expiry time.
func (ti *TestIssuer) CreateTokenWithExpiry(userID, email string, expiry time.Time) string {
	return ti.CreateTokenWithClaims(userID, email, map[string]any{
		"exp": expiry.Unix(),
	})
}

// CreateExpiredToken creates a token that has already expired. Useful for
// testing token expiration handling.
func (ti *TestIssuer) CreateExpiredToken(userID, email string) string {
	return ti.CreateTokenWithExpiry(userID, email, time.Now().Add(-time.Hour))
}
