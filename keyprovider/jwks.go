package keyprovider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// Responses larger than this are rejected rather than buffered.
const maxJWKSBytes = 1 << 20

// JWKSProvider fetches a key set from a remote JWKS endpoint.
type JWKSProvider struct {
	url    string
	client *http.Client
}

// NewJWKS builds a provider for the given JWKS URL. If client is nil, a
// default client with a 10 second timeout is used.
func NewJWKS(url string, client *http.Client) *JWKSProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &JWKSProvider{url: url, client: client}
}

// FetchKeys performs a GET against the JWKS endpoint and parses the body.
// An empty key document is an error: installing it would reject every
// token until the next permitted refresh.
func (p *JWKSProvider) FetchKeys(ctx context.Context) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("keyprovider: jwks endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, err
	}
	set, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("keyprovider: parse jwks: %w", err)
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("keyprovider: jwks endpoint returned no keys")
	}
	return set, nil
}
