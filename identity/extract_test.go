package identity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-rails/verikit/core"
)

func TestClaimsExtractor(t *testing.T) {
	claims := core.Claims{
		"sub":   "user-1",
		"email": "u1@example.com",
		"name":  "User One",
		"roles": []any{"admin", "editor"},
		"iss":   "https://issuer.example.com",
	}

	res, err := ClaimsExtractor{}.BaseExtract(claims)
	require.NoError(t, err)
	require.Equal(t, "user-1", res.Subject)
	require.Equal(t, "u1@example.com", res.Email)
	require.Equal(t, "User One", res.Name)
	require.Equal(t, []string{"admin", "editor"}, res.Roles)
	require.Nil(t, res.Details)
}

func TestClaimsExtractorMissingSubject(t *testing.T) {
	_, err := ClaimsExtractor{}.BaseExtract(core.Claims{"email": "u1@example.com"})
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestClaimsExtractorStringRoles(t *testing.T) {
	res, err := ClaimsExtractor{}.BaseExtract(core.Claims{
		"sub":   "user-1",
		"roles": []string{"admin"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"admin"}, res.Roles)
}

type detailStomper struct{}

func (detailStomper) BaseExtract(core.Claims) (AuthResult, error) {
	return AuthResult{
		Subject: "user-1",
		Details: core.Claims{"planted": true},
	}, nil
}

func TestEnrichOverwritesDetails(t *testing.T) {
	claims := core.Claims{"sub": "user-1", "scope": "read write"}

	res, err := Enrich(detailStomper{}, claims)
	require.NoError(t, err)
	require.Equal(t, claims, res.Details)
	_, planted := res.Details["planted"]
	require.False(t, planted)
}

func TestEnrichPropagatesExtractorError(t *testing.T) {
	_, err := Enrich(ClaimsExtractor{}, core.Claims{})
	require.ErrorIs(t, err, core.ErrInvalidToken)
}
