package keyprovider

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticPEMProvider(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	p, err := NewStaticPEM(pemBytes)
	require.NoError(t, err)

	set, err := p.FetchKeys(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	// Repeated fetches return the same pinned set.
	again, err := p.FetchKeys(context.Background())
	require.NoError(t, err)
	require.Same(t, set, again)
}

func TestStaticPEMProviderEmpty(t *testing.T) {
	_, err := NewStaticPEM(nil)
	require.Error(t, err)
}

func TestStaticPEMProviderGarbage(t *testing.T) {
	_, err := NewStaticPEM([]byte("not a pem"))
	require.Error(t, err)
}
