package verihttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-rails/verikit/core"
)

type verifierFunc func(ctx context.Context, token string) (core.Claims, error)

func (f verifierFunc) Decode(ctx context.Context, token string) (core.Claims, error) {
	return f(ctx, token)
}

func stubVerifier() Verifier {
	return verifierFunc(func(_ context.Context, token string) (core.Claims, error) {
		if token != "good-token" {
			return nil, core.ErrInvalidToken
		}
		return core.Claims{"sub": "user-1"}, nil
	})
}

func TestAuthRequired(t *testing.T) {
	handler := AuthRequired(stubVerifier(), nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, ok := AuthFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(auth.Subject))
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad-token", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good-token", wantStatus: http.StatusOK, wantBody: "user-1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			handler.ServeHTTP(w, req)

			require.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				require.Equal(t, tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestAuthFromContextEmpty(t *testing.T) {
	_, ok := AuthFromContext(context.Background())
	require.False(t, ok)
}
