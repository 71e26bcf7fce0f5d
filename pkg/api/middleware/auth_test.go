package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dsomm/pkg/api/auth"
)

func createTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret: "test-secret-key-that-is-at-least-32-characters-long",
		Issuer: "test",
	})
	require.NoError(t, err)
	return svc
}

func TestGetClaimsFromContext(t *testing.T) {
	t.Run("no claims in context", func(t *testing.T) {
		assert.Nil(t, GetClaimsFromContext(context.Background()))
	})

	t.Run("claims present in context", func(t *testing.T) {
		expected := &auth.Claims{Scopes: []auth.Scope{auth.ScopeWrite}}
		expected.Subject = "ci"
		ctx := context.WithValue(context.Background(), claimsContextKey, expected)

		claims := GetClaimsFromContext(ctx)
		require.NotNil(t, claims)
		assert.Equal(t, "ci", claims.Subject)
	})

	t.Run("wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), claimsContextKey, "not-claims")
		assert.Nil(t, GetClaimsFromContext(ctx))
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer token", "token", true},
		{"empty", "", "", false},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", false},
		{"no token", "Bearer", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := extractBearerToken(req)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	svc := createTestJWTService(t)

	var seen *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTAuth(svc, auth.ScopeWrite)(next)

	serve := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/progress/x/y", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := serve("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := serve("garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("read scope only", func(t *testing.T) {
		tok, err := svc.GenerateToken("viewer", auth.ScopeRead)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, serve(tok.AccessToken).Code)
	})

	t.Run("write scope", func(t *testing.T) {
		tok, err := svc.GenerateToken("editor", auth.ScopeWrite)
		require.NoError(t, err)
		rec := serve(tok.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "editor", seen.Subject)
	})

	t.Run("nil service passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		JWTAuth(nil, auth.ScopeWrite)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
