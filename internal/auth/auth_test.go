package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "gymtag-tests"}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["iss"]; !ok {
		claims["iss"] = testConfig.Issuer
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)
	return token
}

func TestParseExtractsSubjectAndScopes(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":    "admin-1",
		"scopes": []string{ScopeVenuesWrite, ScopeCatalogRead},
	})

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims.Subject)
	require.True(t, claims.HasScope(ScopeVenuesWrite))
	require.True(t, claims.HasScope(ScopeCatalogRead))
	require.False(t, claims.HasScope(ScopeCatalogWrite))
}

func TestParseAcceptsSpaceDelimitedScopes(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":    "admin-1",
		"scopes": "venues:read venues:write",
	})

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.True(t, claims.HasScope(ScopeVenuesRead))
	require.True(t, claims.HasScope(ScopeVenuesWrite))
}

func TestParseRejectsBadTokens(t *testing.T) {
	_, err := Parse("", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = Parse("not-a-token", testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Wrong issuer.
	token := signToken(t, jwt.MapClaims{"sub": "admin-1", "iss": "someone-else"})
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Missing subject.
	token = signToken(t, jwt.MapClaims{"scopes": "venues:read"})
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Expired.
	token = signToken(t, jwt.MapClaims{"sub": "admin-1", "exp": time.Now().Add(-time.Minute).Unix()})
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareSkipsPublicPaths(t *testing.T) {
	middleware := NewMiddleware(testConfig, nil)

	var sawClaims bool
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawClaims = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/healthz", "/metrics", "/v1/public/access/check"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.False(t, sawClaims, path)
	}
}

func TestMiddlewareEnforcesAdminPaths(t *testing.T) {
	middleware := NewMiddleware(testConfig, nil)

	var claims *Claims
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/venues", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := signToken(t, jwt.MapClaims{"sub": "admin-1", "scopes": "venues:read"})
	req := httptest.NewRequest(http.MethodGet, "/v1/venues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	require.Equal(t, "admin-1", claims.Subject)
}
