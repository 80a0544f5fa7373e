package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetyid/safetyid-console/internal/hierarchy"
)

func testGuard(t *testing.T) (Guard, *TokenIssuer) {
	t.Helper()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	return Guard{Tokens: issuer}, issuer
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorRequiresBearerToken(t *testing.T) {
	guard, issuer := testGuard(t)
	handler := guard.Authenticator(okHandler())

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		token, err := issuer.Issue(Principal{UserID: "u-1", Role: hierarchy.RoleUser})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthenticatorStoresPrincipal(t *testing.T) {
	guard, issuer := testGuard(t)
	var got Principal
	handler := guard.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		got = principal
	}))

	token, err := issuer.Issue(Principal{UserID: "u-1", Email: "admin@safetyid.local", Role: hierarchy.RoleEditionAdmin})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, hierarchy.RoleEditionAdmin, got.Role)
}

func TestRequireRoles(t *testing.T) {
	guard, _ := testGuard(t)
	handler := guard.RequireRoles(hierarchy.RoleEditionAdmin)(okHandler())

	serveAs := func(role hierarchy.Role) int {
		req := httptest.NewRequest(http.MethodPost, "/editions", nil)
		req = req.WithContext(ContextWithPrincipal(req.Context(), Principal{UserID: "u-1", Role: role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serveAs(hierarchy.RoleEditionAdmin))
	assert.Equal(t, http.StatusOK, serveAs(hierarchy.RoleSuperAdmin), "super admin passes every check")
	assert.Equal(t, http.StatusForbidden, serveAs(hierarchy.RoleUser))

	t.Run("no principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/editions", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
