package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentrang/enroll/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestAuthnMiddleware(t *testing.T) {
	var gotUserID, gotRole string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFromContext(r.Context())
		gotRole = httpx.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := httpx.AuthnMiddleware(testSecret)(inner)

	t.Run("valid token populates context", func(t *testing.T) {
		raw, err := httpx.SignSessionToken(testSecret, "user-9", "LEADER", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-9", gotUserID)
		require.Equal(t, "LEADER", gotRole)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("forged token", func(t *testing.T) {
		raw, err := httpx.SignSessionToken([]byte("attacker-secret"), "user-9", "ADMIN", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAnyRole(t *testing.T) {
	serve := func(role string, allowed ...string) *httptest.ResponseRecorder {
		chain := httpx.Chain(okHandler(),
			httpx.AuthnMiddleware(testSecret),
			httpx.RequireAnyRole(allowed...),
		)

		raw, err := httpx.SignSessionToken(testSecret, "user-1", role, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allowed role passes", func(t *testing.T) {
		rec := serve("ADMIN", "ADMIN")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of multiple roles passes", func(t *testing.T) {
		rec := serve("LEADER", "PARENT", "LEADER", "ADMIN")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disallowed role forbidden", func(t *testing.T) {
		rec := serve("PARENT", "ADMIN")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})
}
