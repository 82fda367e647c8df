package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/shared"
)

func TestScope(t *testing.T) {
	admin := shared.Actor{ID: 1, Role: shared.RoleAdmin}
	user := shared.Actor{ID: 7, Role: shared.RoleUser}

	p := Scope(admin, "b.user_id")
	require.True(t, p.Unrestricted())
	require.True(t, p.Matches(99))

	p = Scope(user, "b.user_id")
	require.Equal(t, "b.user_id = $?", p.Expr)
	require.Equal(t, int64(7), p.OwnerID)
	require.True(t, p.Matches(7))
	require.False(t, p.Matches(8))
}

func TestAuthorize(t *testing.T) {
	user := shared.Actor{ID: 7, Role: shared.RoleUser}
	require.NoError(t, Authorize(user, 7))
	require.ErrorIs(t, Authorize(user, 8), shared.ErrForbidden)
	require.NoError(t, Authorize(shared.Actor{ID: 1, Role: shared.RoleAdmin}, 8))
	require.ErrorIs(t, RequireActor(shared.Actor{}), shared.ErrUnauthorized)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(shared.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), shared.Actor{ID: 7, Role: shared.RoleUser}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), shared.Actor{ID: 1, Role: shared.RoleAdmin}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
