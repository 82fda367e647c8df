package rbac

import (
	"net/http"

	"github.com/medbill/medbill/internal/platform/httpx"
	"github.com/medbill/medbill/internal/shared"
)

// RequireRole ensures the authenticated actor holds one of roles.
func RequireRole(roles ...shared.Role) func(http.Handler) http.Handler {
	allowed := make(map[shared.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.NewError(shared.ErrUnauthorized, "Access denied!"))
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				httpx.RespondError(w, shared.NewError(shared.ErrForbidden, "Access denied!"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
