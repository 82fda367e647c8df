package auth

import (
	"net/http"
	"strings"

	"github.com/medbill/medbill/internal/platform/httpx"
	"github.com/medbill/medbill/internal/shared"
)

var errMissingToken = shared.NewError(shared.ErrUnauthorized, "Access denied!")

// Middleware authenticates bearer tokens and stores the actor in the request context.
func Middleware(tokens *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				httpx.RespondError(w, errMissingToken)
				return
			}
			actor, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
		})
	}
}
