package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireOrg rejects requests that reach authenticated routes without a
// resolved organization. Must be chained after Auth.
func RequireOrg() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, ok := OrgIDFromContext(r.Context())
			if !ok || orgID == uuid.Nil {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid organization required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
