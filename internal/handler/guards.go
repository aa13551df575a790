package handler

import (
	"net/http"

	"github.com/forkline/storefront/internal/domain/user"
)

// RequireUser rejects requests without an authenticated session. The
// original decorator-style gating becomes explicit middleware.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := h.sess(r)
		if sess == nil || !sess.State().Authenticated() {
			writeError(w, r, http.StatusUnauthorized, "please login first")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects authenticated sessions that lack the admin role.
// It must run after RequireUser.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.sess(r).State().Role != user.RoleAdmin {
			writeError(w, r, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
