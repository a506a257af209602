package auth

import (
	"net/http"

	"github.com/branchdesk/branchdesk/internal/shared"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// RequireIdentity sends visitors without a stored identity to the login
// page. Presence of the identity is the only check made.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.IdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectAuthenticated sends visitors that already hold an identity to the
// dashboard.
func RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.IdentityFromContext(r.Context()); ok {
			http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Landing routes "/" by session state.
func Landing(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
