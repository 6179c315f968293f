package middleware

import (
	"net/http"

	. "noticeboard/pkg/common"
	"noticeboard/pkg/role"
	"noticeboard/pkg/sessions"
)

// RequireRole wraps a handler with an explicit allow list. Every
// protected route states its full set of accepted roles, there is no
// implicit admin-beats-everything rule.
func RequireRole(next http.HandlerFunc, accepted ...role.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := sessions.GetAuthActor(r.Context())
		if err != nil {
			WriteMsg(w, "not authorized", http.StatusUnauthorized)
			return
		}

		if !role.Allowed(a.Role, accepted...) {
			WriteMsg(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r)
	}
}

// RequireAuth only needs a session, any role will do.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return RequireRole(next, role.SuperAdmin, role.SubAdmin, role.User)
}
