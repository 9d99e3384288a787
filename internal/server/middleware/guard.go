package middleware

import (
	"net/http"

	"github.com/opencampus/campus/internal/policy"
)

// GuardView returns middleware that admits the request only when the
// authenticated role is permitted to see the given view. It must be chained
// after Auth, which stores the role in the request context.
//
// Returns 401 Unauthorized when no role is found in context (Auth middleware
// not applied or authentication failed). Returns 403 Forbidden when the
// role's capabilities do not include the view. Policy is never evaluated
// before authentication settles, so an expired session can only ever produce
// a 401 here, not a spurious 403.
func GuardView(view policy.View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if !policy.For(role).CanView(view) {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"view not permitted for role"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOperator admits only the platform operator role. Convenience wrapper
// used by the school-administration routes.
func RequireOperator() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}
			if policy.ScopeFor(role) != policy.ScopeSystem {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"insufficient permissions"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
