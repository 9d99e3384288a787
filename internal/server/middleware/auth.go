package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/opencampus/campus/internal/auth"
	"github.com/opencampus/campus/internal/domain"
)

// TokenRevocations reports whether a token ID was revoked by logout.
// *auth.Service satisfies this interface.
type TokenRevocations interface {
	IsRevoked(ctx context.Context, jti string) bool
}

// Auth authenticates the request from its Bearer token and stores the
// session's school, user, role, and claims in the request context. Any
// invalid, expired, or revoked credential yields a single 401 here — the
// transport boundary — so no individual view ever sees a stale session.
func Auth(jwtSecret string, revocations TokenRevocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				unauthorized(w)
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, tok)
			if err != nil {
				unauthorized(w)
				return
			}

			if revocations != nil && revocations.IsRevoked(r.Context(), claims.ID) {
				unauthorized(w)
				return
			}

			schoolID, err := claims.SchoolUUID()
			if err != nil {
				unauthorized(w)
				return
			}

			userID, err := claims.UserUUID()
			if err != nil {
				unauthorized(w)
				return
			}

			role := domain.Role(claims.Role)
			if !role.Valid() {
				unauthorized(w)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeySchoolID, schoolID)
			ctx = context.WithValue(ctx, ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyUserRole, role)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
}
