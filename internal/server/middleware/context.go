package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/auth"
	"github.com/opencampus/campus/internal/domain"
)

type contextKey string

const (
	ContextKeySchoolID contextKey = "school_id"
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "role"
	ContextKeyClaims   contextKey = "claims"
	ContextKeySchool   contextKey = "resolved_school"
)

// SchoolIDFromContext returns the authenticated session's school. uuid.Nil
// with ok=true means an operator (system scope) session.
func SchoolIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeySchoolID).(uuid.UUID)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(domain.Role)
	return v, ok
}

// ClaimsFromContext returns the validated token claims (for logout).
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	v, ok := ctx.Value(ContextKeyClaims).(*auth.Claims)
	return v, ok
}

// ResolvedSchoolFromContext returns the school resolved from the request's
// hostname, if any. Absence means "do not fetch tenant-scoped data".
func ResolvedSchoolFromContext(ctx context.Context) (*domain.School, bool) {
	v, ok := ctx.Value(ContextKeySchool).(*domain.School)
	return v, ok
}
