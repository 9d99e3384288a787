package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. There is no hierarchy; the policy
// package maps each role to its reachable views and actions.
type Role string

const (
	RoleSystemAdmin Role = "system_admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	SchoolID     uuid.UUID `json:"school_id,omitempty"` // uuid.Nil for system_admin
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"` // argon2id, never serialized
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the whitelisted projection of a User that leaves the server
// through /auth/me and login responses. Extra fields never ride along.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     Role      `json:"role"`
}

// Identity returns the whitelisted projection of u.
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, schoolID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, schoolID uuid.UUID, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, schoolID uuid.UUID, role Role) ([]*User, error)
	Delete(ctx context.Context, schoolID, id uuid.UUID) error
}
