package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencampus/campus/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// school_id is stored NULL for platform operators; nilUUID converts between
// the domain's uuid.Nil convention and the column.

func nilUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func fromNilUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, school_id, email, full_name, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, nilUUID(u.SchoolID), strings.ToLower(u.Email), u.FullName, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("userRepo.Create: %w", domain.ErrConflict)
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, schoolID, id uuid.UUID) (*domain.User, error) {
	var (
		u   domain.User
		sid *uuid.UUID
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, email, full_name, password_hash, role, created_at, updated_at
		 FROM users WHERE id = $1 AND school_id IS NOT DISTINCT FROM $2`,
		id, nilUUID(schoolID),
	).Scan(&u.ID, &sid, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}
	u.SchoolID = fromNilUUID(sid)

	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, schoolID uuid.UUID, email string) (*domain.User, error) {
	var (
		u   domain.User
		sid *uuid.UUID
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, school_id, email, full_name, password_hash, role, created_at, updated_at
		 FROM users WHERE email = $1 AND school_id IS NOT DISTINCT FROM $2`,
		strings.ToLower(email), nilUUID(schoolID),
	).Scan(&u.ID, &sid, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}
	u.SchoolID = fromNilUUID(sid)

	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $1, full_name = $2, password_hash = $3, role = $4, updated_at = now()
		 WHERE id = $5 AND school_id IS NOT DISTINCT FROM $6`,
		strings.ToLower(u.Email), u.FullName, u.PasswordHash, u.Role, u.ID, nilUUID(u.SchoolID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("userRepo.Update: %w", domain.ErrConflict)
		}
		return fmt.Errorf("userRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepo) List(ctx context.Context, schoolID uuid.UUID, role domain.Role) ([]*domain.User, error) {
	query := `SELECT id, school_id, email, full_name, password_hash, role, created_at, updated_at
		 FROM users WHERE school_id = $1`
	args := []any{schoolID}
	if role != "" {
		query += ` AND role = $2`
		args = append(args, role)
	}
	query += ` ORDER BY full_name LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("userRepo.List: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var (
			u   domain.User
			sid *uuid.UUID
		)

		err = rows.Scan(&u.ID, &sid, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("userRepo.List: scan: %w", err)
		}
		u.SchoolID = fromNilUUID(sid)

		users = append(users, &u)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("userRepo.List: %w", err)
	}

	return users, nil
}

func (r *UserRepo) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM users WHERE id = $1 AND school_id = $2`,
		id, schoolID,
	)
	if err != nil {
		return fmt.Errorf("userRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
