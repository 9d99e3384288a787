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

type SchoolRepo struct {
	pool *pgxpool.Pool
}

func NewSchoolRepo(pool *pgxpool.Pool) *SchoolRepo {
	return &SchoolRepo{pool: pool}
}

func (r *SchoolRepo) Create(ctx context.Context, s *domain.School) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO schools (id, name, domain, logo_url, primary_color, secondary_color, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, strings.ToLower(s.Domain), s.LogoURL, s.PrimaryColor, s.SecondaryColor, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("schoolRepo.Create: %w", domain.ErrConflict)
		}
		return fmt.Errorf("schoolRepo.Create: %w", err)
	}

	return nil
}

func (r *SchoolRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.School, error) {
	var s domain.School

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, domain, logo_url, primary_color, secondary_color, created_at, updated_at
		 FROM schools WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Domain, &s.LogoURL, &s.PrimaryColor, &s.SecondaryColor, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("schoolRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("schoolRepo.GetByID: %w", err)
	}

	return &s, nil
}

func (r *SchoolRepo) GetByDomain(ctx context.Context, host string) (*domain.School, error) {
	var s domain.School

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, domain, logo_url, primary_color, secondary_color, created_at, updated_at
		 FROM schools WHERE domain = $1`,
		strings.ToLower(host),
	).Scan(&s.ID, &s.Name, &s.Domain, &s.LogoURL, &s.PrimaryColor, &s.SecondaryColor, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("schoolRepo.GetByDomain: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("schoolRepo.GetByDomain: %w", err)
	}

	return &s, nil
}

func (r *SchoolRepo) UpdateBranding(ctx context.Context, s *domain.School) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schools SET name = $1, logo_url = $2, primary_color = $3, secondary_color = $4, updated_at = now()
		 WHERE id = $5`,
		s.Name, s.LogoURL, s.PrimaryColor, s.SecondaryColor, s.ID,
	)
	if err != nil {
		return fmt.Errorf("schoolRepo.UpdateBranding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schoolRepo.UpdateBranding: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SchoolRepo) List(ctx context.Context) ([]*domain.School, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, domain, logo_url, primary_color, secondary_color, created_at, updated_at
		 FROM schools ORDER BY created_at
		 LIMIT 500`,
	)
	if err != nil {
		return nil, fmt.Errorf("schoolRepo.List: %w", err)
	}
	defer rows.Close()

	var schools []*domain.School
	for rows.Next() {
		var s domain.School

		err = rows.Scan(&s.ID, &s.Name, &s.Domain, &s.LogoURL, &s.PrimaryColor, &s.SecondaryColor, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("schoolRepo.List: scan: %w", err)
		}

		schools = append(schools, &s)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("schoolRepo.List: %w", err)
	}

	return schools, nil
}
