package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencampus/campus/internal/domain"
)

type DocumentQARepo struct {
	pool *pgxpool.Pool
}

func NewDocumentQARepo(pool *pgxpool.Pool) *DocumentQARepo {
	return &DocumentQARepo{pool: pool}
}

func (r *DocumentQARepo) Create(ctx context.Context, qa *domain.DocumentQA) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO document_qa (id, school_id, material_id, user_id, question, answer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		qa.ID, qa.SchoolID, qa.MaterialID, qa.UserID, qa.Question, qa.Answer, qa.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("documentQARepo.Create: %w", err)
	}

	return nil
}

func (r *DocumentQARepo) ListByMaterial(ctx context.Context, schoolID, materialID uuid.UUID) ([]*domain.DocumentQA, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, material_id, user_id, question, answer, created_at
		 FROM document_qa WHERE school_id = $1 AND material_id = $2
		 ORDER BY created_at LIMIT 500`,
		schoolID, materialID,
	)
	if err != nil {
		return nil, fmt.Errorf("documentQARepo.ListByMaterial: %w", err)
	}
	defer rows.Close()

	var qas []*domain.DocumentQA
	for rows.Next() {
		var qa domain.DocumentQA

		err = rows.Scan(&qa.ID, &qa.SchoolID, &qa.MaterialID, &qa.UserID, &qa.Question, &qa.Answer, &qa.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("documentQARepo.ListByMaterial: scan: %w", err)
		}

		qas = append(qas, &qa)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("documentQARepo.ListByMaterial: %w", err)
	}

	return qas, nil
}
