package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DocumentQA is one question/answer exchange about a course material.
type DocumentQA struct {
	ID         uuid.UUID `json:"id"`
	SchoolID   uuid.UUID `json:"school_id"`
	MaterialID uuid.UUID `json:"material_id"`
	UserID     uuid.UUID `json:"user_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

type DocumentQARepository interface {
	Create(ctx context.Context, qa *DocumentQA) error
	ListByMaterial(ctx context.Context, schoolID, materialID uuid.UUID) ([]*DocumentQA, error)
}
