package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// School is the tenant: the unit of data isolation. Every row of every other
// aggregate carries its SchoolID.
type School struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Domain         string    `json:"domain"` // unique hostname, e.g. "north.campus.example"
	LogoURL        string    `json:"logo_url,omitempty"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSchool creates a School with validated required fields and default branding.
func NewSchool(name, domain, logoURL, primaryColor, secondaryColor string) (*School, error) {
	if name == "" {
		return nil, errors.New("school: name is required")
	}
	if domain == "" {
		return nil, errors.New("school: domain is required")
	}
	if primaryColor == "" {
		primaryColor = "#4F46E5"
	}
	if secondaryColor == "" {
		secondaryColor = "#4338CA"
	}
	now := time.Now()
	return &School{
		ID:             uuid.New(),
		Name:           name,
		Domain:         domain,
		LogoURL:        logoURL,
		PrimaryColor:   primaryColor,
		SecondaryColor: secondaryColor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

type SchoolRepository interface {
	Create(ctx context.Context, s *School) error
	GetByID(ctx context.Context, id uuid.UUID) (*School, error)
	GetByDomain(ctx context.Context, domain string) (*School, error)
	UpdateBranding(ctx context.Context, s *School) error
	List(ctx context.Context) ([]*School, error)
}
