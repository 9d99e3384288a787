// Package docqa answers questions about course materials through an external
// answering service. The upstream is slow and occasionally flaky, so calls go
// through a circuit breaker: once it trips, questions fail fast instead of
// piling up waiting on a dead service.
package docqa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/opencampus/campus/internal/domain"
)

// ErrAnswererUnavailable is returned when the answering service is down or
// the breaker is open.
var ErrAnswererUnavailable = errors.New("docqa: answering service unavailable")

// Answerer produces an answer for a question about a material.
type Answerer interface {
	Answer(ctx context.Context, materialTitle, question string) (string, error)
}

// Service answers questions and persists the exchange history per material.
type Service struct {
	repo      domain.DocumentQARepository
	materials domain.MaterialRepository
	answerer  Answerer
	breaker   *gobreaker.CircuitBreaker
}

func NewService(repo domain.DocumentQARepository, materials domain.MaterialRepository, answerer Answerer) *Service {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "docqa-answerer",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("docqa: breaker state change")
		},
	})

	return &Service{repo: repo, materials: materials, answerer: answerer, breaker: breaker}
}

// Ask answers a question about a material and records the exchange.
func (s *Service) Ask(ctx context.Context, schoolID, materialID, userID uuid.UUID, question string) (*domain.DocumentQA, error) {
	material, err := s.materials.GetByID(ctx, schoolID, materialID)
	if err != nil {
		return nil, fmt.Errorf("docqa.Ask: %w", err)
	}

	result, err := s.breaker.Execute(func() (any, error) {
		return s.answerer.Answer(ctx, material.Name, question)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("docqa.Ask: %w", ErrAnswererUnavailable)
		}
		return nil, fmt.Errorf("docqa.Ask: %w", err)
	}

	qa := &domain.DocumentQA{
		ID:         uuid.New(),
		SchoolID:   schoolID,
		MaterialID: materialID,
		UserID:     userID,
		Question:   question,
		Answer:     result.(string),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, qa); err != nil {
		return nil, fmt.Errorf("docqa.Ask: %w", err)
	}
	return qa, nil
}

// History lists past exchanges for a material, newest last.
func (s *Service) History(ctx context.Context, schoolID, materialID uuid.UUID) ([]*domain.DocumentQA, error) {
	qas, err := s.repo.ListByMaterial(ctx, schoolID, materialID)
	if err != nil {
		return nil, fmt.Errorf("docqa.History: %w", err)
	}
	return qas, nil
}

// HTTPAnswerer calls the external answering service over HTTP JSON.
type HTTPAnswerer struct {
	baseURL string
	http    *http.Client
}

func NewHTTPAnswerer(baseURL string, timeout time.Duration) *HTTPAnswerer {
	return &HTTPAnswerer{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (a *HTTPAnswerer) Answer(ctx context.Context, materialTitle, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"document": materialTitle,
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("docqa.HTTPAnswerer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/answer", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("docqa.HTTPAnswerer: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("docqa.HTTPAnswerer: %w: %w", ErrAnswererUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("docqa.HTTPAnswerer: %w: status %d", ErrAnswererUnavailable, resp.StatusCode)
	}

	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("docqa.HTTPAnswerer: decode: %w", err)
	}
	return body.Answer, nil
}
