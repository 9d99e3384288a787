package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/docqa"
	"github.com/opencampus/campus/internal/domain"
)

type AskQuestionInput struct {
	MaterialID uuid.UUID `path:"id" doc:"Course material ID"`
	Body       struct {
		Question string `json:"question" minLength:"1" maxLength:"2000" doc:"Question about the material"`
	}
}

type QuestionAnswerOutput struct {
	Body domain.DocumentQA
}

type QAHistoryInput struct {
	MaterialID uuid.UUID `path:"id" doc:"Course material ID"`
}

type QAHistoryOutput struct {
	Body []*domain.DocumentQA
}

// RegisterDocQARoutes registers question answering over course materials.
// Answers come from an external service behind a circuit breaker, so an
// outage degrades to 503 instead of hanging every caller.
func RegisterDocQARoutes(api huma.API, qa QAService) {
	huma.Register(api, huma.Operation{
		OperationID: "ask-material-question",
		Method:      http.MethodPost,
		Path:        "/materials/{id}/qa",
		Summary:     "Ask a question about a material",
		Tags:        []string{"DocumentQA"},
	}, func(ctx context.Context, input *AskQuestionInput) (*QuestionAnswerOutput, error) {
		schoolID, userID, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		answer, err := qa.Ask(ctx, schoolID, input.MaterialID, userID, input.Body.Question)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("material not found")
			case errors.Is(err, docqa.ErrAnswererUnavailable):
				return nil, huma.Error503ServiceUnavailable("the answering service is unavailable")
			default:
				return nil, huma.Error500InternalServerError("failed to answer question", err)
			}
		}

		return &QuestionAnswerOutput{Body: *answer}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-material-questions",
		Method:      http.MethodGet,
		Path:        "/materials/{id}/qa",
		Summary:     "List past questions about a material",
		Tags:        []string{"DocumentQA"},
	}, func(ctx context.Context, input *QAHistoryInput) (*QAHistoryOutput, error) {
		schoolID, _, _, err := tenantScope(ctx)
		if err != nil {
			return nil, err
		}

		history, err := qa.History(ctx, schoolID, input.MaterialID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("material not found")
			}
			return nil, huma.Error500InternalServerError("failed to load question history", err)
		}

		return &QAHistoryOutput{Body: history}, nil
	})
}
