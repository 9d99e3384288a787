package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/domain"
	"github.com/opencampus/campus/internal/policy"
	"github.com/opencampus/campus/internal/server/middleware"
)

type CreateSchoolInput struct {
	Body struct {
		Name           string `json:"name" minLength:"1" maxLength:"255" doc:"School name"`
		Domain         string `json:"domain" minLength:"1" maxLength:"255" doc:"Unique hostname serving this school"`
		LogoURL        string `json:"logo_url,omitempty" maxLength:"1024" doc:"Logo URL"`
		PrimaryColor   string `json:"primary_color,omitempty" maxLength:"7" doc:"Primary brand color (hex)"`
		SecondaryColor string `json:"secondary_color,omitempty" maxLength:"7" doc:"Secondary brand color (hex)"`
	}
}

type CreateSchoolOutput struct {
	Body *domain.School
}

type ListSchoolsOutput struct {
	Body []*domain.School
}

type UpdateSchoolBrandingInput struct {
	ID   uuid.UUID `path:"id" doc:"School ID"`
	Body struct {
		Name           string `json:"name,omitempty" maxLength:"255" doc:"School name"`
		LogoURL        string `json:"logo_url,omitempty" maxLength:"1024" doc:"Logo URL"`
		PrimaryColor   string `json:"primary_color,omitempty" maxLength:"7" doc:"Primary brand color (hex)"`
		SecondaryColor string `json:"secondary_color,omitempty" maxLength:"7" doc:"Secondary brand color (hex)"`
	}
}

type UpdateSchoolBrandingOutput struct {
	Body *domain.School
}

type AddSchoolAdminInput struct {
	ID   uuid.UUID `path:"id" doc:"School ID"`
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"Admin email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Initial password"` //nolint:gosec // G117: credential DTO
		FullName string `json:"full_name" minLength:"1" maxLength:"255" doc:"Display name"`
	}
}

type AddSchoolAdminOutput struct {
	Body domain.Identity
}

// RegisterSchoolRoutes registers the platform operator's school management
// surface. Every operation requires the system scope.
func RegisterSchoolRoutes(api huma.API, store DataStore, authSvc AuthService) {
	requireOperator := func(ctx context.Context) error {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok {
			return huma.Error401Unauthorized("authentication required")
		}
		if policy.ScopeFor(role) != policy.ScopeSystem {
			return huma.Error403Forbidden("schools view requires the operator role")
		}
		return nil
	}

	huma.Register(api, huma.Operation{
		OperationID: "create-school",
		Method:      http.MethodPost,
		Path:        "/schools",
		Summary:     "Create a new school",
		Tags:        []string{"Schools"},
	}, func(ctx context.Context, input *CreateSchoolInput) (*CreateSchoolOutput, error) {
		if err := requireOperator(ctx); err != nil {
			return nil, err
		}

		school, err := domain.NewSchool(input.Body.Name, input.Body.Domain, input.Body.LogoURL, input.Body.PrimaryColor, input.Body.SecondaryColor)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		if err := store.Schools().Create(ctx, school); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("a school already uses this domain")
			}
			return nil, huma.Error500InternalServerError("failed to create school", err)
		}

		return &CreateSchoolOutput{Body: school}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-schools",
		Method:      http.MethodGet,
		Path:        "/schools",
		Summary:     "List all schools",
		Tags:        []string{"Schools"},
	}, func(ctx context.Context, _ *struct{}) (*ListSchoolsOutput, error) {
		if err := requireOperator(ctx); err != nil {
			return nil, err
		}

		schools, err := store.Schools().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list schools", err)
		}

		return &ListSchoolsOutput{Body: schools}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-school-branding",
		Method:      http.MethodPatch,
		Path:        "/schools/{id}",
		Summary:     "Update a school's name and branding",
		Tags:        []string{"Schools"},
	}, func(ctx context.Context, input *UpdateSchoolBrandingInput) (*UpdateSchoolBrandingOutput, error) {
		if err := requireOperator(ctx); err != nil {
			return nil, err
		}

		school, err := store.Schools().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("school not found")
			}
			return nil, huma.Error500InternalServerError("failed to load school", err)
		}

		if input.Body.Name != "" {
			school.Name = input.Body.Name
		}
		if input.Body.LogoURL != "" {
			school.LogoURL = input.Body.LogoURL
		}
		if input.Body.PrimaryColor != "" {
			school.PrimaryColor = input.Body.PrimaryColor
		}
		if input.Body.SecondaryColor != "" {
			school.SecondaryColor = input.Body.SecondaryColor
		}

		if err := store.Schools().UpdateBranding(ctx, school); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("school not found")
			}
			return nil, huma.Error500InternalServerError("failed to update school", err)
		}

		return &UpdateSchoolBrandingOutput{Body: school}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-school-admin",
		Method:      http.MethodPost,
		Path:        "/schools/{id}/admins",
		Summary:     "Add an administrator to a school",
		Tags:        []string{"Schools"},
	}, func(ctx context.Context, input *AddSchoolAdminInput) (*AddSchoolAdminOutput, error) {
		if err := requireOperator(ctx); err != nil {
			return nil, err
		}

		if _, err := store.Schools().GetByID(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("school not found")
			}
			return nil, huma.Error500InternalServerError("failed to load school", err)
		}

		user, err := authSvc.CreateUser(ctx, input.ID, input.Body.Email, input.Body.Password, input.Body.FullName, domain.RoleSchoolAdmin)
		if err != nil {
			return nil, translateCreateUserErr(err)
		}

		return &AddSchoolAdminOutput{Body: user.Identity()}, nil
	})
}
