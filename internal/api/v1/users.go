package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/auth"
	"github.com/opencampus/campus/internal/domain"
	"github.com/opencampus/campus/internal/server/middleware"
)

type CreateUserInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Initial password"` //nolint:gosec // G117: credential DTO
		FullName string `json:"full_name" minLength:"1" maxLength:"255" doc:"Display name"`
		Role     string `json:"role" enum:"teacher,student" doc:"Role within the school"`
	}
}

type CreateUserOutput struct {
	Body domain.Identity
}

type ListUsersInput struct {
	Role string `query:"role" enum:",school_admin,teacher,student" doc:"Filter by role"`
}

type ListUsersOutput struct {
	Body []domain.Identity
}

type UpdateUserInput struct {
	ID   uuid.UUID `path:"id" doc:"User ID"`
	Body struct {
		Email    string `json:"email,omitempty" maxLength:"255" doc:"New email"`
		FullName string `json:"full_name,omitempty" maxLength:"255" doc:"New display name"`
	}
}

type DeleteUserInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

// RegisterUserRoutes registers the school admin's people management surface.
// The students view (listing) also serves school admins reviewing rosters.
func RegisterUserRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-user",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Create a teacher or student account",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
		schoolID, err := schoolAdminScope(ctx)
		if err != nil {
			return nil, err
		}

		user, err := authSvc.CreateUser(ctx, schoolID, input.Body.Email, input.Body.Password, input.Body.FullName, domain.Role(input.Body.Role))
		if err != nil {
			return nil, translateCreateUserErr(err)
		}

		return &CreateUserOutput{Body: user.Identity()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List the school's users",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
		schoolID, ok := middleware.SchoolIDFromContext(ctx)
		if !ok || schoolID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing school context")
		}

		users, err := store.Users().List(ctx, schoolID, domain.Role(input.Role))
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		identities := make([]domain.Identity, 0, len(users))
		for _, u := range users {
			identities = append(identities, u.Identity())
		}

		return &ListUsersOutput{Body: identities}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPatch,
		Path:        "/users/{id}",
		Summary:     "Update a user's profile fields",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateUserInput) (*CreateUserOutput, error) {
		schoolID, err := schoolAdminScope(ctx)
		if err != nil {
			return nil, err
		}

		user, err := store.Users().GetByID(ctx, schoolID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to load user", err)
		}

		if input.Body.Email != "" {
			user.Email = input.Body.Email
		}
		if input.Body.FullName != "" {
			user.FullName = input.Body.FullName
		}
		if err := store.Users().Update(ctx, user); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("email is already in use")
			}
			return nil, huma.Error500InternalServerError("failed to update user", err)
		}

		return &CreateUserOutput{Body: user.Identity()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Remove a user from the school",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *DeleteUserInput) (*struct{}, error) {
		schoolID, err := schoolAdminScope(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Users().Delete(ctx, schoolID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete user", err)
		}

		return nil, nil
	})
}

// schoolAdminScope extracts the caller's school and requires the
// school_admin role.
func schoolAdminScope(ctx context.Context) (uuid.UUID, error) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("authentication required")
	}
	if role != domain.RoleSchoolAdmin {
		return uuid.Nil, huma.Error403Forbidden("requires the school administrator role")
	}

	schoolID, ok := middleware.SchoolIDFromContext(ctx)
	if !ok || schoolID == uuid.Nil {
		return uuid.Nil, huma.Error403Forbidden("missing school context")
	}

	return schoolID, nil
}

// translateCreateUserErr maps auth.CreateUser failures to API errors.
func translateCreateUserErr(err error) error {
	if errors.Is(err, auth.ErrUserAlreadyExists) {
		return huma.Error409Conflict("a user with this email already exists")
	}
	return huma.Error500InternalServerError("failed to create user", err)
}
