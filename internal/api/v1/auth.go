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

// OAuthProvider abstracts the Google sign-in flow for handler testing.
// *auth.GoogleProvider satisfies this interface.
type OAuthProvider interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (email, name string, err error)
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		Token    string          `json:"token"` //nolint:gosec // G117: auth response DTO
		Identity domain.Identity `json:"identity"`
	}
}

type LogoutOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

type MeOutput struct {
	Body domain.Identity
}

type SchoolBrandingOutput struct {
	Body *domain.School
}

type OAuthStartOutput struct {
	Body struct {
		URL   string `json:"url"`
		State string `json:"state"`
	}
}

type OAuthCallbackInput struct {
	Code  string `query:"code" required:"true" doc:"Authorization code"`
	State string `query:"state" doc:"Opaque state echoed from the start call"`
}

// RegisterAuthRoutes registers the unauthenticated auth surface. Login is
// scoped to the school resolved from the request host; on an unrecognized
// host only platform operators can sign in.
func RegisterAuthRoutes(api huma.API, authSvc AuthService, oauth OAuthProvider) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		schoolID := uuid.Nil
		if school, ok := middleware.ResolvedSchoolFromContext(ctx); ok {
			schoolID = school.ID
		}

		token, identity, err := authSvc.Login(ctx, schoolID, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		out := &LoginOutput{}
		out.Body.Token = token
		out.Body.Identity = identity
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-google-start",
		Method:      http.MethodGet,
		Path:        "/auth/google",
		Summary:     "Start Google sign-in",
		Tags:        []string{"Auth"},
	}, func(_ context.Context, _ *struct{}) (*OAuthStartOutput, error) {
		if oauth == nil {
			return nil, huma.Error501NotImplemented("google sign-in is not configured")
		}

		state := uuid.NewString()
		out := &OAuthStartOutput{}
		out.Body.URL = oauth.AuthorizationURL(state)
		out.Body.State = state
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-google-callback",
		Method:      http.MethodGet,
		Path:        "/auth/google/callback",
		Summary:     "Complete Google sign-in",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *OAuthCallbackInput) (*LoginOutput, error) {
		if oauth == nil {
			return nil, huma.Error501NotImplemented("google sign-in is not configured")
		}

		email, _, err := oauth.ExchangeCode(ctx, input.Code)
		if err != nil {
			return nil, huma.Error401Unauthorized("google sign-in failed")
		}

		schoolID := uuid.Nil
		if school, ok := middleware.ResolvedSchoolFromContext(ctx); ok {
			schoolID = school.ID
		}

		token, identity, err := authSvc.LoginWithGoogle(ctx, schoolID, email)
		if err != nil {
			// No auto-provisioning: the account must already exist here.
			return nil, huma.Error401Unauthorized("no account for this google identity")
		}

		out := &LoginOutput{}
		out.Body.Token = token
		out.Body.Identity = identity
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-school-branding",
		Method:      http.MethodGet,
		Path:        "/school",
		Summary:     "Get the branding of the school serving this host",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*SchoolBrandingOutput, error) {
		school, ok := middleware.ResolvedSchoolFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("no school is registered for this domain")
		}
		return &SchoolBrandingOutput{Body: school}, nil
	})
}

// RegisterSessionRoutes registers the authenticated session surface. These
// sit behind the Auth middleware, so validated claims are always in context.
func RegisterSessionRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Revoke the current session token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
		claims, ok := middleware.ClaimsFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		// The session is dead when this returns, even if persisting the
		// revocation is still in flight.
		authSvc.Logout(ctx, claims)

		out := &LogoutOutput{}
		out.Body.Status = "logged_out"
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get the current identity",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*MeOutput, error) {
		claims, ok := middleware.ClaimsFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		identity, err := authSvc.WhoAmI(ctx, claims)
		if err != nil {
			return nil, huma.Error401Unauthorized("session is no longer valid")
		}

		return &MeOutput{Body: identity}, nil
	})
}
