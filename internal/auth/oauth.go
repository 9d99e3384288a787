package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/opencampus/campus/internal/domain"
)

// GoogleProvider holds the OAuth2 configuration for Google sign-in. Schools on
// Google Workspace use this instead of passwords; the Google account must
// match an existing user's email — there is no auto-provisioning.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider returns the Google sign-in configuration.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
			RedirectURL:  redirectURL,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// AuthorizationURL returns the OAuth2 authorization URL with the given state.
func (p *GoogleProvider) AuthorizationURL(state string) string {
	return p.config.AuthCodeURL(state)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExchangeCode exchanges an authorization code for tokens and fetches the
// Google account's email and display name.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (email, name string, err error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("auth.ExchangeCode: %w", err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return "", "", fmt.Errorf("auth.ExchangeCode: fetching user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("auth.ExchangeCode: user info returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("auth.ExchangeCode: reading user info: %w", err)
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", "", fmt.Errorf("auth.ExchangeCode: %w", err)
	}

	return info.Email, info.Name, nil
}

// LoginWithGoogle resolves a verified Google email to an existing school user
// and issues a session token for them.
func (s *Service) LoginWithGoogle(ctx context.Context, schoolID uuid.UUID, email string) (string, domain.Identity, error) {
	user, err := s.users.GetByEmail(ctx, schoolID, email)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("auth.LoginWithGoogle: %w", ErrUserNotFound)
	}

	token, err := IssueToken(s.jwtSecret, user.SchoolID, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("auth.LoginWithGoogle: %w", err)
	}

	return token, user.Identity(), nil
}
