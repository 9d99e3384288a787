package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/opencampus/campus/internal/domain"
)

// Claims holds the session token payload. Field types and JSON tags are
// compatible with the middleware's parser so tokens issued here round-trip.
type Claims struct {
	jwt.RegisteredClaims
	SchoolID string `json:"sid,omitempty"` // empty for system_admin
	UserID   string `json:"uid"`
	Role     string `json:"role"`
}

// ErrInvalidToken is returned when a session token cannot be parsed, has
// expired, or has been revoked by logout.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// IssueToken creates a signed HS256 session token. Each token carries a fresh
// jti so logout can revoke it individually.
func IssueToken(secret string, schoolID, userID uuid.UUID, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "campus",
		},
		UserID: userID.String(),
		Role:   string(role),
	}
	if schoolID != uuid.Nil {
		claims.SchoolID = schoolID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueToken: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a session token string.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	return claims, nil
}

// SchoolUUID parses the school claim. Returns uuid.Nil for operator tokens.
func (c *Claims) SchoolUUID() (uuid.UUID, error) {
	if c.SchoolID == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(c.SchoolID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.Claims.SchoolUUID: %w", ErrInvalidToken)
	}
	return id, nil
}

// UserUUID parses the user claim.
func (c *Claims) UserUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.Claims.UserUUID: %w", ErrInvalidToken)
	}
	return id, nil
}
