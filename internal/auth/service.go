package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/argon2"

	"github.com/opencampus/campus/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// RevocationStore persists revoked token IDs until their natural expiry.
// *redis.Sessions satisfies this interface.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Service provides authentication and session operations.
type Service struct {
	users     domain.UserRepository
	revoked   RevocationStore
	jwtSecret string
	tokenTTL  time.Duration

	// localRevoked is the in-process revocation set. Logout writes here first
	// so the session is dead even if the RevocationStore write never lands.
	localRevoked sync.Map // jti -> expiry time.Time
}

// NewService creates a new auth service.
func NewService(users domain.UserRepository, revoked RevocationStore, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:     users,
		revoked:   revoked,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Login validates email/password within a school and returns a session token
// plus the whitelisted identity. schoolID is uuid.Nil for operator accounts.
// Concurrent logins race at the network layer only; each call issues an
// independent token and the caller keeps whichever response lands last.
func (s *Service) Login(ctx context.Context, schoolID uuid.UUID, email, password string) (string, domain.Identity, error) {
	user, err := s.users.GetByEmail(ctx, schoolID, email)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if !verifyPassword(password, user.PasswordHash) {
		return "", domain.Identity{}, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	token, err := IssueToken(s.jwtSecret, user.SchoolID, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("auth.Login: %w", err)
	}

	return token, user.Identity(), nil
}

// WhoAmI resolves the current identity from validated claims. Only the four
// whitelisted identity fields are returned; everything else stays server-side.
func (s *Service) WhoAmI(ctx context.Context, claims *Claims) (domain.Identity, error) {
	if s.IsRevoked(ctx, claims.ID) {
		return domain.Identity{}, fmt.Errorf("auth.WhoAmI: %w", ErrInvalidToken)
	}

	schoolID, err := claims.SchoolUUID()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth.WhoAmI: %w", err)
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth.WhoAmI: %w", err)
	}

	user, err := s.users.GetByID(ctx, schoolID, userID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth.WhoAmI: %w", ErrUserNotFound)
	}

	return user.Identity(), nil
}

// Logout revokes the session token. The local revocation takes effect
// immediately and unconditionally; persisting it to the RevocationStore is
// best-effort, and a store failure must not resurrect the session.
func (s *Service) Logout(ctx context.Context, claims *Claims) {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return // already expired
	}

	s.localRevoked.Store(claims.ID, claims.ExpiresAt.Time)

	// Persist in the background so a slow or hung store cannot delay the
	// sign-out that already happened above.
	jti := claims.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.revoked.Revoke(ctx, jti, ttl); err != nil {
			log.Warn().Err(err).Str("jti", jti).Msg("auth: failed to persist token revocation")
		}
	}()
}

// IsRevoked reports whether a token ID has been revoked. The local set is
// consulted first; a store read failure degrades to "not revoked" so a Redis
// outage cannot lock every session out.
func (s *Service) IsRevoked(ctx context.Context, jti string) bool {
	if exp, ok := s.localRevoked.Load(jti); ok {
		if t, isTime := exp.(time.Time); isTime && time.Now().Before(t) {
			return true
		}
		s.localRevoked.Delete(jti)
	}

	revoked, err := s.revoked.IsRevoked(ctx, jti)
	if err != nil {
		log.Warn().Err(err).Str("jti", jti).Msg("auth: revocation lookup failed")
		return false
	}
	return revoked
}

// CreateUser creates a user with a hashed password. Used by school admins to
// add students/teachers and by the operator to add school admins.
func (s *Service) CreateUser(ctx context.Context, schoolID uuid.UUID, email, password, fullName string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("auth.CreateUser: unknown role %q", role)
	}

	existing, err := s.users.GetByEmail(ctx, schoolID, email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("auth.CreateUser: %w", ErrUserAlreadyExists)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth.CreateUser: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		SchoolID:     schoolID,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth.CreateUser: %w", err)
	}

	return user, nil
}

// hashPassword generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifyPassword checks a password against an argon2id hash.
func verifyPassword(password, encoded string) bool {
	var saltHex, hashHex string
	for i := range len(encoded) {
		if encoded[i] == '$' {
			saltHex = encoded[:i]
			hashHex = encoded[i+1:]
			break
		}
	}

	if saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expectedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	// Constant-time comparison to prevent timing attacks.
	if len(computed) != len(expectedHash) {
		return false
	}

	var diff byte
	for i := range computed {
		diff |= computed[i] ^ expectedHash[i]
	}

	return diff == 0
}
