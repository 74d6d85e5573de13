package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
	"github.com/codybmenefee/custodian-integration-tool/ports"
	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is returned when login fails.
// The cause (unknown email vs wrong password) is deliberately not exposed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// AuthService handles registration and login.
type AuthService struct {
	users  ports.UserStore
	hasher ports.Hasher
	tokens ports.TokenIssuer
	clock  ports.Clock
	ids    ports.IDGenerator
	logger zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users ports.UserStore,
	hasher ports.Hasher,
	tokens ports.TokenIssuer,
	clock ports.Clock,
	ids ports.IDGenerator,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		clock:  clock,
		ids:    ids,
		logger: logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (ports.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return ports.User{}, &schema.ValidationError{Field: "email", Reason: "a valid email is required"}
	}
	if len(password) < 8 {
		return ports.User{}, &schema.ValidationError{Field: "password", Reason: "password must be at least 8 characters"}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return ports.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	u := ports.User{
		ID:           s.ids.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return ports.User{}, ErrEmailTaken
		}
		return ports.User{}, fmt.Errorf("store user: %w", err)
	}

	s.logger.Info().Str("user", u.ID).Msg("user registered")
	u.PasswordHash = nil
	return u, nil
}

// Login checks credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, user ports.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, ports.User{}, ErrInvalidCredentials
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		s.logger.Warn().Str("user", u.ID).Msg("failed login attempt")
		return "", time.Time{}, ports.User{}, ErrInvalidCredentials
	}

	token, expiresAt, err = s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return "", time.Time{}, ports.User{}, fmt.Errorf("issue token: %w", err)
	}

	u.PasswordHash = nil
	return token, expiresAt, u, nil
}

// GetUser loads a user by id with the password hash stripped.
func (s *AuthService) GetUser(ctx context.Context, id string) (ports.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return ports.User{}, err
	}
	u.PasswordHash = nil
	return u, nil
}
