package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/auth"
	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
)

// AuthService turns a verified identity into a user record and a session
// token. Cookies and redirects stay in the handler.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	devHash   string
	metrics   *metrics.Manager
	logger    *slog.Logger
}

// NewAuthService wires the service. An empty devPasswordHash disables
// DevLogin.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	devPasswordHash string,
	m *metrics.Manager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		devHash:   devPasswordHash,
		metrics:   m,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued token so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// SignIn upserts the user by email and issues a session token. The first
// sign-in creates the user with default settings; later ones refresh name,
// image and the provider id. Signing in through a second provider with the
// same email lands on the same user.
func (s *AuthService) SignIn(ctx context.Context, provider string, identity *model.Identity) (*AuthResult, error) {
	if identity == nil {
		return nil, errors.New("service/auth: identity must not be nil")
	}
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	if identity.Email == "" {
		return nil, apperror.ValidationFailed("email", "Email is required")
	}

	user, err := s.users.UpsertByEmail(ctx, *identity)
	if errors.Is(err, apperror.ErrConflict) {
		// A concurrent first sign-in created the user; the retry updates it.
		user, err = s.users.UpsertByEmail(ctx, *identity)
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: upserting %s: %w", identity.Email, err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.metrics.CounterSignIns.WithLabelValues(provider).Inc()
	s.logger.Info("user signed in",
		slog.String("userID", user.ID),
		slog.String("provider", provider),
	)
	return &AuthResult{User: user, Token: token}, nil
}

// DevLoginEnabled reports whether a dev password hash is configured.
func (s *AuthService) DevLoginEnabled() bool {
	return s.devHash != ""
}

// DevLogin signs in any email with the shared development password.
func (s *AuthService) DevLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	if !s.DevLoginEnabled() {
		return nil, apperror.Forbidden("Dev login is disabled")
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "Email and password are required")
	}
	if err := s.passwords.Verify(s.devHash, password); err != nil {
		if !errors.Is(err, auth.ErrInvalidPassword) {
			s.logger.Error("dev login: bad password hash", slog.String("error", err.Error()))
		}
		return nil, apperror.Unauthorized()
	}

	name, _, _ := strings.Cut(email, "@")
	return s.SignIn(ctx, "dev", &model.Identity{Email: email, Name: name})
}
