package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/config"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// bootstrapAdminUsername is the signup name that receives admin access, so a
// fresh deployment can create its first administrator.
const bootstrapAdminUsername = "admin"

// AuthService implements signup and login.
type AuthService struct {
	db     repository.Querier
	users  repository.UserRepository
	tokens *auth.TokenManager
	cost   int
}

// AuthDependencies bundles collaborators for AuthService.
type AuthDependencies struct {
	DB       repository.Querier
	UserRepo repository.UserRepository
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		db:     deps.DB,
		users:  deps.UserRepo,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cost:   cfg.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// SignupInput describes the registration payload.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Name     *string
	Surname  *string
}

// Signup registers a new account. The username "admin" is auto-promoted.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username, email, password required", nil)
	}

	hashed, err := auth.HashPassword(input.Password, s.cost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Name:         input.Name,
		Surname:      input.Surname,
		Access:       domain.AccessUser,
	}
	if user.Username == bootstrapAdminUsername {
		user.Access = domain.AccessAdmin
	}

	if err := s.users.Create(ctx, s.db, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username or email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. The identifier may be
// a username or an email; unknown identifier and wrong password produce the
// identical error so neither case is distinguishable.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, s.db, identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		user, err = s.users.GetByUsername(ctx, s.db, identifier)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, invalidCredentials()
		}
		return "", time.Time{}, apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, invalidCredentials()
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}

func invalidCredentials() error {
	return apperrors.NewForbidden("invalid credentials")
}
