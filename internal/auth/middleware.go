package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

const actorKey = "auth_actor"

// RevocationStore tracks users whose tokens were invalidated before expiry
// (e.g. after account deletion).
type RevocationStore interface {
	Revoke(ctx context.Context, userID int64, ttl time.Duration) error
	IsRevoked(ctx context.Context, userID int64) (bool, error)
}

// Middleware validates bearer tokens and loads the acting user.
type Middleware struct {
	tokens  *TokenManager
	db      repository.Querier
	users   repository.UserRepository
	revoked RevocationStore
	logger  *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, db repository.Querier, users repository.UserRepository, revoked RevocationStore, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, db: db, users: users, revoked: revoked, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.Context(), claims.UserID)
		if err != nil {
			// best effort: an unreachable revocation store must not take
			// the whole API down
			m.logger.Warn("revocation check failed", zap.Error(err))
		} else if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	user, err := m.users.GetByID(c.Context(), m.db, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(actorKey, user)
	return c.Next()
}

// ActorFromContext retrieves the authenticated user.
func ActorFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(actorKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
