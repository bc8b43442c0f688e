package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// idParam parses the :id path segment.
func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

// actor returns the authenticated user or an unauthorized error.
func actor(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.ActorFromContext(c)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return user, nil
}

// queryInt parses an integer query parameter, falling back on def.
func queryInt(c *fiber.Ctx, key string, def int) int {
	val := c.Query(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
