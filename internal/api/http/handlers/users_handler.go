package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/service"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// UsersHandler manages user endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserDetailResponse{
		User:     dto.NewUserResponse(detail.User),
		Tickets:  dto.NewTicketResponses(detail.Tickets),
		Projects: dto.NewProjectResponses(detail.Projects),
	})
}

// Edit PUT /users/:id. Success answers 205 with the updated profile.
func (h *UsersHandler) Edit(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.service.Edit(c.Context(), user, id, update.UserChanges{
		Name:     req.Name,
		Surname:  req.Surname,
		Username: req.Username,
		Email:    req.Email,
		Access:   req.Access,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusResetContent).JSON(dto.NewUserResponse(updated))
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), user, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assign POST /users/:id/assign.
func (h *UsersHandler) Assign(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.IDListRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}

	if err := h.service.AssignProjects(c.Context(), user, id, req.IDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

// Remove POST /users/:id/remove.
func (h *UsersHandler) Remove(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.IDListRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}

	if err := h.service.RemoveProjects(c.Context(), user, id, req.IDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
