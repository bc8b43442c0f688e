package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/service"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// List GET /comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	comments, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCommentResponses(comments))
}

// Get GET /comments/:id.
func (h *CommentsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.CommentDetailResponse{
		Comment: dto.NewCommentResponse(detail.Comment),
		Ticket:  dto.NewTicketResponse(detail.Ticket),
	})
}

// Edit PUT /comments/:id. Success answers 205 with the updated comment.
func (h *CommentsHandler) Edit(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.Edit(c.Context(), user, id, update.CommentChanges{
		BodyText: req.BodyText,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusResetContent).JSON(dto.NewCommentResponse(comment))
}

// Delete DELETE /comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
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
