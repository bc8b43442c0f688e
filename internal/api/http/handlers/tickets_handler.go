package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/service"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := repository.TicketFilter{
		Category:   c.Query("category"),
		Status:     c.Query("status"),
		SearchTerm: c.Query("search"),
		Limit:      queryInt(c, "limit", 10),
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("invalid priority", nil)
		}
		filter.Priority = &priority
	}

	tickets, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketDetailResponse{
		Ticket:        dto.NewTicketResponse(detail.Ticket),
		Comments:      dto.NewCommentResponses(detail.Comments),
		UpdateHistory: dto.NewTicketHistoryResponses(detail.History),
	})
}

// Edit PUT /tickets/:id. Success answers 205 with the updated ticket.
func (h *TicketsHandler) Edit(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Edit(c.Context(), user, id, update.TicketChanges{
		Caption:     req.Caption,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusResetContent).JSON(dto.NewTicketResponse(ticket))
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
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

// Comment POST /tickets/:id/comment.
func (h *TicketsHandler) Comment(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.Comment(c.Context(), user, id, req.BodyText)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCommentResponse(comment))
}
