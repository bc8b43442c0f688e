package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/service"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// ProjectsHandler manages project endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// List GET /projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	filter := repository.ProjectFilter{
		Status:     c.Query("status"),
		SearchTerm: c.Query("search"),
		Limit:      queryInt(c, "limit", 10),
	}
	projects, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProjectResponses(projects))
}

// Get GET /projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProjectDetailResponse{
		Project:       dto.NewProjectResponse(detail.Project),
		Tickets:       dto.NewTicketResponses(detail.Tickets),
		Personnel:     dto.NewUserResponses(detail.Personnel),
		UpdateHistory: dto.NewProjectHistoryResponses(detail.History),
	})
}

// Create POST /projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.Create(c.Context(), user, service.ProjectCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Start:       req.Start,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewProjectResponse(project))
}

// Edit PUT /projects/:id. Success answers 205 with the updated project.
func (h *ProjectsHandler) Edit(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.Edit(c.Context(), user, id, update.ProjectChanges{
		Name:        req.Name,
		Description: req.Description,
		Start:       req.Start,
		Deadline:    req.Deadline,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusResetContent).JSON(dto.NewProjectResponse(project))
}

// Delete DELETE /projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
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

// NewTicket POST /projects/:id/newticket.
func (h *ProjectsHandler) NewTicket(c *fiber.Ctx) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.NewTicket(c.Context(), user, id, service.TicketCreateInput{
		Caption:     req.Caption,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// AddPersonnel POST /projects/:id/addpersonnel.
func (h *ProjectsHandler) AddPersonnel(c *fiber.Ctx) error {
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

	if err := h.service.AddPersonnel(c.Context(), user, id, req.IDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

// RemovePersonnel POST /projects/:id/removepersonnel.
func (h *ProjectsHandler) RemovePersonnel(c *fiber.Ctx) error {
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

	if err := h.service.RemovePersonnel(c.Context(), user, id, req.IDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
