package dto

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Caption     string `json:"caption"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Category    string `json:"category"`
}

// UpdateTicketRequest carries a sparse ticket edit.
type UpdateTicketRequest struct {
	Caption     *string `json:"caption"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
	Status      *string `json:"status"`
	Category    *string `json:"category"`
}

// TicketResponse payload.
type TicketResponse struct {
	ID          int64            `json:"id"`
	Caption     string           `json:"caption"`
	Description string           `json:"description"`
	Priority    int              `json:"priority"`
	Status      string           `json:"status"`
	Category    string           `json:"category"`
	CreatedAt   time.Time        `json:"created_at"`
	CreatorID   int64            `json:"creator_id"`
	ProjectID   int64            `json:"project_id"`
	Creator     *UserResponse    `json:"creator,omitempty"`
	Project     *ProjectResponse `json:"project,omitempty"`
}

// TicketDetailResponse is the single-ticket aggregate.
type TicketDetailResponse struct {
	Ticket        TicketResponse                `json:"ticket"`
	Comments      []CommentResponse             `json:"comments"`
	UpdateHistory []TicketUpdateHistoryResponse `json:"update_history"`
}

// TicketUpdateHistoryResponse mirrors one immutable ticket audit row.
type TicketUpdateHistoryResponse struct {
	ID        int64     `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	TicketID  int64     `json:"ticket_id"`

	OldCaption     string `json:"old_caption"`
	NewCaption     string `json:"new_caption"`
	OldDescription string `json:"old_description"`
	NewDescription string `json:"new_description"`
	OldPriority    int    `json:"old_priority"`
	NewPriority    int    `json:"new_priority"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
	OldCategory    string `json:"old_category"`
	NewCategory    string `json:"new_category"`

	Editor *UserResponse `json:"editor,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID,
		Caption:     ticket.Caption,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		Category:    ticket.Category,
		CreatedAt:   ticket.CreatedAt,
		CreatorID:   ticket.CreatorID,
		ProjectID:   ticket.ProjectID,
	}
	if ticket.Creator != nil {
		creator := NewUserResponse(ticket.Creator)
		resp.Creator = &creator
	}
	if ticket.Project != nil {
		project := NewProjectResponse(ticket.Project)
		resp.Project = &project
	}
	return resp
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, NewTicketResponse(&tickets[i]))
	}
	return result
}

// NewTicketHistoryResponses maps ticket audit rows.
func NewTicketHistoryResponses(entries []domain.TicketUpdateHistory) []TicketUpdateHistoryResponse {
	result := make([]TicketUpdateHistoryResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		resp := TicketUpdateHistoryResponse{
			ID:             entry.ID,
			UpdatedAt:      entry.UpdatedAt,
			TicketID:       entry.TicketID,
			OldCaption:     entry.OldCaption,
			NewCaption:     entry.NewCaption,
			OldDescription: entry.OldDescription,
			NewDescription: entry.NewDescription,
			OldPriority:    entry.OldPriority,
			NewPriority:    entry.NewPriority,
			OldStatus:      entry.OldStatus,
			NewStatus:      entry.NewStatus,
			OldCategory:    entry.OldCategory,
			NewCategory:    entry.NewCategory,
		}
		if entry.Editor != nil {
			editor := NewUserResponse(entry.Editor)
			resp.Editor = &editor
		}
		result = append(result, resp)
	}
	return result
}
