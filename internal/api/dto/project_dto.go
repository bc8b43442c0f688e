package dto

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CreateProjectRequest payload.
type CreateProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Start       *time.Time `json:"start"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateProjectRequest carries a sparse project edit.
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Start       *time.Time `json:"start"`
	Deadline    *time.Time `json:"deadline"`
}

// ProjectResponse payload.
type ProjectResponse struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Start       *time.Time    `json:"start"`
	Deadline    *time.Time    `json:"deadline"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CreatorID   int64         `json:"creator_id"`
	Creator     *UserResponse `json:"creator,omitempty"`
}

// ProjectDetailResponse is the single-project aggregate.
type ProjectDetailResponse struct {
	Project       ProjectResponse                `json:"project"`
	Tickets       []TicketResponse               `json:"tickets"`
	Personnel     []UserResponse                 `json:"personnel"`
	UpdateHistory []ProjectUpdateHistoryResponse `json:"update_history"`
}

// ProjectUpdateHistoryResponse mirrors one immutable project audit row.
type ProjectUpdateHistoryResponse struct {
	ID        int64     `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	ProjectID int64     `json:"project_id"`

	OldName        string     `json:"old_name"`
	NewName        string     `json:"new_name"`
	OldDescription string     `json:"old_description"`
	NewDescription string     `json:"new_description"`
	OldStart       *time.Time `json:"old_start"`
	NewStart       *time.Time `json:"new_start"`
	OldDeadline    *time.Time `json:"old_deadline"`
	NewDeadline    *time.Time `json:"new_deadline"`
	OldStatus      string     `json:"old_status"`
	NewStatus      string     `json:"new_status"`

	PersonnelChange string `json:"personnel_change"`

	Editor *UserResponse `json:"editor,omitempty"`
}

// NewProjectResponse maps a domain project.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Start:       project.Start,
		Deadline:    project.Deadline,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
		CreatorID:   project.CreatorID,
	}
	if project.Creator != nil {
		creator := NewUserResponse(project.Creator)
		resp.Creator = &creator
	}
	return resp
}

// NewProjectResponses maps a slice of domain projects.
func NewProjectResponses(projects []domain.Project) []ProjectResponse {
	result := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, NewProjectResponse(&projects[i]))
	}
	return result
}

// NewProjectHistoryResponses maps project audit rows.
func NewProjectHistoryResponses(entries []domain.ProjectUpdateHistory) []ProjectUpdateHistoryResponse {
	result := make([]ProjectUpdateHistoryResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		resp := ProjectUpdateHistoryResponse{
			ID:              entry.ID,
			UpdatedAt:       entry.UpdatedAt,
			ProjectID:       entry.ProjectID,
			OldName:         entry.OldName,
			NewName:         entry.NewName,
			OldDescription:  entry.OldDescription,
			NewDescription:  entry.NewDescription,
			OldStart:        entry.OldStart,
			NewStart:        entry.NewStart,
			OldDeadline:     entry.OldDeadline,
			NewDeadline:     entry.NewDeadline,
			OldStatus:       entry.OldStatus,
			NewStatus:       entry.NewStatus,
			PersonnelChange: entry.PersonnelChange,
		}
		if entry.Editor != nil {
			editor := NewUserResponse(entry.Editor)
			resp.Editor = &editor
		}
		result = append(result, resp)
	}
	return result
}
