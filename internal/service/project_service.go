package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/events"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// ProjectService coordinates project workflows: CRUD, audited edits, ticket
// filing and personnel membership.
type ProjectService struct {
	db         repository.Querier
	tx         repository.TxRunner
	projects   repository.ProjectRepository
	tickets    repository.TicketRepository
	personnel  repository.PersonnelRepository
	users      repository.UserRepository
	history    repository.ProjectHistoryRepository
	policy     *auth.Policy
	dispatcher events.Dispatcher
}

// ProjectDependencies bundles collaborators for ProjectService.
type ProjectDependencies struct {
	DB            repository.Querier
	Tx            repository.TxRunner
	ProjectRepo   repository.ProjectRepository
	TicketRepo    repository.TicketRepository
	PersonnelRepo repository.PersonnelRepository
	UserRepo      repository.UserRepository
	HistoryRepo   repository.ProjectHistoryRepository
	Policy        *auth.Policy
	Dispatcher    events.Dispatcher
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	return &ProjectService{
		db:         deps.DB,
		tx:         deps.Tx,
		projects:   deps.ProjectRepo,
		tickets:    deps.TicketRepo,
		personnel:  deps.PersonnelRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
	}
}

// ProjectCreateInput describes project creation payload.
type ProjectCreateInput struct {
	Name        string
	Description string
	Status      string
	Start       *time.Time
	Deadline    *time.Time
}

// ProjectDetail aggregates the single-project view.
type ProjectDetail struct {
	Project   *domain.Project
	Tickets   []domain.Ticket
	Personnel []domain.User
	History   []domain.ProjectUpdateHistory
}

// List returns projects matching the filter.
func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx, s.db, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// Get returns a project with its tickets, personnel and update history.
func (s *ProjectService) Get(ctx context.Context, id int64) (*ProjectDetail, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	tickets, err := s.tickets.List(ctx, s.db, repository.TicketFilter{ProjectID: &id, Limit: -1})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	members, err := s.personnel.ListUsersByProject(ctx, s.db, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	history, err := s.history.ListByProject(ctx, s.db, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &ProjectDetail{Project: project, Tickets: tickets, Personnel: members, History: history}, nil
}

// Create persists a new project and assigns its creator as personnel.
func (s *ProjectService) Create(ctx context.Context, actor *domain.User, input ProjectCreateInput) (*domain.Project, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("name and description required", nil)
	}

	project := &domain.Project{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Status:      input.Status,
		Start:       input.Start,
		Deadline:    input.Deadline,
		CreatorID:   actor.ID,
	}

	err := s.tx.InTx(ctx, func(tx repository.Querier) error {
		if err := s.projects.Create(ctx, tx, project); err != nil {
			return err
		}
		return s.personnel.Assign(ctx, tx, project.ID, actor.ID)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	project.Creator = actor
	return project, nil
}

// Edit applies a partial update to the project and records the audit row, both
// inside one transaction.
func (s *ProjectService) Edit(ctx context.Context, actor *domain.User, id int64, changes update.ProjectChanges) (*domain.Project, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(actor, project.CreatorID) {
		return nil, apperrors.NewForbidden("users can only edit their own projects")
	}

	old, updated := update.ApplyProject(project, changes)
	history := projectHistoryRow(actor.ID, project.ID, old, updated, "")

	err = s.tx.InTx(ctx, func(tx repository.Querier) error {
		if err := s.projects.Update(ctx, tx, project); err != nil {
			return err
		}
		return s.history.Create(ctx, tx, history)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{Type: events.EventProjectUpdated, EditorID: actor.ID, EntityID: project.ID})
	return project, nil
}

// Delete removes a project; tickets, personnel links and history rows cascade.
func (s *ProjectService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModify(actor, project.CreatorID) {
		return apperrors.NewForbidden("not authorized")
	}
	if err := s.projects.Delete(ctx, s.db, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TicketCreateInput describes the payload for filing a ticket.
type TicketCreateInput struct {
	Caption     string
	Description string
	Priority    int
	Category    string
}

// NewTicket files a ticket against the project.
func (s *ProjectService) NewTicket(ctx context.Context, actor *domain.User, projectID int64, input TicketCreateInput) (*domain.Ticket, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Caption) == "" || strings.TrimSpace(input.Description) == "" || strings.TrimSpace(input.Category) == "" {
		return nil, apperrors.NewValidationError("caption, description, category required", nil)
	}

	ticket := &domain.Ticket{
		Caption:     strings.TrimSpace(input.Caption),
		Description: input.Description,
		Priority:    input.Priority,
		Category:    input.Category,
		CreatorID:   actor.ID,
		ProjectID:   project.ID,
	}
	if err := s.tickets.Create(ctx, s.db, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Creator = actor
	ticket.Project = project
	return ticket, nil
}

// AddPersonnel assigns the given users to the project as one batch. All
// targets are validated before any link is written; the links and the single
// summarizing audit row commit atomically.
func (s *ProjectService) AddPersonnel(ctx context.Context, actor *domain.User, projectID int64, userIDs []int64) error {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !s.policy.CanManagePersonnel(actor, project) {
		return apperrors.NewForbidden("users can only assign personnel to their own projects")
	}

	for _, userID := range userIDs {
		if _, err := s.users.GetByID(ctx, s.db, userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(fmt.Sprintf("user %d", userID), nil)
			}
			return apperrors.MapError(err)
		}
	}
	for _, userID := range userIDs {
		assigned, err := s.personnel.Exists(ctx, s.db, projectID, userID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if assigned {
			return apperrors.NewConflict(fmt.Sprintf("user %d is already assigned to project %d", userID, projectID), nil)
		}
	}

	if err := s.mutatePersonnel(ctx, actor, project, domain.PersonnelAdded, userIDs); err != nil {
		return err
	}
	return nil
}

// RemovePersonnel removes the given users from the project as one batch.
func (s *ProjectService) RemovePersonnel(ctx context.Context, actor *domain.User, projectID int64, userIDs []int64) error {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !s.policy.CanManagePersonnel(actor, project) {
		return apperrors.NewForbidden("users can only remove personnel from their own projects")
	}

	for _, userID := range userIDs {
		if _, err := s.users.GetByID(ctx, s.db, userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(fmt.Sprintf("user %d", userID), nil)
			}
			return apperrors.MapError(err)
		}
	}
	for _, userID := range userIDs {
		assigned, err := s.personnel.Exists(ctx, s.db, projectID, userID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !assigned {
			return apperrors.NewNotFound(fmt.Sprintf("assignment of user %d to project %d", userID, projectID), nil)
		}
	}

	if err := s.mutatePersonnel(ctx, actor, project, domain.PersonnelRemoved, userIDs); err != nil {
		return err
	}
	return nil
}

// mutatePersonnel performs the pre-validated batch mutation plus its audit
// row. The history row snapshots the current project fields as both old and
// new values; only the personnel_change log differs from a field edit.
func (s *ProjectService) mutatePersonnel(ctx context.Context, actor *domain.User, project *domain.Project, op domain.PersonnelOp, userIDs []int64) error {
	snapshot := update.SnapshotProject(project)
	history := projectHistoryRow(actor.ID, project.ID, snapshot, snapshot, domain.EncodePersonnelChange(op, userIDs))

	err := s.tx.InTx(ctx, func(tx repository.Querier) error {
		for _, userID := range userIDs {
			var err error
			if op == domain.PersonnelAdded {
				err = s.personnel.Assign(ctx, tx, project.ID, userID)
			} else {
				err = s.personnel.Remove(ctx, tx, project.ID, userID)
			}
			if err != nil {
				return err
			}
		}
		return s.history.Create(ctx, tx, history)
	})
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.NewConflict("duplicate personnel assignment", nil)
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventPersonnelChanged,
		EditorID: actor.ID,
		EntityID: project.ID,
		Payload:  events.PersonnelChangedPayload{ProjectID: project.ID, Op: op, UserIDs: userIDs},
	})
	return nil
}

func (s *ProjectService) getProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("project %d", id), nil)
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

func (s *ProjectService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
}

func projectHistoryRow(editorID, projectID int64, old, updated update.ProjectSnapshot, personnelChange string) *domain.ProjectUpdateHistory {
	return &domain.ProjectUpdateHistory{
		EditorID:  editorID,
		ProjectID: projectID,

		OldName:        old.Name,
		OldDescription: old.Description,
		OldStart:       old.Start,
		OldDeadline:    old.Deadline,
		OldStatus:      old.Status,

		NewName:        updated.Name,
		NewDescription: updated.Description,
		NewStart:       updated.Start,
		NewDeadline:    updated.Deadline,
		NewStatus:      updated.Status,

		PersonnelChange: personnelChange,
	}
}
