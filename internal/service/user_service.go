package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/events"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// UserService coordinates profile management and user-side project
// membership.
type UserService struct {
	db         repository.Querier
	tx         repository.TxRunner
	users      repository.UserRepository
	tickets    repository.TicketRepository
	projects   repository.ProjectRepository
	personnel  repository.PersonnelRepository
	history    repository.ProjectHistoryRepository
	policy     *auth.Policy
	tokens     *auth.TokenManager
	revoked    auth.RevocationStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for UserService.
type UserDependencies struct {
	DB            repository.Querier
	Tx            repository.TxRunner
	UserRepo      repository.UserRepository
	TicketRepo    repository.TicketRepository
	ProjectRepo   repository.ProjectRepository
	PersonnelRepo repository.PersonnelRepository
	HistoryRepo   repository.ProjectHistoryRepository
	Policy        *auth.Policy
	Tokens        *auth.TokenManager
	Revoked       auth.RevocationStore
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		db:         deps.DB,
		tx:         deps.Tx,
		users:      deps.UserRepo,
		tickets:    deps.TicketRepo,
		projects:   deps.ProjectRepo,
		personnel:  deps.PersonnelRepo,
		history:    deps.HistoryRepo,
		policy:     deps.Policy,
		tokens:     deps.Tokens,
		revoked:    deps.Revoked,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// UserDetail aggregates the single-user view.
type UserDetail struct {
	User     *domain.User
	Tickets  []domain.Ticket
	Projects []domain.Project
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx, s.db)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get returns a user with their tickets and assigned projects.
func (s *UserService) Get(ctx context.Context, id int64) (*UserDetail, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	tickets, err := s.tickets.List(ctx, s.db, repository.TicketFilter{CreatorID: &id, Limit: -1})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	projects, err := s.projects.ListByMember(ctx, s.db, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &UserDetail{User: user, Tickets: tickets, Projects: projects}, nil
}

// Edit applies a partial update to a user profile. Only admins may touch the
// access field, regardless of whose profile is edited. Profile edits record
// no audit table; uniqueness violations surface as conflicts.
func (s *UserService) Edit(ctx context.Context, actor *domain.User, id int64, changes update.UserChanges) (*domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanEditUser(actor, user.ID) {
		return nil, apperrors.NewForbidden("users can only edit their own profiles")
	}
	if changes.Access != nil && !s.policy.CanChangeAccess(actor) {
		return nil, apperrors.NewForbidden("only admins can edit access type")
	}

	update.ApplyUser(user, changes)
	if err := s.users.Update(ctx, s.db, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username or email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{Type: events.EventUserUpdated, EditorID: actor.ID, EntityID: user.ID})
	}
	return user, nil
}

// Delete removes a user account and revokes any outstanding tokens so the
// deleted account is logged out everywhere. Owned projects, tickets, comments
// and personnel links cascade.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanEditUser(actor, user.ID) {
		return apperrors.NewForbidden(fmt.Sprintf("no permissions to delete user %d", id))
	}

	if err := s.users.Delete(ctx, s.db, id); err != nil {
		return apperrors.MapError(err)
	}

	if s.revoked != nil {
		if err := s.revoked.Revoke(ctx, id, s.tokens.TTL()); err != nil {
			s.logger.Warn("failed to revoke tokens for deleted user",
				zap.Int64("user_id", id), zap.Error(err))
		}
	}
	return nil
}

// AssignProjects assigns the user to each listed project as one batch. The
// whole batch is validated before any link is written; each affected project
// receives its own audit row.
func (s *UserService) AssignProjects(ctx context.Context, actor *domain.User, userID int64, projectIDs []int64) error {
	return s.mutateMembership(ctx, actor, userID, projectIDs, domain.PersonnelAdded)
}

// RemoveProjects removes the user from each listed project as one batch.
func (s *UserService) RemoveProjects(ctx context.Context, actor *domain.User, userID int64, projectIDs []int64) error {
	return s.mutateMembership(ctx, actor, userID, projectIDs, domain.PersonnelRemoved)
}

func (s *UserService) mutateMembership(ctx context.Context, actor *domain.User, userID int64, projectIDs []int64, op domain.PersonnelOp) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	projects := make([]*domain.Project, 0, len(projectIDs))
	for _, projectID := range projectIDs {
		project, err := s.projects.GetByID(ctx, s.db, projectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(fmt.Sprintf("project %d", projectID), nil)
			}
			return apperrors.MapError(err)
		}
		projects = append(projects, project)
	}

	for _, project := range projects {
		if !s.policy.CanManagePersonnel(actor, project) {
			return apperrors.NewForbidden(fmt.Sprintf("no permissions to manage personnel on project %d", project.ID))
		}
	}

	for _, project := range projects {
		assigned, err := s.personnel.Exists(ctx, s.db, project.ID, user.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if op == domain.PersonnelAdded && assigned {
			return apperrors.NewConflict(fmt.Sprintf("user %d is already assigned to project %d", user.ID, project.ID), nil)
		}
		if op == domain.PersonnelRemoved && !assigned {
			return apperrors.NewConflict(fmt.Sprintf("user %d is not assigned to project %d", user.ID, project.ID), nil)
		}
	}

	err = s.tx.InTx(ctx, func(tx repository.Querier) error {
		for _, project := range projects {
			var err error
			if op == domain.PersonnelAdded {
				err = s.personnel.Assign(ctx, tx, project.ID, user.ID)
			} else {
				err = s.personnel.Remove(ctx, tx, project.ID, user.ID)
			}
			if err != nil {
				return err
			}

			snapshot := update.SnapshotProject(project)
			history := projectHistoryRow(actor.ID, project.ID, snapshot, snapshot,
				domain.EncodePersonnelChange(op, []int64{user.ID}))
			if err := s.history.Create(ctx, tx, history); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.NewConflict("duplicate personnel assignment", nil)
		}
		return apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		for _, project := range projects {
			_ = s.dispatcher.Publish(ctx, events.Event{
				Type:     events.EventPersonnelChanged,
				EditorID: actor.ID,
				EntityID: project.ID,
				Payload:  events.PersonnelChangedPayload{ProjectID: project.ID, Op: op, UserIDs: []int64{user.ID}},
			})
		}
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("user %d", id), nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
