package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/events"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	db         repository.Querier
	tx         repository.TxRunner
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	history    repository.TicketHistoryRepository
	policy     *auth.Policy
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for TicketService.
type TicketDependencies struct {
	DB          repository.Querier
	Tx          repository.TxRunner
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	HistoryRepo repository.TicketHistoryRepository
	Policy      *auth.Policy
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		db:         deps.DB,
		tx:         deps.Tx,
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		history:    deps.HistoryRepo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
	}
}

// TicketDetail aggregates the single-ticket view.
type TicketDetail struct {
	Ticket   *domain.Ticket
	Comments []domain.Comment
	History  []domain.TicketUpdateHistory
}

// List returns tickets matching the filter.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, s.db, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Get returns a ticket with its comments and update history.
func (s *TicketService) Get(ctx context.Context, id int64) (*TicketDetail, error) {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTicket(ctx, s.db, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	history, err := s.history.ListByTicket(ctx, s.db, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &TicketDetail{Ticket: ticket, Comments: comments, History: history}, nil
}

// Edit applies a partial update to the ticket and records the audit row, both
// inside one transaction.
func (s *TicketService) Edit(ctx context.Context, actor *domain.User, id int64, changes update.TicketChanges) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(actor, ticket.CreatorID) {
		return nil, apperrors.NewForbidden("users can only edit their own tickets")
	}

	old, updated := update.ApplyTicket(ticket, changes)
	history := &domain.TicketUpdateHistory{
		EditorID: actor.ID,
		TicketID: ticket.ID,

		OldCaption:     old.Caption,
		OldDescription: old.Description,
		OldPriority:    old.Priority,
		OldStatus:      old.Status,
		OldCategory:    old.Category,

		NewCaption:     updated.Caption,
		NewDescription: updated.Description,
		NewPriority:    updated.Priority,
		NewStatus:      updated.Status,
		NewCategory:    updated.Category,
	}

	err = s.tx.InTx(ctx, func(tx repository.Querier) error {
		if err := s.tickets.Update(ctx, tx, ticket); err != nil {
			return err
		}
		return s.history.Create(ctx, tx, history)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{Type: events.EventTicketUpdated, EditorID: actor.ID, EntityID: ticket.ID})
	}
	return ticket, nil
}

// Delete removes a ticket; comments and history rows cascade.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModify(actor, ticket.CreatorID) {
		return apperrors.NewForbidden("not authorized")
	}
	if err := s.tickets.Delete(ctx, s.db, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Comment appends a comment to the ticket.
func (s *TicketService) Comment(ctx context.Context, actor *domain.User, ticketID int64, body string) (*domain.Comment, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body_text required", nil)
	}

	comment := &domain.Comment{
		BodyText:  body,
		CreatorID: actor.ID,
		TicketID:  ticket.ID,
	}
	if err := s.comments.Create(ctx, s.db, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	comment.Creator = actor
	return comment, nil
}

func (s *TicketService) getTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("ticket %d", id), nil)
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}
