package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/update"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// CommentService coordinates comment workflows.
type CommentService struct {
	db       repository.Querier
	comments repository.CommentRepository
	tickets  repository.TicketRepository
	policy   *auth.Policy
}

// CommentDependencies bundles collaborators for CommentService.
type CommentDependencies struct {
	DB          repository.Querier
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	Policy      *auth.Policy
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		db:       deps.DB,
		comments: deps.CommentRepo,
		tickets:  deps.TicketRepo,
		policy:   deps.Policy,
	}
}

// CommentDetail aggregates the single-comment view.
type CommentDetail struct {
	Comment *domain.Comment
	Ticket  *domain.Ticket
}

// List returns every comment.
func (s *CommentService) List(ctx context.Context) ([]domain.Comment, error) {
	comments, err := s.comments.List(ctx, s.db)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Get returns a comment together with its ticket.
func (s *CommentService) Get(ctx context.Context, id int64) (*CommentDetail, error) {
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, s.db, comment.TicketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &CommentDetail{Comment: comment, Ticket: ticket}, nil
}

// Edit applies a partial update to the comment. Comment edits run through the
// same engine as projects and tickets but record no history row, matching the
// source system's asymmetry.
func (s *CommentService) Edit(ctx context.Context, actor *domain.User, id int64, changes update.CommentChanges) (*domain.Comment, error) {
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(actor, comment.CreatorID) {
		return nil, apperrors.NewForbidden("users can only edit their own comments")
	}

	update.ApplyComment(comment, changes)
	if err := s.comments.Update(ctx, s.db, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModify(actor, comment.CreatorID) {
		return apperrors.NewForbidden("not authorized")
	}
	if err := s.comments.Delete(ctx, s.db, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CommentService) getComment(ctx context.Context, id int64) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("comment %d", id), nil)
		}
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}
