package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, db Querier, comment *domain.Comment) error
	Update(ctx context.Context, db Querier, comment *domain.Comment) error
	Delete(ctx context.Context, db Querier, id int64) error
	GetByID(ctx context.Context, db Querier, id int64) (*domain.Comment, error)
	List(ctx context.Context, db Querier) ([]domain.Comment, error)
	ListByTicket(ctx context.Context, db Querier, ticketID int64) ([]domain.Comment, error)
}

type commentRepository struct{}

// NewCommentRepository instantiates repository.
func NewCommentRepository() CommentRepository {
	return &commentRepository{}
}

const commentSelect = `
        SELECT c.id, c.body_text, c.created_at, c.creator_id, c.ticket_id,
               u.id, u.username, u.email, u.password_hash, u.name, u.surname, u.access, u.created_at
        FROM comments c
        JOIN users u ON u.id = c.creator_id`

func (r *commentRepository) Create(ctx context.Context, db Querier, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (body_text, creator_id, ticket_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return db.QueryRow(ctx, query,
		comment.BodyText,
		comment.CreatorID,
		comment.TicketID,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) Update(ctx context.Context, db Querier, comment *domain.Comment) error {
	cmd, err := db.Exec(ctx, `UPDATE comments SET body_text=$1 WHERE id=$2`, comment.BodyText, comment.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, db Querier, id int64) error {
	cmd, err := db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, db Querier, id int64) (*domain.Comment, error) {
	row := db.QueryRow(ctx, commentSelect+` WHERE c.id=$1`, id)
	return scanCommentRow(row)
}

func (r *commentRepository) List(ctx context.Context, db Querier) ([]domain.Comment, error) {
	return r.listWhere(ctx, db, commentSelect+` ORDER BY c.id`)
}

func (r *commentRepository) ListByTicket(ctx context.Context, db Querier, ticketID int64) ([]domain.Comment, error) {
	return r.listWhere(ctx, db, commentSelect+` WHERE c.ticket_id=$1 ORDER BY c.id`, ticketID)
}

func (r *commentRepository) listWhere(ctx context.Context, db Querier, query string, args ...any) ([]domain.Comment, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		comment, err := scanCommentRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *comment)
	}
	return result, rows.Err()
}

func scanCommentRow(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	var creator domain.User
	if err := row.Scan(
		&comment.ID,
		&comment.BodyText,
		&comment.CreatedAt,
		&comment.CreatorID,
		&comment.TicketID,
		&creator.ID,
		&creator.Username,
		&creator.Email,
		&creator.PasswordHash,
		&creator.Name,
		&creator.Surname,
		&creator.Access,
		&creator.CreatedAt,
	); err != nil {
		return nil, err
	}
	comment.Creator = &creator
	return &comment, nil
}
