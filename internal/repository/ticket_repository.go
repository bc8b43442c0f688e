package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// TicketFilter captures list parameters for tickets.
type TicketFilter struct {
	ProjectID  *int64
	CreatorID  *int64
	Priority   *int
	Category   string
	Status     string
	SearchTerm string
	Limit      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, db Querier, ticket *domain.Ticket) error
	Update(ctx context.Context, db Querier, ticket *domain.Ticket) error
	Delete(ctx context.Context, db Querier, id int64) error
	GetByID(ctx context.Context, db Querier, id int64) (*domain.Ticket, error)
	List(ctx context.Context, db Querier, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct{}

// NewTicketRepository instantiates repository.
func NewTicketRepository() TicketRepository {
	return &ticketRepository{}
}

// Tickets embed their creator and project (with the project's own creator)
// the way the API responses nest them.
const ticketSelect = `
        SELECT t.id, t.caption, t.description, t.priority, t.status, t.category, t.created_at, t.creator_id, t.project_id,
               tc.id, tc.username, tc.email, tc.password_hash, tc.name, tc.surname, tc.access, tc.created_at,
               p.id, p.name, p.description, p.start, p.deadline, p.status, p.created_at, p.creator_id,
               pc.id, pc.username, pc.email, pc.password_hash, pc.name, pc.surname, pc.access, pc.created_at
        FROM tickets t
        JOIN users tc ON tc.id = t.creator_id
        JOIN projects p ON p.id = t.project_id
        JOIN users pc ON pc.id = p.creator_id`

func (r *ticketRepository) Create(ctx context.Context, db Querier, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (caption, description, priority, status, category, creator_id, project_id)
        VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'new'), $5, $6, $7)
        RETURNING id, status, created_at`

	return db.QueryRow(ctx, query,
		ticket.Caption,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.Category,
		ticket.CreatorID,
		ticket.ProjectID,
	).Scan(&ticket.ID, &ticket.Status, &ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, db Querier, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET caption=$1, description=$2, priority=$3, status=$4, category=$5
        WHERE id=$6`

	cmd, err := db.Exec(ctx, query,
		ticket.Caption,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.Category,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, db Querier, id int64) error {
	cmd, err := db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, db Querier, id int64) (*domain.Ticket, error) {
	row := db.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id)
	return scanTicketRow(row)
}

func (r *ticketRepository) List(ctx context.Context, db Querier, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		clauses = append(clauses, fmt.Sprintf("t.project_id=$%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("t.creator_id=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("t.category=$%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(t.caption) LIKE %s OR LOWER(t.description) LIKE %s)", placeholder, placeholder))
	}

	// Limit 0 falls back to the default page; negative means unbounded
	// (used when embedding a project's full ticket list).
	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY t.id", ticketSelect, strings.Join(clauses, " AND "))
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var creator, projectCreator domain.User
	var project domain.Project
	if err := row.Scan(
		&ticket.ID,
		&ticket.Caption,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Category,
		&ticket.CreatedAt,
		&ticket.CreatorID,
		&ticket.ProjectID,
		&creator.ID,
		&creator.Username,
		&creator.Email,
		&creator.PasswordHash,
		&creator.Name,
		&creator.Surname,
		&creator.Access,
		&creator.CreatedAt,
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Start,
		&project.Deadline,
		&project.Status,
		&project.CreatedAt,
		&project.CreatorID,
		&projectCreator.ID,
		&projectCreator.Username,
		&projectCreator.Email,
		&projectCreator.PasswordHash,
		&projectCreator.Name,
		&projectCreator.Surname,
		&projectCreator.Access,
		&projectCreator.CreatedAt,
	); err != nil {
		return nil, err
	}
	project.Creator = &projectCreator
	ticket.Creator = &creator
	ticket.Project = &project
	return &ticket, nil
}
