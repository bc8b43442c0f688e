package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// TicketHistoryRepository stores the append-only ticket audit trail.
type TicketHistoryRepository interface {
	Create(ctx context.Context, db Querier, history *domain.TicketUpdateHistory) error
	ListByTicket(ctx context.Context, db Querier, ticketID int64) ([]domain.TicketUpdateHistory, error)
}

type ticketHistoryRepository struct{}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository() TicketHistoryRepository {
	return &ticketHistoryRepository{}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, db Querier, history *domain.TicketUpdateHistory) error {
	const query = `
        INSERT INTO ticket_updates (editor_id, ticket_id,
            old_caption, old_description, old_priority, old_status, old_category,
            new_caption, new_description, new_priority, new_status, new_category)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, updated_at`

	return db.QueryRow(ctx, query,
		history.EditorID,
		history.TicketID,
		history.OldCaption,
		history.OldDescription,
		history.OldPriority,
		history.OldStatus,
		history.OldCategory,
		history.NewCaption,
		history.NewDescription,
		history.NewPriority,
		history.NewStatus,
		history.NewCategory,
	).Scan(&history.ID, &history.UpdatedAt)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, db Querier, ticketID int64) ([]domain.TicketUpdateHistory, error) {
	const query = `
        SELECT h.id, h.updated_at, h.editor_id, h.ticket_id,
               h.old_caption, h.old_description, h.old_priority, h.old_status, h.old_category,
               h.new_caption, h.new_description, h.new_priority, h.new_status, h.new_category,
               u.id, u.username, u.email, u.password_hash, u.name, u.surname, u.access, u.created_at
        FROM ticket_updates h
        JOIN users u ON u.id = h.editor_id
        WHERE h.ticket_id=$1 ORDER BY h.id`

	rows, err := db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketUpdateHistory
	for rows.Next() {
		entry, err := scanTicketHistoryRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func scanTicketHistoryRow(row pgx.Row) (*domain.TicketUpdateHistory, error) {
	var history domain.TicketUpdateHistory
	var editor domain.User
	if err := row.Scan(
		&history.ID,
		&history.UpdatedAt,
		&history.EditorID,
		&history.TicketID,
		&history.OldCaption,
		&history.OldDescription,
		&history.OldPriority,
		&history.OldStatus,
		&history.OldCategory,
		&history.NewCaption,
		&history.NewDescription,
		&history.NewPriority,
		&history.NewStatus,
		&history.NewCategory,
		&editor.ID,
		&editor.Username,
		&editor.Email,
		&editor.PasswordHash,
		&editor.Name,
		&editor.Surname,
		&editor.Access,
		&editor.CreatedAt,
	); err != nil {
		return nil, err
	}
	history.Editor = &editor
	return &history, nil
}
