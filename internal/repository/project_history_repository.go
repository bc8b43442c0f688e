package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// ProjectHistoryRepository stores the append-only project audit trail.
// Rows are only ever inserted; cascade deletes with the parent project are the
// single way they disappear.
type ProjectHistoryRepository interface {
	Create(ctx context.Context, db Querier, history *domain.ProjectUpdateHistory) error
	ListByProject(ctx context.Context, db Querier, projectID int64) ([]domain.ProjectUpdateHistory, error)
}

type projectHistoryRepository struct{}

// NewProjectHistoryRepository builds repository.
func NewProjectHistoryRepository() ProjectHistoryRepository {
	return &projectHistoryRepository{}
}

func (r *projectHistoryRepository) Create(ctx context.Context, db Querier, history *domain.ProjectUpdateHistory) error {
	const query = `
        INSERT INTO project_updates (editor_id, project_id,
            old_name, old_description, old_start, old_deadline, old_status,
            new_name, new_description, new_start, new_deadline, new_status,
            personnel_change)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, updated_at`

	return db.QueryRow(ctx, query,
		history.EditorID,
		history.ProjectID,
		history.OldName,
		history.OldDescription,
		history.OldStart,
		history.OldDeadline,
		history.OldStatus,
		history.NewName,
		history.NewDescription,
		history.NewStart,
		history.NewDeadline,
		history.NewStatus,
		history.PersonnelChange,
	).Scan(&history.ID, &history.UpdatedAt)
}

func (r *projectHistoryRepository) ListByProject(ctx context.Context, db Querier, projectID int64) ([]domain.ProjectUpdateHistory, error) {
	const query = `
        SELECT h.id, h.updated_at, h.editor_id, h.project_id,
               h.old_name, h.old_description, h.old_start, h.old_deadline, h.old_status,
               h.new_name, h.new_description, h.new_start, h.new_deadline, h.new_status,
               h.personnel_change,
               u.id, u.username, u.email, u.password_hash, u.name, u.surname, u.access, u.created_at
        FROM project_updates h
        JOIN users u ON u.id = h.editor_id
        WHERE h.project_id=$1 ORDER BY h.id`

	rows, err := db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProjectUpdateHistory
	for rows.Next() {
		entry, err := scanProjectHistoryRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func scanProjectHistoryRow(row pgx.Row) (*domain.ProjectUpdateHistory, error) {
	var history domain.ProjectUpdateHistory
	var editor domain.User
	if err := row.Scan(
		&history.ID,
		&history.UpdatedAt,
		&history.EditorID,
		&history.ProjectID,
		&history.OldName,
		&history.OldDescription,
		&history.OldStart,
		&history.OldDeadline,
		&history.OldStatus,
		&history.NewName,
		&history.NewDescription,
		&history.NewStart,
		&history.NewDeadline,
		&history.NewStatus,
		&history.PersonnelChange,
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
