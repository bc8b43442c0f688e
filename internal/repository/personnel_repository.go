package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// PersonnelRepository manages project membership links.
type PersonnelRepository interface {
	Assign(ctx context.Context, db Querier, projectID, userID int64) error
	Remove(ctx context.Context, db Querier, projectID, userID int64) error
	Exists(ctx context.Context, db Querier, projectID, userID int64) (bool, error)
	ListUsersByProject(ctx context.Context, db Querier, projectID int64) ([]domain.User, error)
}

type personnelRepository struct{}

// NewPersonnelRepository instantiates repository.
func NewPersonnelRepository() PersonnelRepository {
	return &personnelRepository{}
}

func (r *personnelRepository) Assign(ctx context.Context, db Querier, projectID, userID int64) error {
	_, err := db.Exec(ctx, `INSERT INTO personnel (project_id, user_id) VALUES ($1, $2)`, projectID, userID)
	return err
}

func (r *personnelRepository) Remove(ctx context.Context, db Querier, projectID, userID int64) error {
	cmd, err := db.Exec(ctx, `DELETE FROM personnel WHERE project_id=$1 AND user_id=$2`, projectID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *personnelRepository) Exists(ctx context.Context, db Querier, projectID, userID int64) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM personnel WHERE project_id=$1 AND user_id=$2)`,
		projectID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *personnelRepository) ListUsersByProject(ctx context.Context, db Querier, projectID int64) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.username, u.email, u.password_hash, u.name, u.surname, u.access, u.created_at
        FROM users u
        JOIN personnel pe ON pe.user_id = u.id
        WHERE pe.project_id=$1 ORDER BY u.id`

	rows, err := db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}
