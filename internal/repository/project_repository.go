package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// ProjectFilter captures list parameters for projects.
type ProjectFilter struct {
	Status     string
	SearchTerm string
	Limit      int
}

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, db Querier, project *domain.Project) error
	Update(ctx context.Context, db Querier, project *domain.Project) error
	Delete(ctx context.Context, db Querier, id int64) error
	GetByID(ctx context.Context, db Querier, id int64) (*domain.Project, error)
	List(ctx context.Context, db Querier, filter ProjectFilter) ([]domain.Project, error)
	ListByMember(ctx context.Context, db Querier, userID int64) ([]domain.Project, error)
}

type projectRepository struct{}

// NewProjectRepository instantiates repository.
func NewProjectRepository() ProjectRepository {
	return &projectRepository{}
}

const projectSelect = `
        SELECT p.id, p.name, p.description, p.start, p.deadline, p.status, p.created_at, p.creator_id,
               u.id, u.username, u.email, u.password_hash, u.name, u.surname, u.access, u.created_at
        FROM projects p
        JOIN users u ON u.id = p.creator_id`

func (r *projectRepository) Create(ctx context.Context, db Querier, project *domain.Project) error {
	const query = `
        INSERT INTO projects (name, description, start, deadline, status, creator_id)
        VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'ongoing'), $6)
        RETURNING id, status, created_at`

	return db.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.Start,
		project.Deadline,
		project.Status,
		project.CreatorID,
	).Scan(&project.ID, &project.Status, &project.CreatedAt)
}

func (r *projectRepository) Update(ctx context.Context, db Querier, project *domain.Project) error {
	const query = `
        UPDATE projects SET name=$1, description=$2, start=$3, deadline=$4, status=$5
        WHERE id=$6`

	cmd, err := db.Exec(ctx, query,
		project.Name,
		project.Description,
		project.Start,
		project.Deadline,
		project.Status,
		project.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, db Querier, id int64) error {
	cmd, err := db.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, db Querier, id int64) (*domain.Project, error) {
	row := db.QueryRow(ctx, projectSelect+` WHERE p.id=$1`, id)
	project, err := scanProjectRow(row)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) List(ctx context.Context, db Querier, filter ProjectFilter) ([]domain.Project, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("p.status=$%d", len(args)))
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		// single OR query: the union across both fields is de-duplicated and
		// ordered by id without a client-side merge
		clauses = append(clauses, fmt.Sprintf("(LOWER(p.name) LIKE %s OR LOWER(p.description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY p.id LIMIT %d", projectSelect, strings.Join(clauses, " AND "), limit)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *projectRepository) ListByMember(ctx context.Context, db Querier, userID int64) ([]domain.Project, error) {
	query := projectSelect + `
        JOIN personnel pe ON pe.project_id = p.id
        WHERE pe.user_id=$1 ORDER BY p.id`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProjectRow(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	var creator domain.User
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Start,
		&project.Deadline,
		&project.Status,
		&project.CreatedAt,
		&project.CreatorID,
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
	project.Creator = &creator
	return &project, nil
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var result []domain.Project
	for rows.Next() {
		project, err := scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *project)
	}
	return result, rows.Err()
}
