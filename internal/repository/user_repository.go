package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, db Querier, user *domain.User) error
	Update(ctx context.Context, db Querier, user *domain.User) error
	Delete(ctx context.Context, db Querier, id int64) error
	GetByID(ctx context.Context, db Querier, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, db Querier, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, db Querier, email string) (*domain.User, error)
	List(ctx context.Context, db Querier) ([]domain.User, error)
}

type userRepository struct{}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

const userColumns = `id, username, email, password_hash, name, surname, access, created_at`

func (r *userRepository) Create(ctx context.Context, db Querier, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password_hash, name, surname, access)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Surname,
		user.Access,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) Update(ctx context.Context, db Querier, user *domain.User) error {
	const query = `
        UPDATE users SET username=$1, email=$2, password_hash=$3, name=$4, surname=$5, access=$6
        WHERE id=$7`

	cmd, err := db.Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Surname,
		user.Access,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, db Querier, id int64) error {
	cmd, err := db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, db Querier, id int64) (*domain.User, error) {
	return r.fetchSingle(ctx, db, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, db Querier, username string) (*domain.User, error) {
	return r.fetchSingle(ctx, db, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
}

func (r *userRepository) GetByEmail(ctx context.Context, db Querier, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, db, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, db Querier, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Surname,
		&user.Access,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, db Querier) ([]domain.User, error) {
	rows, err := db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&user.Surname,
			&user.Access,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
