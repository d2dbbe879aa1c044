package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messagely/internal/domain"
	messagely_errors "messagely/pkg/errors"
)

type PostgresUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts u and fills in the store-assigned timestamps. join_at and
// last_login_at come from the same CURRENT_TIMESTAMP so they are equal.
func (r *PostgresUserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING join_at, last_login_at`

	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Password, u.FirstName, u.LastName, u.Phone).Scan(&u.JoinAt, &u.LastLoginAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &messagely_errors.ConflictError{Field: "username", Value: u.Username}
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	query := `SELECT username, password, first_name, last_name, phone, join_at, last_login_at
		FROM users
		WHERE username = $1`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&u.Username, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.JoinAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, messagely_errors.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetPasswordHash(ctx context.Context, username string) (string, error) {
	query := `SELECT password FROM users WHERE username = $1`

	var hash string
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", messagely_errors.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return hash, nil
}

// GetAll returns users in store order.
func (r *PostgresUserRepository) GetAll(ctx context.Context) ([]domain.UserSummary, error) {
	query := `SELECT username, first_name, last_name, phone FROM users`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := make([]domain.UserSummary, 0)
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

// UpdateLastLogin touches last_login_at. Unknown usernames update zero rows
// and are not an error.
func (r *PostgresUserRepository) UpdateLastLogin(ctx context.Context, username string) error {
	query := `UPDATE users SET last_login_at = CURRENT_TIMESTAMP WHERE username = $1`

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
