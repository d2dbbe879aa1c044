package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"messagely/internal/domain"
	messagely_errors "messagely/pkg/errors"
)

type PostgresMessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, sent_at`

	err := r.db.QueryRowContext(ctx, query, m.FromUsername, m.ToUsername, m.Body).Scan(&m.ID, &m.SentAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("recipient %q: %w", m.ToUsername, messagely_errors.ErrNotFound)
		}
		return fmt.Errorf("db error: %w", err)
	}
	m.ReadAt = nil
	return nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id int64) (domain.MessageDetail, error) {
	query := `SELECT m.id, m.body, m.sent_at, m.read_at,
			f.username, f.first_name, f.last_name, f.phone,
			t.username, t.first_name, t.last_name, t.phone
		FROM messages AS m
			JOIN users AS f ON m.from_username = f.username
			JOIN users AS t ON m.to_username = t.username
		WHERE m.id = $1`

	var (
		d      domain.MessageDetail
		readAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Body, &d.SentAt, &readAt,
		&d.FromUser.Username, &d.FromUser.FirstName, &d.FromUser.LastName, &d.FromUser.Phone,
		&d.ToUser.Username, &d.ToUser.FirstName, &d.ToUser.LastName, &d.ToUser.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MessageDetail{}, messagely_errors.ErrNotFound
		}
		return domain.MessageDetail{}, fmt.Errorf("db error: %w", err)
	}
	d.ReadAt = nullTimePtr(readAt)
	return d, nil
}

// MarkRead sets read_at once; later calls return the original value.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, id int64) (time.Time, error) {
	query := `UPDATE messages SET read_at = COALESCE(read_at, CURRENT_TIMESTAMP)
		WHERE id = $1
		RETURNING read_at`

	var readAt time.Time
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&readAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, messagely_errors.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return readAt, nil
}

func (r *PostgresMessageRepository) GetFromUser(ctx context.Context, username string) ([]domain.SentMessage, error) {
	query := `SELECT id, to_username, body, sent_at, read_at
		FROM messages
		WHERE from_username = $1`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.SentMessage, 0)
	for rows.Next() {
		var (
			m      domain.SentMessage
			readAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.ToUsername, &m.Body, &m.SentAt, &readAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.ReadAt = nullTimePtr(readAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return messages, nil
}

func (r *PostgresMessageRepository) GetToUser(ctx context.Context, username string) ([]domain.ReceivedMessage, error) {
	query := `SELECT id, from_username, body, sent_at, read_at
		FROM messages
		WHERE to_username = $1`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.ReceivedMessage, 0)
	for rows.Next() {
		var (
			m      domain.ReceivedMessage
			readAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.FromUsername, &m.Body, &m.SentAt, &readAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.ReadAt = nullTimePtr(readAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return messages, nil
}
