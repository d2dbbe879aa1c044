package repository

import (
	"context"
	"time"

	"messagely/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetPasswordHash(ctx context.Context, username string) (string, error)
	GetAll(ctx context.Context) ([]domain.UserSummary, error)
	UpdateLastLogin(ctx context.Context, username string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	GetByID(ctx context.Context, id int64) (domain.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (time.Time, error)
	GetFromUser(ctx context.Context, username string) ([]domain.SentMessage, error)
	GetToUser(ctx context.Context, username string) ([]domain.ReceivedMessage, error)
}
