package services

import (
	"context"
	"strings"
	"time"

	"messagely/internal/domain"
	"messagely/internal/repository"
	messagely_errors "messagely/pkg/errors"
)

type MessageService struct {
	repo repository.MessageRepository
}

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

type ReadReceipt struct {
	ID     int64     `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

// Send stores a message from one user to another. An unknown recipient
// yields messagely_errors.ErrNotFound.
func (s *MessageService) Send(ctx context.Context, from, to, body string) (domain.Message, error) {
	if from == "" || to == "" || strings.TrimSpace(body) == "" {
		return domain.Message{}, messagely_errors.NewValidationError("to_username and body are required")
	}

	m := domain.Message{FromUsername: from, ToUsername: to, Body: body}
	if err := s.repo.Create(ctx, &m); err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

// Get returns a message to its sender or recipient.
func (s *MessageService) Get(ctx context.Context, actor string, id int64) (domain.MessageDetail, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.MessageDetail{}, err
	}
	if !msg.IsParticipant(actor) {
		return domain.MessageDetail{}, messagely_errors.ErrUnauthorized
	}
	return msg, nil
}

// MarkRead stamps read_at. Only the recipient may do this.
func (s *MessageService) MarkRead(ctx context.Context, actor string, id int64) (ReadReceipt, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ReadReceipt{}, err
	}
	if msg.ToUser.Username != actor {
		return ReadReceipt{}, messagely_errors.ErrUnauthorized
	}

	readAt, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return ReadReceipt{}, err
	}
	return ReadReceipt{ID: id, ReadAt: readAt}, nil
}
