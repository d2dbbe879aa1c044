package services

import (
	"context"

	"messagely/internal/domain"
	"messagely/internal/repository"
	"messagely/pkg/logger"

	"go.uber.org/zap"
)

// ProfileCache is an optional read-through cache for full user profiles.
// GetUser returns nil, nil on a miss. AddUser stores u only when no entry
// exists, so a slow reader cannot replace a profile written by SetUser.
type ProfileCache interface {
	GetUser(ctx context.Context, username string) (*domain.User, error)
	AddUser(ctx context.Context, u domain.User) error
	SetUser(ctx context.Context, u domain.User) error
	InvalidateUser(ctx context.Context, username string) error
}

type UserService struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	cache    ProfileCache
	logger   *logger.Logger
}

// NewUserService creates a user service. cache may be nil.
func NewUserService(users repository.UserRepository, messages repository.MessageRepository, cache ProfileCache, l *logger.Logger) *UserService {
	if l == nil {
		l = logger.NewNop()
	}
	return &UserService{users: users, messages: messages, cache: cache, logger: l}
}

// All lists every user without passwords or timestamps, in store order.
func (s *UserService) All(ctx context.Context) ([]domain.UserSummary, error) {
	return s.users.GetAll(ctx)
}

// Get returns the full profile, or messagely_errors.ErrNotFound.
func (s *UserService) Get(ctx context.Context, username string) (domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, username)
		if err != nil {
			s.logger.ErrorCtx(ctx, "profile cache read failed", zap.String("username", username), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}

	if s.cache != nil {
		if err := s.cache.AddUser(ctx, u); err != nil {
			s.logger.ErrorCtx(ctx, "profile cache write failed", zap.String("username", username), zap.Error(err))
		}
	}
	return u, nil
}

// MessagesFrom lists messages sent by username.
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]domain.SentMessage, error) {
	return s.messages.GetFromUser(ctx, username)
}

// MessagesTo lists messages received by username.
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]domain.ReceivedMessage, error) {
	return s.messages.GetToUser(ctx, username)
}
