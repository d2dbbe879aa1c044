package handler

import (
	"context"
	"sync"
	"time"

	"messagely/internal/domain"
	messagely_errors "messagely/pkg/errors"
)

// memStore backs both repositories for handler tests.
type memStore struct {
	mu       sync.Mutex
	now      time.Time
	users    map[string]domain.User
	order    []string
	messages []domain.Message
}

func newMemStore() *memStore {
	return &memStore{
		now:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users: map[string]domain.User{},
	}
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Username]; ok {
		return &messagely_errors.ConflictError{Field: "username", Value: u.Username}
	}
	now := r.s.tick()
	u.JoinAt, u.LastLoginAt = now, now
	r.s.users[u.Username] = *u
	r.s.order = append(r.s.order, u.Username)
	return nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[username]
	if !ok {
		return domain.User{}, messagely_errors.ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetPasswordHash(ctx context.Context, username string) (string, error) {
	u, err := r.GetByUsername(ctx, username)
	return u.Password, err
}

func (r memUsers) GetAll(ctx context.Context) ([]domain.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.UserSummary, 0, len(r.s.order))
	for _, name := range r.s.order {
		out = append(out, r.s.users[name].Summary())
	}
	return out, nil
}

func (r memUsers) UpdateLastLogin(ctx context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[username]; ok {
		u.LastLoginAt = r.s.tick()
		r.s.users[username] = u
	}
	return nil
}

type memMessages struct{ s *memStore }

func (r memMessages) Create(ctx context.Context, m *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[m.ToUsername]; !ok {
		return messagely_errors.ErrNotFound
	}
	m.ID = int64(len(r.s.messages) + 1)
	m.SentAt = r.s.tick()
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r memMessages) GetByID(ctx context.Context, id int64) (domain.MessageDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id < 1 || int(id) > len(r.s.messages) {
		return domain.MessageDetail{}, messagely_errors.ErrNotFound
	}
	m := r.s.messages[id-1]
	return domain.MessageDetail{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		ReadAt:   m.ReadAt,
		FromUser: r.s.users[m.FromUsername].Summary(),
		ToUser:   r.s.users[m.ToUsername].Summary(),
	}, nil
}

func (r memMessages) MarkRead(ctx context.Context, id int64) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id < 1 || int(id) > len(r.s.messages) {
		return time.Time{}, messagely_errors.ErrNotFound
	}
	m := &r.s.messages[id-1]
	if m.ReadAt == nil {
		now := r.s.tick()
		m.ReadAt = &now
	}
	return *m.ReadAt, nil
}

func (r memMessages) GetFromUser(ctx context.Context, username string) ([]domain.SentMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.SentMessage{}
	for _, m := range r.s.messages {
		if m.FromUsername == username {
			out = append(out, domain.SentMessage{ID: m.ID, ToUsername: m.ToUsername, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
		}
	}
	return out, nil
}

func (r memMessages) GetToUser(ctx context.Context, username string) ([]domain.ReceivedMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.ReceivedMessage{}
	for _, m := range r.s.messages {
		if m.ToUsername == username {
			out = append(out, domain.ReceivedMessage{ID: m.ID, FromUsername: m.FromUsername, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
		}
	}
	return out, nil
}
