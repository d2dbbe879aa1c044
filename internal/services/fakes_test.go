package services

import (
	"context"
	"sync"
	"time"

	"messagely/internal/domain"
	messagely_errors "messagely/pkg/errors"
)

// fakeClock hands out strictly increasing timestamps, one second apart.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeUserRepo struct {
	mu      sync.Mutex
	clock   *fakeClock
	users   map[string]domain.User
	order   []string
	updates []string

	hashErr   error
	updateErr error

	// onGet runs once, outside the lock, after the next GetByUsername read.
	onGet func()
}

func newFakeUserRepo(clock *fakeClock) *fakeUserRepo {
	return &fakeUserRepo{clock: clock, users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Username]; ok {
		return &messagely_errors.ConflictError{Field: "username", Value: u.Username}
	}
	now := f.clock.tick()
	u.JoinAt, u.LastLoginAt = now, now
	f.users[u.Username] = *u
	f.order = append(f.order, u.Username)
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	u, ok := f.users[username]
	hook := f.onGet
	f.onGet = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return domain.User{}, messagely_errors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetPasswordHash(ctx context.Context, username string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	u, err := f.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return u.Password, nil
}

func (f *fakeUserRepo) GetAll(ctx context.Context) ([]domain.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.UserSummary, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.users[name].Summary())
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, username string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, username)
	if u, ok := f.users[username]; ok {
		u.LastLoginAt = f.clock.tick()
		f.users[username] = u
	}
	return nil
}

func (f *fakeUserRepo) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func (f *fakeUserRepo) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	clock    *fakeClock
	users    *fakeUserRepo
	messages []domain.Message
}

func newFakeMessageRepo(clock *fakeClock, users *fakeUserRepo) *fakeMessageRepo {
	return &fakeMessageRepo{clock: clock, users: users}
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	for _, name := range []string{m.FromUsername, m.ToUsername} {
		if _, err := f.users.GetByUsername(ctx, name); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = int64(len(f.messages) + 1)
	m.SentAt = f.clock.tick()
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, id int64) (domain.MessageDetail, error) {
	f.mu.Lock()
	if id < 1 || int(id) > len(f.messages) {
		f.mu.Unlock()
		return domain.MessageDetail{}, messagely_errors.ErrNotFound
	}
	m := f.messages[id-1]
	f.mu.Unlock()

	from, _ := f.users.GetByUsername(ctx, m.FromUsername)
	to, _ := f.users.GetByUsername(ctx, m.ToUsername)
	return domain.MessageDetail{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		ReadAt:   m.ReadAt,
		FromUser: from.Summary(),
		ToUser:   to.Summary(),
	}, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, id int64) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id < 1 || int(id) > len(f.messages) {
		return time.Time{}, messagely_errors.ErrNotFound
	}
	m := &f.messages[id-1]
	if m.ReadAt == nil {
		now := f.clock.tick()
		m.ReadAt = &now
	}
	return *m.ReadAt, nil
}

func (f *fakeMessageRepo) GetFromUser(ctx context.Context, username string) ([]domain.SentMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SentMessage, 0)
	for _, m := range f.messages {
		if m.FromUsername == username {
			out = append(out, domain.SentMessage{ID: m.ID, ToUsername: m.ToUsername, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) GetToUser(ctx context.Context, username string) ([]domain.ReceivedMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ReceivedMessage, 0)
	for _, m := range f.messages {
		if m.ToUsername == username {
			out = append(out, domain.ReceivedMessage{ID: m.ID, FromUsername: m.FromUsername, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
		}
	}
	return out, nil
}

type fakeCache struct {
	mu          sync.Mutex
	users       map[string]domain.User
	invalidated []string
	readErr     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{users: map[string]domain.User{}}
}

func (c *fakeCache) GetUser(ctx context.Context, username string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	u, ok := c.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *fakeCache) AddUser(ctx context.Context, u domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.users[u.Username]; !ok {
		c.users[u.Username] = u
	}
	return nil
}

func (c *fakeCache) SetUser(ctx context.Context, u domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.Username] = u
	return nil
}

func (c *fakeCache) cached(username string) (domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[username]
	return u, ok
}

func (c *fakeCache) InvalidateUser(ctx context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, username)
	c.invalidated = append(c.invalidated, username)
	return nil
}
