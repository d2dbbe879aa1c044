package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"messagely/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// Profiles are cached under user:{username}.

type CacheConfig struct {
	UserTTL time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{UserTTL: 5 * time.Minute}
}

// CacheStore caches user profiles in Redis.
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

// cachedUser is the stored form of a profile. The password hash is never cached.
type cachedUser struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// GetUser retrieves a user from cache. A miss returns nil, nil.
func (c *CacheStore) GetUser(ctx context.Context, username string) (*domain.User, error) {
	data, err := c.client.Get(ctx, userKey(username)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		return nil, err
	}
	return &domain.User{
		Username:    cu.Username,
		FirstName:   cu.FirstName,
		LastName:    cu.LastName,
		Phone:       cu.Phone,
		JoinAt:      cu.JoinAt,
		LastLoginAt: cu.LastLoginAt,
	}, nil
}

// SetUser stores a user in cache, replacing any existing entry.
func (c *CacheStore) SetUser(ctx context.Context, u domain.User) error {
	data, err := encodeUser(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userKey(u.Username), data, c.config.UserTTL).Err()
}

// AddUser stores a user in cache unless an entry already exists.
func (c *CacheStore) AddUser(ctx context.Context, u domain.User) error {
	data, err := encodeUser(u)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, userKey(u.Username), data, c.config.UserTTL).Err()
}

func encodeUser(u domain.User) ([]byte, error) {
	return json.Marshal(cachedUser{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinAt:      u.JoinAt,
		LastLoginAt: u.LastLoginAt,
	})
}

// InvalidateUser removes a user from cache
func (c *CacheStore) InvalidateUser(ctx context.Context, username string) error {
	return c.client.Del(ctx, userKey(username)).Err()
}

func userKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}
