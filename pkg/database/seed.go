package database

import (
	"context"
	"database/sql"
	"fmt"

	"messagely/internal/domain"
	"messagely/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	Password   string
	WorkFactor int
	Users      []domain.User
	Messages   []domain.Message
}

// DefaultSeedConfig returns a small development data set.
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		Password:   "password",
		WorkFactor: bcrypt.DefaultCost,
		Users: []domain.User{
			{Username: "alice", FirstName: "Alice", LastName: "Anderson", Phone: "555-0100"},
			{Username: "bob", FirstName: "Bob", LastName: "Brown", Phone: "555-0101"},
			{Username: "carol", FirstName: "Carol", LastName: "Clark", Phone: "555-0102"},
		},
		Messages: []domain.Message{
			{FromUsername: "alice", ToUsername: "bob", Body: "Hi Bob, lunch today?"},
			{FromUsername: "bob", ToUsername: "alice", Body: "Sure, noon works."},
			{FromUsername: "carol", ToUsername: "alice", Body: "Welcome aboard!"},
		},
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Users    []domain.User
	Messages []domain.Message
}

// Seed inserts the configured users and messages in one transaction.
func Seed(ctx context.Context, db *sql.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cfg.WorkFactor)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	result := &SeedResult{}
	err = repository.WithTx(ctx, db, func(tx repository.DBTX) error {
		users := repository.NewUserRepository(tx)
		messages := repository.NewMessageRepository(tx)

		for _, u := range cfg.Users {
			u.Password = string(hash)
			if err := users.Create(ctx, &u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}
			result.Users = append(result.Users, u)
		}

		for _, m := range cfg.Messages {
			if err := messages.Create(ctx, &m); err != nil {
				return fmt.Errorf("seed message %s->%s: %w", m.FromUsername, m.ToUsername, err)
			}
			result.Messages = append(result.Messages, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TruncateAllTables removes every row and resets the message id sequence.
func TruncateAllTables(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "TRUNCATE TABLE messages, users RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}
