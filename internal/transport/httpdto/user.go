package httpdto

import "messagely/internal/domain"

type UsersResponse struct {
	Users []domain.UserSummary `json:"users"`
}

type UserResponse struct {
	User domain.User `json:"user"`
}

// MessagesResponse wraps either direction of a user's messages.
type MessagesResponse[T any] struct {
	Messages []T `json:"messages"`
}
