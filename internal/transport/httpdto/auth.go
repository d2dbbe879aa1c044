package httpdto

import (
	"time"

	"messagely/internal/domain"
)

// LoginRequest is used for POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// RegisterRequest is used for POST /auth/register
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// RegisteredUser is the created row without its password hash.
type RegisteredUser struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// RegisterResponse is returned after successful registration
type RegisterResponse struct {
	Registered RegisteredUser `json:"Registered"`
}

func NewRegisterResponse(u domain.User) RegisterResponse {
	return RegisterResponse{
		Registered: RegisteredUser{
			Username:    u.Username,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Phone:       u.Phone,
			JoinAt:      u.JoinAt,
			LastLoginAt: u.LastLoginAt,
		},
	}
}
