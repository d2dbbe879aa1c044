package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"messagely/internal/domain"
	"messagely/internal/repository"
	messagely_errors "messagely/pkg/errors"
	"messagely/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const loginTouchTimeout = 5 * time.Second

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthConfig carries the settings the auth service needs at startup.
type AuthConfig struct {
	// Secret signs and verifies tokens. Required.
	Secret []byte
	// WorkFactor is the bcrypt cost for new password hashes. Required.
	WorkFactor int
	// TokenTTL adds exp/iat claims when positive.
	TokenTTL time.Duration
}

func (c AuthConfig) validate() error {
	if len(c.Secret) == 0 {
		return errors.New("auth: secret is required")
	}
	if c.WorkFactor < bcrypt.MinCost || c.WorkFactor > bcrypt.MaxCost {
		return errors.New("auth: work factor out of bcrypt range")
	}
	return nil
}

// AuthService registers and authenticates users.
type AuthService struct {
	userRepo repository.UserRepository
	cache    ProfileCache
	cfg      AuthConfig
	logger   *logger.Logger

	// pending tracks background last-login updates.
	pending sync.WaitGroup
}

// NewAuthService creates an auth service. cache may be nil.
func NewAuthService(userRepo repository.UserRepository, cache ProfileCache, cfg AuthConfig, l *logger.Logger) (*AuthService, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		cache:    cache,
		cfg:      cfg,
		logger:   l,
	}, nil
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthResult struct {
	Username string `json:"user"`
	Token    string `json:"token"`
}

// TokenClaims is the JWT payload. Username is the only claim unless a TTL is
// configured.
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Register hashes the password and stores a new user. A taken username
// yields a *messagely_errors.ConflictError.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := validateRegister(in); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.WorkFactor)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		Username:  in.Username,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	}
	if err := s.userRepo.Create(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Authenticate checks a username/password pair. ok is false for an unknown
// user or a wrong password; err is only set for store failures. The token is
// issued and last_login_at touched only when ok is true.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (AuthResult, bool, error) {
	hash, err := s.userRepo.GetPasswordHash(ctx, username)
	if err != nil {
		if errors.Is(err, messagely_errors.ErrNotFound) {
			return AuthResult{}, false, nil
		}
		return AuthResult{}, false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.ErrorCtx(ctx, "password compare failed", zap.String("username", username), zap.Error(err))
		}
		return AuthResult{}, false, nil
	}

	token, err := s.IssueToken(username)
	if err != nil {
		return AuthResult{}, false, err
	}

	s.touchLastLogin(ctx, username)

	return AuthResult{Username: username, Token: token}, true, nil
}

// UpdateLoginTimestamp sets last_login_at to now. Unknown usernames are a no-op.
func (s *AuthService) UpdateLoginTimestamp(ctx context.Context, username string) error {
	if err := s.userRepo.UpdateLastLogin(ctx, username); err != nil {
		return err
	}
	s.refreshCachedProfile(ctx, username)
	return nil
}

// refreshCachedProfile overwrites the cached profile with the stored row.
// The entry is dropped when the row cannot be read.
func (s *AuthService) refreshCachedProfile(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		if err = s.cache.SetUser(ctx, u); err == nil {
			return
		}
	}
	if !errors.Is(err, messagely_errors.ErrNotFound) {
		s.logger.ErrorCtx(ctx, "profile cache refresh failed", zap.String("username", username), zap.Error(err))
	}
	if err := s.cache.InvalidateUser(ctx, username); err != nil {
		s.logger.ErrorCtx(ctx, "profile cache invalidate failed", zap.String("username", username), zap.Error(err))
	}
}

// Wait blocks until background last-login updates have finished.
func (s *AuthService) Wait() {
	s.pending.Wait()
}

func (s *AuthService) touchLastLogin(ctx context.Context, username string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loginTouchTimeout)
		defer cancel()
		if err := s.UpdateLoginTimestamp(ctx, username); err != nil {
			s.logger.ErrorCtx(ctx, "update last login failed", zap.String("username", username), zap.Error(err))
		}
	}()
}

func (s *AuthService) IssueToken(username string) (string, error) {
	claims := TokenClaims{Username: username}
	if s.cfg.TokenTTL > 0 {
		now := time.Now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.cfg.TokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.Secret)
}

// ParseToken verifies a token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (TokenClaims, error) {
	if tokenString == "" {
		return TokenClaims{}, messagely_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return TokenClaims{}, messagely_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid || claims.Username == "" {
		return TokenClaims{}, messagely_errors.ErrUnauthorized
	}
	return *claims, nil
}

func validateRegister(in RegisterInput) error {
	if in.Username == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.Phone == "" {
		return messagely_errors.NewValidationError("All fields required")
	}
	if len(in.Password) > maxPasswordBytes {
		return messagely_errors.NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, messagely_errors.ErrInvalidInput),
		errors.Is(err, messagely_errors.ErrInvalidCredentials),
		errors.Is(err, messagely_errors.ErrUsernameTaken):
		return http.StatusBadRequest
	case errors.Is(err, messagely_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, messagely_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, messagely_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, messagely_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode maps an error to the machine readable code in error bodies.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, messagely_errors.ErrInvalidInput):
		return "VALIDATION_ERROR"
	case errors.Is(err, messagely_errors.ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, messagely_errors.ErrUsernameTaken):
		return "USERNAME_TAKEN"
	case errors.Is(err, messagely_errors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, messagely_errors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, messagely_errors.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, messagely_errors.ErrRateLimited):
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, logger.UsernameKey, username)
}

func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(logger.UsernameKey).(string)
	return username, ok && username != ""
}
