// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"errors"
	"io"
	"net/http"

	"messagely/internal/services"
	"messagely/internal/transport/httpdto"
	messagely_errors "messagely/pkg/errors"

	"github.com/gin-gonic/gin"
)

const allFieldsRequired = "All fields required"

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		_ = c.Error(messagely_errors.NewValidationError(allFieldsRequired))
		return
	}

	res, ok, err := h.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		_ = c.Error(messagely_errors.ErrInvalidCredentials)
		return
	}

	c.JSON(http.StatusOK, httpdto.LoginResponse{User: res.Username, Token: res.Token})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewRegisterResponse(u))
}

// bindJSON decodes the request body. An empty body decodes to the zero
// value so that missing fields are reported as such.
func bindJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		_ = c.Error(messagely_errors.NewValidationError("invalid request body"))
		return false
	}
	return true
}
