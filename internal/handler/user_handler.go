package handler

import (
	"net/http"

	"messagely/internal/domain"
	"messagely/internal/services"
	"messagely/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.All(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.UsersResponse{Users: users})
}

// Get handles GET /users/:username.
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.service.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.UserResponse{User: u})
}

// MessagesTo handles GET /users/:username/to.
func (h *UserHandler) MessagesTo(c *gin.Context) {
	messages, err := h.service.MessagesTo(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.MessagesResponse[domain.ReceivedMessage]{Messages: messages})
}

// MessagesFrom handles GET /users/:username/from.
func (h *UserHandler) MessagesFrom(c *gin.Context) {
	messages, err := h.service.MessagesFrom(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.MessagesResponse[domain.SentMessage]{Messages: messages})
}
