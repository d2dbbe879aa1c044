package handler

import (
	"net/http"
	"strconv"

	"messagely/internal/domain"
	"messagely/internal/services"
	"messagely/internal/transport/httpdto"
	messagely_errors "messagely/pkg/errors"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /messages. The sender is the authenticated user.
func (h *MessageHandler) Send(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	from, _ := services.UsernameFromContext(c.Request.Context())
	msg, err := h.service.Send(c.Request.Context(), from, req.ToUsername, req.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.MessageResponse[domain.Message]{Message: msg})
}

// Get handles GET /messages/:id.
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	actor, _ := services.UsernameFromContext(c.Request.Context())
	msg, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.MessageResponse[domain.MessageDetail]{Message: msg})
}

// MarkRead handles POST /messages/:id/read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	actor, _ := services.UsernameFromContext(c.Request.Context())
	receipt, err := h.service.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.MessageResponse[services.ReadReceipt]{Message: receipt})
}

func messageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		_ = c.Error(messagely_errors.NewValidationError("invalid message id"))
		return 0, false
	}
	return id, true
}
