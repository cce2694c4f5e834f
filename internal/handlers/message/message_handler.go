// internal/handlers/message/message_handler.go
package message

import (
	"errors"
	"net/http"

	"offers-service/internal/middleware"
	xerrors "offers-service/internal/pkg/errors"
	"offers-service/internal/pkg/response"
	service "offers-service/internal/service/message"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// Preview personalizes a template with descriptive placeholders for
// whatever data is missing
func (h *MessageHandler) Preview(c *gin.Context) {
	h.compose(c, service.ModePreview)
}

// Render personalizes a template for an actual send; missing data renders
// as empty strings
func (h *MessageHandler) Render(c *gin.Context) {
	h.compose(c, service.ModeLive)
}

func (h *MessageHandler) compose(c *gin.Context, mode service.Mode) {
	businessID := middleware.MustGetBusinessID(c)

	var req service.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	text, err := h.messageService.Compose(c.Request.Context(), businessID, &req, mode)
	if err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Error(c, http.StatusForbidden, "rule does not belong to business", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to compose message", err)
		return
	}

	response.Success(c, http.StatusOK, "message composed", gin.H{"text": text})
}
