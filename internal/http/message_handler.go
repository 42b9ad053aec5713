package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-relay/internal/domain"
	"chat-relay/internal/repository"
)

// MessageHandler expone el contrato REST del gateway de persistencia.
type MessageHandler struct {
	logger   *zap.Logger
	messages repository.MessageRepository
}

func NewMessageHandler(logger *zap.Logger, messages repository.MessageRepository) *MessageHandler {
	return &MessageHandler{logger: logger, messages: messages}
}

// CreateMessage maneja POST /api/messages.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req struct {
		Data domain.Message `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody("invalid request"))
		return
	}
	if strings.TrimSpace(req.Data.Sender) == "" || !req.Data.HasContent() {
		c.JSON(http.StatusBadRequest, errorBody("sender and content are required"))
		return
	}

	stored := domain.StoredMessage{
		ID:        uuid.NewString(),
		Sender:    req.Data.Sender,
		Content:   req.Data.Content,
		Timestamp: req.Data.Timestamp,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.messages.Create(c.Request.Context(), stored); err != nil {
		h.logger.Error("create message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("could not store message"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": stored})
}

// ListMessages maneja GET /api/messages. Devuelve el historial completo sin
// filtrar; el filtrado por identidad es responsabilidad del cliente.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messages.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("could not list messages"))
		return
	}
	if messages == nil {
		messages = []domain.StoredMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}
