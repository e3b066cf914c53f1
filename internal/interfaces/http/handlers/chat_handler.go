package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/interfaces/http/middleware"
	"alquilar.backend/internal/interfaces/http/response"
)

type chatService interface {
	CreateChat(ctx context.Context, userID uuid.UUID, input *entities.CreateChatInput) (*entities.Chat, error)
	SendMessage(ctx context.Context, chatID, senderID uuid.UUID, isAgent bool, input *entities.SendMessageInput) (*entities.Message, error)
	GetUserChats(ctx context.Context, userID uuid.UUID) ([]*entities.Chat, error)
	GetMessages(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) ([]*entities.Message, error)
	UpdateStatus(ctx context.Context, chatID uuid.UUID, status entities.ChatStatus) error
	CanSubscribe(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) error
}

type chatSubscriber interface {
	Subscribe(ctx context.Context, chatID uuid.UUID) (<-chan *entities.Message, func(), error)
}

// ChatHandler handles support chat endpoints
type ChatHandler struct {
	chats  chatService
	stream chatSubscriber
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chats chatService, stream chatSubscriber) *ChatHandler {
	return &ChatHandler{chats: chats, stream: stream}
}

// CreateChat opens a support conversation
// POST /api/v1/chats
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.CreateChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	chat, err := h.chats.CreateChat(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"chat": chat})
}

// ListMyChats returns the caller's conversations, most recently active first
// GET /api/v1/chats
func (h *ChatHandler) ListMyChats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	chats, err := h.chats.GetUserChats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if chats == nil {
		chats = []*entities.Chat{}
	}

	response.Success(c, http.StatusOK, gin.H{"chats": chats})
}

// GetMessages returns a conversation's history, oldest first
// GET /api/v1/chats/:id/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid chat ID"))
		return
	}

	messages, err := h.chats.GetMessages(c.Request.Context(), chatID, userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if messages == nil {
		messages = []*entities.Message{}
	}

	response.Success(c, http.StatusOK, gin.H{"messages": messages})
}

// SendMessage posts into a conversation
// POST /api/v1/chats/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid chat ID"))
		return
	}

	var input entities.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	message, err := h.chats.SendMessage(c.Request.Context(), chatID, userID, middleware.IsAdmin(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": message})
}

// UpdateChatStatus transitions a conversation's workflow state
// PUT /api/v1/admin/chats/:id/status
func (h *ChatHandler) UpdateChatStatus(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid chat ID"))
		return
	}

	var input struct {
		Status entities.ChatStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.chats.UpdateStatus(c.Request.Context(), chatID, input.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": input.Status})
}

// StreamMessages pushes live messages for one conversation over SSE
// GET /api/v1/chats/:id/stream
func (h *ChatHandler) StreamMessages(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid chat ID"))
		return
	}

	if err := h.chats.CanSubscribe(c.Request.Context(), chatID, userID, middleware.IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	messages, cancel, err := h.stream.Subscribe(ctx, chatID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-messages:
			if !open {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
