package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/domain/repositories"
	"alquilar.backend/pkg/logger"
)

// ChatPublisher fans a stored message out to live subscribers
type ChatPublisher interface {
	Publish(ctx context.Context, message *entities.Message) error
}

// ChatUsecase handles support conversation business logic
type ChatUsecase struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	publisher   ChatPublisher
}

// NewChatUsecase creates a new chat usecase
func NewChatUsecase(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, publisher ChatPublisher) *ChatUsecase {
	return &ChatUsecase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		publisher:   publisher,
	}
}

// CreateChat opens a support conversation with its first message
func (u *ChatUsecase) CreateChat(ctx context.Context, userID uuid.UUID, input *entities.CreateChatInput) (*entities.Chat, error) {
	now := time.Now()

	priority := input.Priority
	if priority == "" {
		priority = entities.ChatPriorityNormal
	}

	chat := &entities.Chat{
		ID:            uuid.New(),
		UserID:        userID,
		Subject:       input.Subject,
		Priority:      priority,
		Status:        entities.ChatStatusOpen,
		LastMessageAt: now,
	}
	if err := u.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	message := &entities.Message{
		ID:         uuid.New(),
		ChatID:     chat.ID,
		SenderID:   userID,
		SenderType: entities.SenderTypeUser,
		Content:    input.Message,
		CreatedAt:  now,
	}
	if err := u.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	u.broadcast(ctx, message)
	return chat, nil
}

// SendMessage posts a message into an existing chat. Users may only write to
// their own chats; agents may write anywhere.
func (u *ChatUsecase) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, isAgent bool, input *entities.SendMessageInput) (*entities.Message, error) {
	chat, err := u.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !isAgent && chat.UserID != senderID {
		return nil, domainerrors.ErrForbidden
	}
	if chat.Status == entities.ChatStatusClosed {
		return nil, domainerrors.ErrInvalidInput
	}

	senderType := entities.SenderTypeUser
	status := chat.Status
	if isAgent {
		senderType = entities.SenderTypeAgent
		status = entities.ChatStatusInProgress
	}

	message := &entities.Message{
		ID:         uuid.New(),
		ChatID:     chatID,
		SenderID:   senderID,
		SenderType: senderType,
		Content:    input.Content,
		CreatedAt:  time.Now(),
	}
	if err := u.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := u.chatRepo.Touch(ctx, chatID, status, message.CreatedAt); err != nil {
		return nil, err
	}

	u.broadcast(ctx, message)
	return message, nil
}

// GetUserChats returns a user's conversations, most recently active first
func (u *ChatUsecase) GetUserChats(ctx context.Context, userID uuid.UUID) ([]*entities.Chat, error) {
	return u.chatRepo.GetByUserID(ctx, userID)
}

// GetMessages returns a chat's full message history, oldest first
func (u *ChatUsecase) GetMessages(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) ([]*entities.Message, error) {
	chat, err := u.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !isAgent && chat.UserID != requesterID {
		return nil, domainerrors.ErrForbidden
	}
	return u.messageRepo.GetByChatID(ctx, chatID)
}

// UpdateStatus transitions a conversation's workflow state
func (u *ChatUsecase) UpdateStatus(ctx context.Context, chatID uuid.UUID, status entities.ChatStatus) error {
	chat, err := u.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	return u.chatRepo.Touch(ctx, chatID, status, chat.LastMessageAt)
}

// CanSubscribe reports whether the requester may stream this chat's messages
func (u *ChatUsecase) CanSubscribe(ctx context.Context, chatID, requesterID uuid.UUID, isAgent bool) error {
	chat, err := u.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !isAgent && chat.UserID != requesterID {
		return domainerrors.ErrForbidden
	}
	return nil
}

// broadcast publishes best effort; persistence already succeeded and readers
// will catch up on the next history fetch if the live push is lost.
func (u *ChatUsecase) broadcast(ctx context.Context, message *entities.Message) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, message); err != nil {
		logger.Warn(ctx, "Failed to publish chat message to stream",
			zap.String("chat_id", message.ChatID.String()), zap.Error(err))
	}
}
