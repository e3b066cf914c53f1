package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
)

// ChatRepository defines support chat data operations
type ChatRepository interface {
	Create(ctx context.Context, chat *entities.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Chat, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Chat, error)
	Touch(ctx context.Context, id uuid.UUID, status entities.ChatStatus, lastMessageAt time.Time) error
}

// MessageRepository defines chat message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *entities.Message) error
	GetByChatID(ctx context.Context, chatID uuid.UUID) ([]*entities.Message, error)
}
