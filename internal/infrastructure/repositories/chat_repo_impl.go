package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/infrastructure/models"
)

// ChatRepository implements support conversation data operations
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create creates a new chat
func (r *ChatRepository) Create(ctx context.Context, chat *entities.Chat) error {
	m := chatToModel(chat)

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	chat.ID = m.ID
	chat.CreatedAt = m.CreatedAt
	chat.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a chat by ID
func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Chat, error) {
	var m models.Chat
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return chatToEntity(&m), nil
}

// GetByUserID gets a user's chats ordered by most recent activity
func (r *ChatRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Chat, error) {
	var ms []models.Chat
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_message_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	chats := make([]*entities.Chat, 0, len(ms))
	for i := range ms {
		chats = append(chats, chatToEntity(&ms[i]))
	}
	return chats, nil
}

// Touch updates conversation state and its last activity timestamp
func (r *ChatRepository) Touch(ctx context.Context, id uuid.UUID, status entities.ChatStatus, lastMessageAt time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Chat{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"last_message_at": lastMessageAt,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MessageRepository implements chat message data operations
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, message *entities.Message) error {
	m := messageToModel(message)

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	message.ID = m.ID
	message.CreatedAt = m.CreatedAt
	return nil
}

// GetByChatID gets all messages in a chat, oldest first
func (r *MessageRepository) GetByChatID(ctx context.Context, chatID uuid.UUID) ([]*entities.Message, error) {
	var ms []models.Message
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	messages := make([]*entities.Message, 0, len(ms))
	for i := range ms {
		messages = append(messages, messageToEntity(&ms[i]))
	}
	return messages, nil
}

func chatToModel(c *entities.Chat) *models.Chat {
	priority := c.Priority
	if priority == "" {
		priority = entities.ChatPriorityNormal
	}
	return &models.Chat{
		ID:            c.ID,
		UserID:        c.UserID,
		Subject:       c.Subject,
		Priority:      string(priority),
		Status:        string(c.Status),
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func chatToEntity(m *models.Chat) *entities.Chat {
	return &entities.Chat{
		ID:            m.ID,
		UserID:        m.UserID,
		Subject:       m.Subject,
		Priority:      entities.ChatPriority(m.Priority),
		Status:        entities.ChatStatus(m.Status),
		LastMessageAt: m.LastMessageAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func messageToModel(msg *entities.Message) *models.Message {
	messageType := msg.MessageType
	if messageType == "" {
		messageType = "text"
	}
	return &models.Message{
		ID:          msg.ID,
		ChatID:      msg.ChatID,
		SenderID:    msg.SenderID,
		SenderType:  string(msg.SenderType),
		Content:     msg.Content,
		MessageType: messageType,
		CreatedAt:   msg.CreatedAt,
	}
}

func messageToEntity(m *models.Message) *entities.Message {
	return &entities.Message{
		ID:          m.ID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		SenderType:  entities.SenderType(m.SenderType),
		Content:     m.Content,
		MessageType: m.MessageType,
		CreatedAt:   m.CreatedAt,
	}
}
