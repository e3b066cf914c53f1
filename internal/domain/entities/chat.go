package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChatStatus represents support conversation state
type ChatStatus string

const (
	ChatStatusOpen       ChatStatus = "open"
	ChatStatusAssigned   ChatStatus = "assigned"
	ChatStatusInProgress ChatStatus = "in_progress"
	ChatStatusResolved   ChatStatus = "resolved"
	ChatStatusClosed     ChatStatus = "closed"
)

// ChatPriority represents ticket priority
type ChatPriority string

const (
	ChatPriorityLow    ChatPriority = "low"
	ChatPriorityNormal ChatPriority = "normal"
	ChatPriorityHigh   ChatPriority = "high"
	ChatPriorityUrgent ChatPriority = "urgent"
)

// SenderType identifies which side of the conversation sent a message
type SenderType string

const (
	SenderTypeUser  SenderType = "user"
	SenderTypeAgent SenderType = "agent"
)

// Chat represents a support conversation
type Chat struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"userId"`
	Subject       string       `json:"subject"`
	Priority      ChatPriority `json:"priority"`
	Status        ChatStatus   `json:"status"`
	LastMessageAt time.Time    `json:"lastMessageAt"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Message represents a single chat message
type Message struct {
	ID          uuid.UUID  `json:"id"`
	ChatID      uuid.UUID  `json:"chatId"`
	SenderID    uuid.UUID  `json:"senderId"`
	SenderType  SenderType `json:"senderType"`
	Content     string     `json:"content"`
	MessageType string     `json:"messageType"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// CreateChatInput opens a new support conversation with a first message
type CreateChatInput struct {
	Subject  string       `json:"subject" binding:"required"`
	Priority ChatPriority `json:"priority"`
	Message  string       `json:"message" binding:"required"`
}

// SendMessageInput posts a message into an existing chat
type SendMessageInput struct {
	Content string `json:"content" binding:"required"`
}
