package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chat struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Subject       string    `gorm:"type:varchar(255);not null"`
	Priority      string    `gorm:"type:varchar(50);not null;default:'normal'"`
	Status        string    `gorm:"type:varchar(50);not null;index"`
	LastMessageAt time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ChatID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null"`
	SenderType  string    `gorm:"type:varchar(20);not null"`
	Content     string    `gorm:"type:text;not null"`
	MessageType string    `gorm:"type:varchar(20);not null;default:'text'"`
	CreatedAt   time.Time

	Chat Chat `gorm:"foreignKey:ChatID"`
}
