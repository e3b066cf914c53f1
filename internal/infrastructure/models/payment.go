package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BookingID     *uuid.UUID      `gorm:"type:uuid;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency      string          `gorm:"type:varchar(10);not null;default:'USD'"`
	Method        string          `gorm:"type:varchar(50);not null"`
	Type          string          `gorm:"type:varchar(50);not null;index"`
	Status        string          `gorm:"type:varchar(50);not null;index"`
	TransactionID *string         `gorm:"type:varchar(255);index"`
	FailureReason *string         `gorm:"type:varchar(500)"`
	Description   *string         `gorm:"type:varchar(500)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
