package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email              string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name               string          `gorm:"type:varchar(255);not null"`
	Role               string          `gorm:"type:varchar(50);not null;default:'user'"`
	PasswordHash       string          `gorm:"type:varchar(255);not null"`
	AccountBalance     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DocumentType       *string         `gorm:"type:varchar(50)"`
	DocumentNumber     *string         `gorm:"type:varchar(100)"`
	DocumentURL        *string         `gorm:"type:varchar(500)"`
	VerificationStatus string          `gorm:"type:varchar(50);not null;default:'none'"`
	Address            *string         `gorm:"type:varchar(500)"`
	ProfileImage       *string         `gorm:"type:varchar(500)"`
	PaymentMethods     string          `gorm:"type:jsonb;default:'[]'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}
