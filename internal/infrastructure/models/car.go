package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Car struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Make           string          `gorm:"type:varchar(100);not null"`
	Model          string          `gorm:"type:varchar(100);not null"`
	Year           int             `gorm:"not null"`
	Category       string          `gorm:"type:varchar(50);not null;index"`
	DailyRate      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	WeeklyRate     decimal.Decimal `gorm:"type:decimal(12,2)"`
	MonthlyRate    decimal.Decimal `gorm:"type:decimal(12,2)"`
	DepositAmount  decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status         string          `gorm:"type:varchar(50);not null;index"`
	Specifications string          `gorm:"type:jsonb;default:'{}'"`
	LicensePlate   *string         `gorm:"type:varchar(20)"`
	ImageURL       *string         `gorm:"type:varchar(500)"`
	Location       *string         `gorm:"type:varchar(255)"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
