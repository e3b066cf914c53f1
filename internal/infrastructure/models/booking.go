package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Booking struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	CarID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	BookingReference string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	StartDate        time.Time       `gorm:"not null;index"`
	EndDate          time.Time       `gorm:"not null;index"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DepositAmount    decimal.Decimal `gorm:"type:decimal(12,2)"`
	InsuranceCost    decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status           string          `gorm:"type:varchar(50);not null;index"`
	PaymentStatus    string          `gorm:"type:varchar(50);not null"`
	PaymentID        *uuid.UUID      `gorm:"type:uuid"`
	AddonInsurance   bool            `gorm:"not null;default:false"`
	AddonGPS         bool            `gorm:"not null;default:false"`
	AddonChildSeat   bool            `gorm:"not null;default:false"`
	PickupLocation   *string         `gorm:"type:varchar(500)"`
	DropoffLocation  *string         `gorm:"type:varchar(500)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Car Car `gorm:"foreignKey:CarID"`
}
