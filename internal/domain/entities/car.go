package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// CarStatus represents car fleet status
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "available"
	CarStatusRented      CarStatus = "rented"
	CarStatusMaintenance CarStatus = "maintenance"
	CarStatusRetired     CarStatus = "retired"
)

// CarCategory represents the fleet category
type CarCategory string

const (
	CarCategoryLuxury      CarCategory = "luxury"
	CarCategorySport       CarCategory = "sport"
	CarCategorySUV         CarCategory = "suv"
	CarCategorySedan       CarCategory = "sedan"
	CarCategoryConvertible CarCategory = "convertible"
)

// CarSpecifications describes the vehicle
type CarSpecifications struct {
	Seats        int      `json:"seats"`
	Storage      int      `json:"storage"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuelType"`
	Features     []string `json:"features,omitempty"`
}

// Car represents a fleet vehicle
type Car struct {
	ID             uuid.UUID         `json:"id"`
	Make           string            `json:"make"`
	Model          string            `json:"model"`
	Year           int               `json:"year"`
	Category       CarCategory       `json:"category"`
	DailyRate      decimal.Decimal   `json:"dailyRate"`
	WeeklyRate     decimal.Decimal   `json:"weeklyRate"`
	MonthlyRate    decimal.Decimal   `json:"monthlyRate"`
	DepositAmount  decimal.Decimal   `json:"depositAmount"`
	Status         CarStatus         `json:"status"`
	Specifications CarSpecifications `json:"specifications"`
	LicensePlate   null.String       `json:"licensePlate,omitempty"`
	ImageURL       null.String       `json:"imageUrl,omitempty"`
	Location       null.String       `json:"location,omitempty"`
	CreatedBy      *uuid.UUID        `json:"createdBy,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// CarFilter narrows fleet listings
type CarFilter struct {
	Status   CarStatus   `form:"status"`
	Category CarCategory `form:"category"`
	OrderBy  string      `form:"orderBy"`
	Limit    int         `form:"limit"`
}

// CreateCarInput represents input for adding a fleet vehicle
type CreateCarInput struct {
	Make           string            `json:"make" binding:"required"`
	Model          string            `json:"model" binding:"required"`
	Year           int               `json:"year" binding:"required"`
	Category       CarCategory       `json:"category" binding:"required"`
	DailyRate      decimal.Decimal   `json:"dailyRate" binding:"required"`
	WeeklyRate     decimal.Decimal   `json:"weeklyRate"`
	MonthlyRate    decimal.Decimal   `json:"monthlyRate"`
	DepositAmount  decimal.Decimal   `json:"depositAmount"`
	Specifications CarSpecifications `json:"specifications"`
	LicensePlate   string            `json:"licensePlate"`
	ImageURL       string            `json:"imageUrl"`
	Location       string            `json:"location"`
}

// UpdateCarStatusInput represents an admin status transition
type UpdateCarStatusInput struct {
	Status CarStatus `json:"status" binding:"required"`
}

// ValidCarStatus reports whether s is a known fleet status
func ValidCarStatus(s CarStatus) bool {
	switch s {
	case CarStatusAvailable, CarStatusRented, CarStatusMaintenance, CarStatusRetired:
		return true
	}
	return false
}
