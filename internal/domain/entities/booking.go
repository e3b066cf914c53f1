package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// BookingStatus represents booking lifecycle state
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingAddons are the flat per-booking extras
type BookingAddons struct {
	Insurance bool `json:"insurance"`
	GPS       bool `json:"gps"`
	ChildSeat bool `json:"childSeat"`
}

// Booking represents a reservation of a car for a date range.
// TotalAmount is snapshotted from the quote at creation time and never
// recomputed, so later rate changes cannot alter an existing booking.
type Booking struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	CarID            uuid.UUID       `json:"carId"`
	BookingReference string          `json:"bookingReference"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	DepositAmount    decimal.Decimal `json:"depositAmount"`
	InsuranceCost    decimal.Decimal `json:"insuranceCost"`
	Status           BookingStatus   `json:"status"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	PaymentID        *uuid.UUID      `json:"paymentId,omitempty"`
	Addons           BookingAddons   `json:"addons"`
	PickupLocation   null.String     `json:"pickupLocation,omitempty"`
	DropoffLocation  null.String     `json:"dropoffLocation,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	// Joins
	Car *Car `json:"car,omitempty"`
}

// CreateBookingInput represents input for booking a car
type CreateBookingInput struct {
	CarID           uuid.UUID     `json:"carId" binding:"required"`
	StartDate       time.Time     `json:"startDate" binding:"required"`
	EndDate         time.Time     `json:"endDate" binding:"required"`
	Addons          BookingAddons `json:"addons"`
	PaymentMethod   PaymentMethodKind `json:"paymentMethod" binding:"required"`
	PickupLocation  string        `json:"pickupLocation"`
	DropoffLocation string        `json:"dropoffLocation"`
}

// BookingQuoteInput requests a price quote without side effects
type BookingQuoteInput struct {
	CarID     uuid.UUID     `json:"carId" binding:"required"`
	StartDate time.Time     `json:"startDate" binding:"required"`
	EndDate   time.Time     `json:"endDate" binding:"required"`
	Addons    BookingAddons `json:"addons"`
}

// BookingQuoteResponse is the computed price for a prospective booking
type BookingQuoteResponse struct {
	Days          int             `json:"days"`
	DailyRate     decimal.Decimal `json:"dailyRate"`
	Base          decimal.Decimal `json:"base"`
	AddonsTotal   decimal.Decimal `json:"addonsTotal"`
	Total         decimal.Decimal `json:"total"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
}

// CreateBookingResponse is returned after a completed booking workflow
type CreateBookingResponse struct {
	Booking *Booking `json:"booking"`
	Payment *Payment `json:"payment"`
}
