package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethodKind represents how a payment is funded
type PaymentMethodKind string

const (
	PaymentMethodAccountBalance PaymentMethodKind = "account_balance"
	PaymentMethodCreditCard     PaymentMethodKind = "credit_card"
	PaymentMethodPayPal         PaymentMethodKind = "paypal"
	PaymentMethodZelle          PaymentMethodKind = "zelle"
	PaymentMethodBankTransfer   PaymentMethodKind = "bank_transfer"
)

// PaymentType distinguishes booking charges from balance top-ups
type PaymentType string

const (
	PaymentTypeBooking PaymentType = "booking"
	PaymentTypeDeposit PaymentType = "deposit"
)

// Payment represents a single charge attempt. Rows are created pending and
// transition to completed or failed exactly once; failed attempts are never
// retried in place.
type Payment struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"userId"`
	BookingID     *uuid.UUID        `json:"bookingId,omitempty"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	Method        PaymentMethodKind `json:"paymentMethod"`
	Type          PaymentType       `json:"paymentType"`
	Status        PaymentStatus     `json:"status"`
	TransactionID null.String       `json:"transactionId,omitempty"`
	FailureReason null.String       `json:"failureReason,omitempty"`
	Description   null.String       `json:"description,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// ChargeInput is the payment processor contract
type ChargeInput struct {
	UserID      uuid.UUID
	BookingID   *uuid.UUID
	Amount      decimal.Decimal
	Method      PaymentMethodKind
	Type        PaymentType
	Description string
}

// DepositInput represents a balance top-up request
type DepositInput struct {
	Amount decimal.Decimal   `json:"amount" binding:"required"`
	Method PaymentMethodKind `json:"paymentMethod" binding:"required"`
}

// ValidPaymentMethod reports whether m is a known funding method
func ValidPaymentMethod(m PaymentMethodKind) bool {
	switch m {
	case PaymentMethodAccountBalance, PaymentMethodCreditCard, PaymentMethodPayPal,
		PaymentMethodZelle, PaymentMethodBankTransfer:
		return true
	}
	return false
}
