package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user role
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// VerificationStatus represents identity verification state
type VerificationStatus string

const (
	VerificationStatusNone     VerificationStatus = "none"
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// Identification holds identity document details
type Identification struct {
	DocumentType       null.String        `json:"documentType,omitempty"`
	DocumentNumber     null.String        `json:"documentNumber,omitempty"`
	DocumentURL        null.String        `json:"documentUrl,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

// PaymentMethod is a saved payment option on a user profile
type PaymentMethod struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	LastFour  string `json:"lastFour"`
	IsDefault bool   `json:"isDefault"`
}

// User represents an account
type User struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           UserRole        `json:"role"`
	PasswordHash   string          `json:"-"`
	AccountBalance decimal.Decimal `json:"accountBalance"`
	Identification Identification  `json:"identification"`
	Address        null.String     `json:"address,omitempty"`
	ProfileImage   null.String     `json:"profileImage,omitempty"`
	PaymentMethods []PaymentMethod `json:"paymentMethods,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// RegisterInput represents registration input
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful login/registration
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileInput represents profile field updates
type UpdateProfileInput struct {
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	ProfileImage   string          `json:"profileImage"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

// SubmitIdentificationInput represents an identity document submission.
// Submitting always moves verification back to pending review.
type SubmitIdentificationInput struct {
	DocumentType   string `json:"documentType" binding:"required"`
	DocumentNumber string `json:"documentNumber" binding:"required"`
	DocumentURL    string `json:"documentUrl"`
}

// VerifyIdentityInput is the admin review decision
type VerifyIdentityInput struct {
	UserID uuid.UUID          `json:"userId" binding:"required"`
	Status VerificationStatus `json:"status" binding:"required"`
	Notes  string             `json:"notes"`
}
