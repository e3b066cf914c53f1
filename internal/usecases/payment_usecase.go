package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/domain/repositories"
	"alquilar.backend/internal/infrastructure/gateway"
)

// CardGateway captures and returns funds held outside the platform
type CardGateway interface {
	Charge(ctx context.Context, req gateway.ChargeRequest) (string, error)
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal) error
}

// PaymentUsecase is the payment processor. Every charge produces exactly one
// payment row; balance charges debit the account and write that row in a
// single transaction.
type PaymentUsecase struct {
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	uow         repositories.UnitOfWork
	cards       CardGateway
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	uow repositories.UnitOfWork,
	cards CardGateway,
) *PaymentUsecase {
	return &PaymentUsecase{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		uow:         uow,
		cards:       cards,
	}
}

// Charge captures input.Amount from the user through the requested method.
// On success the returned payment is completed; on failure a failed payment
// row is left behind for the audit trail (except balance charges, whose row
// rolls back with the debit) and the original error is returned.
func (u *PaymentUsecase) Charge(ctx context.Context, input *entities.ChargeInput) (*entities.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.ErrInvalidInput
	}
	if !entities.ValidPaymentMethod(input.Method) {
		return nil, domainerrors.ErrInvalidInput
	}

	if input.Method == entities.PaymentMethodAccountBalance {
		return u.chargeBalance(ctx, input)
	}
	return u.chargeExternal(ctx, input)
}

// chargeBalance debits the account and records the payment atomically. Either
// both land or neither does.
func (u *PaymentUsecase) chargeBalance(ctx context.Context, input *entities.ChargeInput) (*entities.Payment, error) {
	payment := newPayment(input)

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.AdjustBalance(txCtx, input.UserID, input.Amount.Neg()); err != nil {
			return err
		}
		payment.Status = entities.PaymentStatusCompleted
		return u.paymentRepo.Create(txCtx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// chargeExternal records a pending payment, captures through the gateway and
// settles the row to completed or failed.
func (u *PaymentUsecase) chargeExternal(ctx context.Context, input *entities.ChargeInput) (*entities.Payment, error) {
	payment, txnID, err := u.captureExternal(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := u.paymentRepo.MarkCompleted(ctx, payment.ID, txnID); err != nil {
		return nil, err
	}
	payment.Status = entities.PaymentStatusCompleted
	payment.TransactionID = null.StringFrom(txnID)
	return payment, nil
}

// captureExternal writes the pending payment row and captures the funds
// through the gateway. A decline marks the row failed and surfaces the error;
// settling the captured payment to completed is left to the caller.
func (u *PaymentUsecase) captureExternal(ctx context.Context, input *entities.ChargeInput) (*entities.Payment, string, error) {
	user, err := u.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, "", err
	}

	payment := newPayment(input)
	if err := u.paymentRepo.Create(ctx, payment); err != nil {
		return nil, "", err
	}

	reference := payment.ID.String()
	if input.BookingID != nil {
		reference = input.BookingID.String()
	}

	txnID, err := u.cards.Charge(ctx, gateway.ChargeRequest{
		Amount:        input.Amount,
		Currency:      payment.Currency,
		Method:        input.Method,
		Reference:     reference,
		CustomerEmail: user.Email,
		Description:   input.Description,
	})
	if err != nil {
		_ = u.paymentRepo.MarkFailed(ctx, payment.ID, err.Error())
		return nil, "", err
	}
	return payment, txnID, nil
}

// Refund returns a completed payment's funds to their source and marks the
// row refunded
func (u *PaymentUsecase) Refund(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := u.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status != entities.PaymentStatusCompleted {
		return fmt.Errorf("payment %s is not refundable: %w", paymentID, domainerrors.ErrInvalidInput)
	}

	if payment.Method == entities.PaymentMethodAccountBalance {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			if err := u.userRepo.AdjustBalance(txCtx, payment.UserID, payment.Amount); err != nil {
				return err
			}
			return u.paymentRepo.MarkRefunded(txCtx, payment.ID)
		})
	}

	if err := u.cards.Refund(ctx, payment.TransactionID.String, payment.Amount); err != nil {
		return err
	}
	return u.paymentRepo.MarkRefunded(ctx, payment.ID)
}

// Deposit tops up the account balance from an external payment method
func (u *PaymentUsecase) Deposit(ctx context.Context, userID uuid.UUID, input *entities.DepositInput) (*entities.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.Method == entities.PaymentMethodAccountBalance {
		return nil, domainerrors.ErrInvalidInput
	}
	if !entities.ValidPaymentMethod(input.Method) {
		return nil, domainerrors.ErrInvalidInput
	}

	payment, txnID, err := u.captureExternal(ctx, &entities.ChargeInput{
		UserID:      userID,
		Amount:      input.Amount,
		Method:      input.Method,
		Type:        entities.PaymentTypeDeposit,
		Description: "Account balance top-up",
	})
	if err != nil {
		return nil, err
	}

	// Settle and credit in one transaction so a deposit row is never
	// completed without its balance credit. If this fails the row stays
	// pending with the captured funds to reconcile against.
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.paymentRepo.MarkCompleted(txCtx, payment.ID, txnID); err != nil {
			return err
		}
		return u.userRepo.AdjustBalance(txCtx, userID, input.Amount)
	})
	if err != nil {
		return nil, err
	}
	payment.Status = entities.PaymentStatusCompleted
	payment.TransactionID = null.StringFrom(txnID)
	return payment, nil
}

// GetUserPayments returns a user's payment history, newest first
func (u *PaymentUsecase) GetUserPayments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Payment, int, error) {
	return u.paymentRepo.GetByUserID(ctx, userID, limit, offset)
}

// GetPayment returns a payment, restricted to its owner unless admin
func (u *PaymentUsecase) GetPayment(ctx context.Context, paymentID, requesterID uuid.UUID, isAdmin bool) (*entities.Payment, error) {
	payment, err := u.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && payment.UserID != requesterID {
		return nil, domainerrors.ErrForbidden
	}
	return payment, nil
}

func newPayment(input *entities.ChargeInput) *entities.Payment {
	var description null.String
	if input.Description != "" {
		description = null.StringFrom(input.Description)
	}
	return &entities.Payment{
		ID:          uuid.New(),
		UserID:      input.UserID,
		BookingID:   input.BookingID,
		Amount:      input.Amount,
		Currency:    "USD",
		Method:      input.Method,
		Type:        input.Type,
		Status:      entities.PaymentStatusPending,
		Description: description,
	}
}

// IsDeclineOrFunds reports whether err is a customer-side payment failure
// rather than an infrastructure fault
func IsDeclineOrFunds(err error) bool {
	return errors.Is(err, domainerrors.ErrPaymentDeclined) ||
		errors.Is(err, domainerrors.ErrInsufficientFunds)
}
