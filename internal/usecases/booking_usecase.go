package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/domain/pricing"
	"alquilar.backend/internal/domain/repositories"
	"alquilar.backend/internal/infrastructure/notification"
	"alquilar.backend/pkg/logger"
	"alquilar.backend/pkg/utils"
)

// Attempts to find an unused booking reference before giving up.
const referenceAttempts = 3

// PaymentProcessor is the charge surface the booking workflow depends on
type PaymentProcessor interface {
	Charge(ctx context.Context, input *entities.ChargeInput) (*entities.Payment, error)
	Refund(ctx context.Context, paymentID uuid.UUID) error
}

// MailSender delivers transactional email
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// BookingUsecase orchestrates the booking workflow: price, reserve, charge,
// confirm. The charge happens outside any database transaction, so a failed
// confirmation is compensated with a refund rather than a rollback.
type BookingUsecase struct {
	carRepo     repositories.CarRepository
	bookingRepo repositories.BookingRepository
	userRepo    repositories.UserRepository
	uow         repositories.UnitOfWork
	payments    PaymentProcessor
	mailer      MailSender
}

// NewBookingUsecase creates a new booking usecase
func NewBookingUsecase(
	carRepo repositories.CarRepository,
	bookingRepo repositories.BookingRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	payments PaymentProcessor,
	mailer MailSender,
) *BookingUsecase {
	return &BookingUsecase{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		uow:         uow,
		payments:    payments,
		mailer:      mailer,
	}
}

// Quote prices a prospective booking without side effects
func (u *BookingUsecase) Quote(ctx context.Context, input *entities.BookingQuoteInput) (*entities.BookingQuoteResponse, error) {
	car, err := u.carRepo.GetByID(ctx, input.CarID)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.Quote(car.DailyRate, input.StartDate, input.EndDate, input.Addons)
	if err != nil {
		return nil, err
	}

	return &entities.BookingQuoteResponse{
		Days:          quote.Days,
		DailyRate:     quote.DailyRate,
		Base:          quote.Base,
		AddonsTotal:   quote.AddonsTotal,
		Total:         quote.Total,
		DepositAmount: car.DepositAmount,
	}, nil
}

// Create runs the full booking workflow for a user. On success the booking is
// confirmed with its payment attached and the car is marked rented. Charge
// failures cancel the pending reservation; confirmation failures after a
// successful capture refund the payment before cancelling.
func (u *BookingUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateBookingInput) (*entities.CreateBookingResponse, error) {
	if !entities.ValidPaymentMethod(input.PaymentMethod) {
		return nil, domainerrors.ErrInvalidInput
	}

	car, err := u.carRepo.GetByID(ctx, input.CarID)
	if err != nil {
		return nil, err
	}
	if car.Status == entities.CarStatusMaintenance || car.Status == entities.CarStatusRetired {
		return nil, domainerrors.ErrCarUnavailable
	}

	quote, err := pricing.Quote(car.DailyRate, input.StartDate, input.EndDate, input.Addons)
	if err != nil {
		return nil, err
	}

	// Balance bookings fail fast before any row is written. The processor
	// re-validates inside the debit transaction, so a concurrent spend between
	// here and the charge still cannot overdraw.
	if input.PaymentMethod == entities.PaymentMethodAccountBalance {
		user, err := u.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.AccountBalance.LessThan(quote.Total) {
			return nil, domainerrors.ErrInsufficientFunds
		}
	}

	booking := &entities.Booking{
		ID:            uuid.New(),
		UserID:        userID,
		CarID:         car.ID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		TotalAmount:   quote.Total,
		DepositAmount: car.DepositAmount,
		InsuranceCost: pricing.AddonsCost(entities.BookingAddons{Insurance: input.Addons.Insurance}),
		Status:        entities.BookingStatusPending,
		PaymentStatus: entities.PaymentStatusPending,
		Addons:        input.Addons,
	}
	if input.PickupLocation != "" {
		booking.PickupLocation = null.StringFrom(input.PickupLocation)
	}
	if input.DropoffLocation != "" {
		booking.DropoffLocation = null.StringFrom(input.DropoffLocation)
	}

	// Phase one: hold the dates. The overlap check and the insert share a
	// transaction so two concurrent requests cannot both reserve the car.
	if err := u.reservePending(ctx, booking); err != nil {
		return nil, err
	}

	// Charge outside the transaction; gateways are slow and not rollbackable.
	payment, err := u.payments.Charge(ctx, &entities.ChargeInput{
		UserID:      userID,
		BookingID:   &booking.ID,
		Amount:      quote.Total,
		Method:      input.PaymentMethod,
		Type:        entities.PaymentTypeBooking,
		Description: fmt.Sprintf("Booking %s: %s %s", booking.BookingReference, car.Make, car.Model),
	})
	if err != nil {
		if cancelErr := u.bookingRepo.UpdateStatus(ctx, booking.ID, entities.BookingStatusCancelled); cancelErr != nil {
			logger.Error(ctx, "Failed to cancel booking after charge failure",
				zap.String("booking_id", booking.ID.String()), zap.Error(cancelErr))
		}
		return nil, err
	}

	// Phase two: attach the payment and hand the car over.
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.bookingRepo.Confirm(txCtx, booking.ID, payment.ID); err != nil {
			return err
		}
		return u.carRepo.UpdateStatus(txCtx, car.ID, entities.CarStatusRented)
	})
	if err != nil {
		u.compensate(ctx, booking.ID, payment.ID)
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	booking.Status = entities.BookingStatusConfirmed
	booking.PaymentStatus = entities.PaymentStatusCompleted
	booking.PaymentID = &payment.ID
	booking.Car = car

	u.sendConfirmation(ctx, userID, booking)

	return &entities.CreateBookingResponse{Booking: booking, Payment: payment}, nil
}

// reservePending inserts the pending booking while holding the overlap check
// in the same transaction. Reference collisions get a fresh reference and
// another attempt.
func (u *BookingUsecase) reservePending(ctx context.Context, booking *entities.Booking) error {
	var err error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		ref, refErr := utils.GenerateBookingReference()
		if refErr != nil {
			return refErr
		}
		booking.BookingReference = ref

		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			overlaps, countErr := u.bookingRepo.CountOverlapping(txCtx, booking.CarID, booking.StartDate, booking.EndDate)
			if countErr != nil {
				return countErr
			}
			if overlaps > 0 {
				return domainerrors.ErrCarUnavailable
			}
			return u.bookingRepo.Create(txCtx, booking)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, domainerrors.ErrCarUnavailable) {
			return err
		}
	}
	return fmt.Errorf("could not reserve booking: %w", err)
}

// compensate refunds a captured payment and cancels the booking after a
// failed confirmation. Both are best effort; failures are logged for manual
// reconciliation.
func (u *BookingUsecase) compensate(ctx context.Context, bookingID, paymentID uuid.UUID) {
	if err := u.payments.Refund(ctx, paymentID); err != nil {
		logger.Error(ctx, "Compensating refund failed, manual reconciliation required",
			zap.String("booking_id", bookingID.String()),
			zap.String("payment_id", paymentID.String()), zap.Error(err))
	}
	if err := u.bookingRepo.UpdateStatus(ctx, bookingID, entities.BookingStatusCancelled); err != nil {
		logger.Error(ctx, "Failed to cancel booking after confirmation failure",
			zap.String("booking_id", bookingID.String()), zap.Error(err))
	}
}

// sendConfirmation emails the booking confirmation. Delivery is best effort;
// the booking stands whether or not the email lands.
func (u *BookingUsecase) sendConfirmation(ctx context.Context, userID uuid.UUID, booking *entities.Booking) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "Could not load user for confirmation email",
			zap.String("user_id", userID.String()), zap.Error(err))
		return
	}

	subject, body := notification.BookingConfirmation(user, booking)
	if err := u.mailer.Send(ctx, user.Email, subject, body); err != nil {
		logger.Warn(ctx, "Booking confirmation email failed",
			zap.String("booking_reference", booking.BookingReference), zap.Error(err))
	}
}

// GetUserBookings returns a user's bookings, newest first
func (u *BookingUsecase) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Booking, int, error) {
	return u.bookingRepo.GetByUserID(ctx, userID, limit, offset)
}

// GetBooking returns a booking, restricted to its owner unless admin
func (u *BookingUsecase) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*entities.Booking, error) {
	booking, err := u.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, domainerrors.ErrForbidden
	}
	return booking, nil
}

// GetBookingByReference looks a booking up by its human-readable reference
func (u *BookingUsecase) GetBookingByReference(ctx context.Context, reference string, requesterID uuid.UUID, isAdmin bool) (*entities.Booking, error) {
	booking, err := u.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, domainerrors.ErrForbidden
	}
	return booking, nil
}

// ListBookings returns all bookings for back office use
func (u *BookingUsecase) ListBookings(ctx context.Context, limit, offset int) ([]*entities.Booking, int, error) {
	return u.bookingRepo.List(ctx, limit, offset)
}

// Cancel cancels a pending or confirmed booking, refunding its payment and
// releasing the car. Active and completed rentals cannot be cancelled.
func (u *BookingUsecase) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*entities.Booking, error) {
	booking, err := u.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, domainerrors.ErrForbidden
	}
	if booking.Status != entities.BookingStatusPending && booking.Status != entities.BookingStatusConfirmed {
		return nil, fmt.Errorf("booking %s cannot be cancelled in status %s: %w",
			booking.BookingReference, booking.Status, domainerrors.ErrInvalidInput)
	}

	refunded := false
	if booking.PaymentID != nil && booking.PaymentStatus == entities.PaymentStatusCompleted {
		if err := u.payments.Refund(ctx, *booking.PaymentID); err != nil {
			return nil, err
		}
		refunded = true
	}

	if err := u.bookingRepo.UpdateStatus(ctx, booking.ID, entities.BookingStatusCancelled); err != nil {
		return nil, err
	}
	if booking.Status == entities.BookingStatusConfirmed {
		if err := u.carRepo.UpdateStatus(ctx, booking.CarID, entities.CarStatusAvailable); err != nil {
			logger.Error(ctx, "Failed to release car after cancellation",
				zap.String("car_id", booking.CarID.String()), zap.Error(err))
		}
	}

	u.sendCancellation(ctx, booking, refunded)

	booking.Status = entities.BookingStatusCancelled
	return booking, nil
}

func (u *BookingUsecase) sendCancellation(ctx context.Context, booking *entities.Booking, refunded bool) {
	user, err := u.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		return
	}
	subject, body := notification.BookingCancellation(user, booking, refunded)
	if err := u.mailer.Send(ctx, user.Email, subject, body); err != nil {
		logger.Warn(ctx, "Cancellation email failed",
			zap.String("booking_reference", booking.BookingReference), zap.Error(err))
	}
}
