package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/usecases"
)

type bookingFixture struct {
	uc          *usecases.BookingUsecase
	carRepo     *MockCarRepository
	bookingRepo *MockBookingRepository
	userRepo    *MockUserRepository
	uow         *MockUnitOfWork
	payments    *MockPaymentProcessor
	mailer      *MockMailSender
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		carRepo:     new(MockCarRepository),
		bookingRepo: new(MockBookingRepository),
		userRepo:    new(MockUserRepository),
		uow:         new(MockUnitOfWork),
		payments:    new(MockPaymentProcessor),
		mailer:      new(MockMailSender),
	}
	f.uc = usecases.NewBookingUsecase(f.carRepo, f.bookingRepo, f.userRepo, f.uow, f.payments, f.mailer)
	return f
}

var (
	bookingStart = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	bookingEnd   = time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
)

func availableCar() *entities.Car {
	return &entities.Car{
		ID:        uuid.New(),
		Make:      "Bentley",
		Model:     "Continental GT",
		DailyRate: decimal.NewFromInt(200),
		Status:    entities.CarStatusAvailable,
	}
}

func TestBookingUsecase_Quote(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	car.DepositAmount = decimal.NewFromInt(2000)
	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)

	quote, err := f.uc.Quote(context.Background(), &entities.BookingQuoteInput{
		CarID:     car.ID,
		StartDate: bookingStart,
		EndDate:   bookingEnd,
		Addons:    entities.BookingAddons{Insurance: true},
	})
	require.NoError(t, err)
	require.Equal(t, 3, quote.Days)
	require.Equal(t, "750", quote.Total.String())
	require.Equal(t, "600", quote.Base.String())
	require.Equal(t, "150", quote.AddonsTotal.String())
	require.True(t, quote.DepositAmount.Equal(decimal.NewFromInt(2000)))
}

func TestBookingUsecase_Quote_InvalidRange(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)

	_, err := f.uc.Quote(context.Background(), &entities.BookingQuoteInput{
		CarID:     car.ID,
		StartDate: bookingEnd,
		EndDate:   bookingStart,
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidDateRange)
}

func TestBookingUsecase_Create_HappyPath(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	userID := uuid.New()
	paymentID := uuid.New()

	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.bookingRepo.On("CountOverlapping", mock.Anything, car.ID, bookingStart, bookingEnd).Return(int64(0), nil)
	f.bookingRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *entities.Booking) bool {
		return b.Status == entities.BookingStatusPending &&
			b.TotalAmount.Equal(decimal.NewFromInt(750)) &&
			b.BookingReference != ""
	})).Return(nil)
	f.payments.On("Charge", mock.Anything, mock.MatchedBy(func(in *entities.ChargeInput) bool {
		return in.Amount.Equal(decimal.NewFromInt(750)) &&
			in.Type == entities.PaymentTypeBooking &&
			in.BookingID != nil
	})).Return(&entities.Payment{ID: paymentID, Status: entities.PaymentStatusCompleted}, nil)
	f.bookingRepo.On("Confirm", mock.Anything, mock.Anything, paymentID).Return(nil)
	f.carRepo.On("UpdateStatus", mock.Anything, car.ID, entities.CarStatusRented).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{
		ID: userID, Name: "Amelia", Email: "amelia@example.com",
		AccountBalance: decimal.NewFromInt(10000),
	}, nil)
	f.mailer.On("Send", mock.Anything, "amelia@example.com", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.uc.Create(context.Background(), userID, &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingEnd,
		Addons:        entities.BookingAddons{Insurance: true},
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.NoError(t, err)
	require.Equal(t, entities.BookingStatusConfirmed, resp.Booking.Status)
	require.Equal(t, &paymentID, resp.Booking.PaymentID)
	require.Equal(t, paymentID, resp.Payment.ID)
	require.True(t, resp.Booking.TotalAmount.Equal(decimal.NewFromInt(750)))

	f.bookingRepo.AssertExpectations(t)
	f.carRepo.AssertExpectations(t)
	f.mailer.AssertExpectations(t)
}

func TestBookingUsecase_Create_OverlapRejected(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	userID := uuid.New()

	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{ID: userID, AccountBalance: decimal.NewFromInt(10000)}, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.bookingRepo.On("CountOverlapping", mock.Anything, car.ID, bookingStart, bookingEnd).Return(int64(1), nil)

	_, err := f.uc.Create(context.Background(), userID, &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingEnd,
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.ErrorIs(t, err, domainerrors.ErrCarUnavailable)

	f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestBookingUsecase_Create_ChargeFailureCancelsPending(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	userID := uuid.New()

	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
	// The pre-check passes; a concurrent spend drains the balance before the
	// processor's own debit runs.
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{ID: userID, AccountBalance: decimal.NewFromInt(10000)}, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.bookingRepo.On("CountOverlapping", mock.Anything, car.ID, bookingStart, bookingEnd).Return(int64(0), nil)
	f.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Charge", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrInsufficientFunds)
	f.bookingRepo.On("UpdateStatus", mock.Anything, mock.Anything, entities.BookingStatusCancelled).Return(nil)

	_, err := f.uc.Create(context.Background(), userID, &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingEnd,
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	f.bookingRepo.AssertCalled(t, "UpdateStatus", mock.Anything, mock.Anything, entities.BookingStatusCancelled)
	f.payments.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	f.bookingRepo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingUsecase_Create_ConfirmFailureRefunds(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	userID := uuid.New()
	paymentID := uuid.New()

	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{ID: userID, AccountBalance: decimal.NewFromInt(10000)}, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.bookingRepo.On("CountOverlapping", mock.Anything, car.ID, bookingStart, bookingEnd).Return(int64(0), nil)
	f.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Charge", mock.Anything, mock.Anything).Return(&entities.Payment{ID: paymentID}, nil)
	f.bookingRepo.On("Confirm", mock.Anything, mock.Anything, paymentID).Return(errors.New("db down"))
	f.payments.On("Refund", mock.Anything, paymentID).Return(nil)
	f.bookingRepo.On("UpdateStatus", mock.Anything, mock.Anything, entities.BookingStatusCancelled).Return(nil)

	_, err := f.uc.Create(context.Background(), userID, &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingEnd,
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.Error(t, err)

	f.payments.AssertCalled(t, "Refund", mock.Anything, paymentID)
	f.bookingRepo.AssertCalled(t, "UpdateStatus", mock.Anything, mock.Anything, entities.BookingStatusCancelled)
}

func TestBookingUsecase_Create_InsufficientBalanceFailsBeforeReserving(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	userID := uuid.New()

	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{ID: userID, AccountBalance: decimal.NewFromInt(100)}, nil)

	_, err := f.uc.Create(context.Background(), userID, &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingEnd,
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	// A balance the quote exceeds never writes a pending row or reaches the
	// processor.
	f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestBookingUsecase_Create_RejectsCarOutOfService(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	car.Status = entities.CarStatusMaintenance
	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)

	_, err := f.uc.Create(context.Background(), uuid.New(), &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingEnd,
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.ErrorIs(t, err, domainerrors.ErrCarUnavailable)
}

func TestBookingUsecase_Create_RejectsInvalidRange(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)

	_, err := f.uc.Create(context.Background(), uuid.New(), &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingStart,
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidDateRange)

	f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingUsecase_Create_MailFailureDoesNotFailBooking(t *testing.T) {
	f := newBookingFixture()
	car := availableCar()
	userID := uuid.New()
	paymentID := uuid.New()

	f.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.bookingRepo.On("CountOverlapping", mock.Anything, car.ID, bookingStart, bookingEnd).Return(int64(0), nil)
	f.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("Charge", mock.Anything, mock.Anything).Return(&entities.Payment{ID: paymentID}, nil)
	f.bookingRepo.On("Confirm", mock.Anything, mock.Anything, paymentID).Return(nil)
	f.carRepo.On("UpdateStatus", mock.Anything, car.ID, entities.CarStatusRented).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{
		ID: userID, Email: "amelia@example.com",
		AccountBalance: decimal.NewFromInt(10000),
	}, nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	resp, err := f.uc.Create(context.Background(), userID, &entities.CreateBookingInput{
		CarID:         car.ID,
		StartDate:     bookingStart,
		EndDate:       bookingEnd,
		PaymentMethod: entities.PaymentMethodAccountBalance,
	})
	require.NoError(t, err)
	require.Equal(t, entities.BookingStatusConfirmed, resp.Booking.Status)
}

func TestBookingUsecase_GetBooking_Ownership(t *testing.T) {
	f := newBookingFixture()
	owner := uuid.New()
	bookingID := uuid.New()

	f.bookingRepo.On("GetByID", mock.Anything, bookingID).Return(&entities.Booking{
		ID:     bookingID,
		UserID: owner,
	}, nil)

	_, err := f.uc.GetBooking(context.Background(), bookingID, owner, false)
	require.NoError(t, err)

	_, err = f.uc.GetBooking(context.Background(), bookingID, uuid.New(), false)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.uc.GetBooking(context.Background(), bookingID, uuid.New(), true)
	require.NoError(t, err)
}

func TestBookingUsecase_Cancel_ConfirmedRefundsAndReleasesCar(t *testing.T) {
	f := newBookingFixture()
	owner := uuid.New()
	bookingID := uuid.New()
	paymentID := uuid.New()
	carID := uuid.New()

	f.bookingRepo.On("GetByID", mock.Anything, bookingID).Return(&entities.Booking{
		ID:            bookingID,
		UserID:        owner,
		CarID:         carID,
		Status:        entities.BookingStatusConfirmed,
		PaymentStatus: entities.PaymentStatusCompleted,
		PaymentID:     &paymentID,
		TotalAmount:   decimal.NewFromInt(750),
	}, nil)
	f.payments.On("Refund", mock.Anything, paymentID).Return(nil)
	f.bookingRepo.On("UpdateStatus", mock.Anything, bookingID, entities.BookingStatusCancelled).Return(nil)
	f.carRepo.On("UpdateStatus", mock.Anything, carID, entities.CarStatusAvailable).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, owner).Return(&entities.User{ID: owner, Email: "amelia@example.com"}, nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	booking, err := f.uc.Cancel(context.Background(), bookingID, owner, false)
	require.NoError(t, err)
	require.Equal(t, entities.BookingStatusCancelled, booking.Status)

	f.payments.AssertExpectations(t)
	f.carRepo.AssertExpectations(t)
}

func TestBookingUsecase_Cancel_RejectsActive(t *testing.T) {
	f := newBookingFixture()
	owner := uuid.New()
	bookingID := uuid.New()

	f.bookingRepo.On("GetByID", mock.Anything, bookingID).Return(&entities.Booking{
		ID:     bookingID,
		UserID: owner,
		Status: entities.BookingStatusActive,
	}, nil)

	_, err := f.uc.Cancel(context.Background(), bookingID, owner, false)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestBookingUsecase_Cancel_ForbiddenForStrangers(t *testing.T) {
	f := newBookingFixture()
	bookingID := uuid.New()

	f.bookingRepo.On("GetByID", mock.Anything, bookingID).Return(&entities.Booking{
		ID:     bookingID,
		UserID: uuid.New(),
		Status: entities.BookingStatusConfirmed,
	}, nil)

	_, err := f.uc.Cancel(context.Background(), bookingID, uuid.New(), false)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
}
