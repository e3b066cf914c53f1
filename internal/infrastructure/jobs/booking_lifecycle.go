package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"alquilar.backend/internal/domain/entities"
	"alquilar.backend/pkg/logger"
)

type bookingLifecycleStore interface {
	ListDue(ctx context.Context, status entities.BookingStatus, before time.Time) ([]*entities.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error
}

type carStatusStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CarStatus) error
}

// BookingLifecycleJob advances bookings through their date-driven
// transitions: confirmed bookings become active once the rental starts, and
// active bookings become completed once it ends, releasing the car.
type BookingLifecycleJob struct {
	bookingRepo bookingLifecycleStore
	carRepo     carStatusStore
	interval    time.Duration
	stop        chan struct{}
}

func NewBookingLifecycleJob(bookingRepo bookingLifecycleStore, carRepo carStatusStore) *BookingLifecycleJob {
	return &BookingLifecycleJob{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		interval:    time.Minute,
		stop:        make(chan struct{}),
	}
}

func (j *BookingLifecycleJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting booking lifecycle job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Booking lifecycle job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Booking lifecycle job stopped")
			return
		case <-ticker.C:
			j.ProcessDue(ctx, time.Now())
		}
	}
}

func (j *BookingLifecycleJob) Stop() {
	close(j.stop)
}

// ProcessDue runs one sweep of both transitions. Each booking is handled
// independently so one failure does not block the rest of the batch.
func (j *BookingLifecycleJob) ProcessDue(ctx context.Context, now time.Time) {
	j.activateStarted(ctx, now)
	j.completeEnded(ctx, now)
}

func (j *BookingLifecycleJob) activateStarted(ctx context.Context, now time.Time) {
	due, err := j.bookingRepo.ListDue(ctx, entities.BookingStatusConfirmed, now)
	if err != nil {
		logger.Error(ctx, "Failed to list bookings due for activation", zap.Error(err))
		return
	}

	for _, b := range due {
		if err := j.bookingRepo.UpdateStatus(ctx, b.ID, entities.BookingStatusActive); err != nil {
			logger.Error(ctx, "Failed to activate booking",
				zap.String("booking_id", b.ID.String()), zap.Error(err))
			continue
		}
		logger.Info(ctx, "Booking activated",
			zap.String("booking_id", b.ID.String()),
			zap.String("reference", b.BookingReference))
	}
}

func (j *BookingLifecycleJob) completeEnded(ctx context.Context, now time.Time) {
	due, err := j.bookingRepo.ListDue(ctx, entities.BookingStatusActive, now)
	if err != nil {
		logger.Error(ctx, "Failed to list bookings due for completion", zap.Error(err))
		return
	}

	for _, b := range due {
		if err := j.bookingRepo.UpdateStatus(ctx, b.ID, entities.BookingStatusCompleted); err != nil {
			logger.Error(ctx, "Failed to complete booking",
				zap.String("booking_id", b.ID.String()), zap.Error(err))
			continue
		}
		if err := j.carRepo.UpdateStatus(ctx, b.CarID, entities.CarStatusAvailable); err != nil {
			logger.Error(ctx, "Failed to release car after booking completion",
				zap.String("booking_id", b.ID.String()),
				zap.String("car_id", b.CarID.String()), zap.Error(err))
			continue
		}
		logger.Info(ctx, "Booking completed and car released",
			zap.String("booking_id", b.ID.String()),
			zap.String("reference", b.BookingReference))
	}
}
