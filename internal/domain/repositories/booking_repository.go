package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
)

// BookingRepository defines booking data operations
type BookingRepository interface {
	Create(ctx context.Context, booking *entities.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error)
	GetByReference(ctx context.Context, reference string) (*entities.Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Booking, int, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Booking, int, error)
	// CountOverlapping counts pending/confirmed/active bookings for the car
	// whose date range intersects [start, end).
	CountOverlapping(ctx context.Context, carID uuid.UUID, start, end time.Time) (int64, error)
	// Confirm attaches the completed payment and flips status to confirmed
	Confirm(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error
	// ListDue returns bookings in the given status whose cutoff column
	// (start_date for confirmed, end_date for active) has passed
	ListDue(ctx context.Context, status entities.BookingStatus, before time.Time) ([]*entities.Booking, error)
}
