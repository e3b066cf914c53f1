package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/infrastructure/models"
)

// Statuses that block a car for overlapping date ranges.
var blockingStatuses = []string{
	string(entities.BookingStatusPending),
	string(entities.BookingStatusConfirmed),
	string(entities.BookingStatusActive),
}

// BookingRepository implements booking data operations
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create creates a new booking
func (r *BookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	m := bookingToModel(booking)

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	booking.ID = m.ID
	booking.CreatedAt = m.CreatedAt
	booking.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error) {
	var m models.Booking
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Preload("Car").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return bookingToEntity(&m), nil
}

// GetByReference gets a booking by its human-readable reference
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*entities.Booking, error) {
	var m models.Booking
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Preload("Car").Where("booking_reference = ?", reference).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return bookingToEntity(&m), nil
}

// GetByUserID gets bookings for a user with pagination, newest first
func (r *BookingRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Booking, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Preload("Car").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var ms []models.Booking
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	bookings := make([]*entities.Booking, 0, len(ms))
	for i := range ms {
		bookings = append(bookings, bookingToEntity(&ms[i]))
	}
	return bookings, int(total), nil
}

// List returns all bookings with pagination, newest first
func (r *BookingRepository) List(ctx context.Context, limit, offset int) ([]*entities.Booking, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Preload("Car").Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var ms []models.Booking
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	bookings := make([]*entities.Booking, 0, len(ms))
	for i := range ms {
		bookings = append(bookings, bookingToEntity(&ms[i]))
	}
	return bookings, int(total), nil
}

// CountOverlapping counts live bookings for the car whose range intersects
// [start, end). Two ranges intersect when each starts before the other ends.
func (r *BookingRepository) CountOverlapping(ctx context.Context, carID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.Booking{}).
		Where("car_id = ?", carID).
		Where("status IN ?", blockingStatuses).
		Where("start_date < ? AND end_date > ?", end, start).
		Count(&count).Error
	return count, err
}

// Confirm attaches the completed payment and flips status to confirmed
func (r *BookingRepository) Confirm(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, entities.BookingStatusPending).
		Updates(map[string]interface{}{
			"status":         entities.BookingStatusConfirmed,
			"payment_status": entities.PaymentStatusCompleted,
			"payment_id":     paymentID,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus transitions booking lifecycle state
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListDue returns bookings whose next lifecycle transition is overdue
func (r *BookingRepository) ListDue(ctx context.Context, status entities.BookingStatus, before time.Time) ([]*entities.Booking, error) {
	cutoff := "start_date"
	if status == entities.BookingStatusActive {
		cutoff = "end_date"
	}

	var ms []models.Booking
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Where(cutoff+" <= ?", before).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	bookings := make([]*entities.Booking, 0, len(ms))
	for i := range ms {
		bookings = append(bookings, bookingToEntity(&ms[i]))
	}
	return bookings, nil
}

func bookingToModel(b *entities.Booking) *models.Booking {
	return &models.Booking{
		ID:               b.ID,
		UserID:           b.UserID,
		CarID:            b.CarID,
		BookingReference: b.BookingReference,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		TotalAmount:      b.TotalAmount,
		DepositAmount:    b.DepositAmount,
		InsuranceCost:    b.InsuranceCost,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		PaymentID:        b.PaymentID,
		AddonInsurance:   b.Addons.Insurance,
		AddonGPS:         b.Addons.GPS,
		AddonChildSeat:   b.Addons.ChildSeat,
		PickupLocation:   b.PickupLocation.Ptr(),
		DropoffLocation:  b.DropoffLocation.Ptr(),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func bookingToEntity(m *models.Booking) *entities.Booking {
	b := &entities.Booking{
		ID:               m.ID,
		UserID:           m.UserID,
		CarID:            m.CarID,
		BookingReference: m.BookingReference,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		TotalAmount:      m.TotalAmount,
		DepositAmount:    m.DepositAmount,
		InsuranceCost:    m.InsuranceCost,
		Status:           entities.BookingStatus(m.Status),
		PaymentStatus:    entities.PaymentStatus(m.PaymentStatus),
		PaymentID:        m.PaymentID,
		Addons: entities.BookingAddons{
			Insurance: m.AddonInsurance,
			GPS:       m.AddonGPS,
			ChildSeat: m.AddonChildSeat,
		},
		PickupLocation:  null.StringFromPtr(m.PickupLocation),
		DropoffLocation: null.StringFromPtr(m.DropoffLocation),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Car.ID != uuid.Nil {
		b.Car = carToEntity(&m.Car)
	}
	return b
}
