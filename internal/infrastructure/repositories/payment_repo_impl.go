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

// PaymentRepository implements payment data operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	m := paymentToModel(payment)

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	payment.ID = m.ID
	payment.CreatedAt = m.CreatedAt
	payment.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	var m models.Payment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return paymentToEntity(&m), nil
}

// GetByUserID gets payments for a user with pagination, newest first
func (r *PaymentRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Payment, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var ms []models.Payment
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	payments := make([]*entities.Payment, 0, len(ms))
	for i := range ms {
		payments = append(payments, paymentToEntity(&ms[i]))
	}
	return payments, int(total), nil
}

// MarkCompleted transitions a pending payment to completed
func (r *PaymentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, transactionID string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, entities.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         entities.PaymentStatusCompleted,
			"transaction_id": transactionID,
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

// MarkFailed transitions a pending payment to failed with a reason
func (r *PaymentRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, entities.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         entities.PaymentStatusFailed,
			"failure_reason": reason,
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

// MarkRefunded transitions a completed payment to refunded
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, entities.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"status":     entities.PaymentStatusRefunded,
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

func paymentToModel(p *entities.Payment) *models.Payment {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	return &models.Payment{
		ID:            p.ID,
		UserID:        p.UserID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Currency:      currency,
		Method:        string(p.Method),
		Type:          string(p.Type),
		Status:        string(p.Status),
		TransactionID: p.TransactionID.Ptr(),
		FailureReason: p.FailureReason.Ptr(),
		Description:   p.Description.Ptr(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func paymentToEntity(m *models.Payment) *entities.Payment {
	return &entities.Payment{
		ID:            m.ID,
		UserID:        m.UserID,
		BookingID:     m.BookingID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Method:        entities.PaymentMethodKind(m.Method),
		Type:          entities.PaymentType(m.Type),
		Status:        entities.PaymentStatus(m.Status),
		TransactionID: null.StringFromPtr(m.TransactionID),
		FailureReason: null.StringFromPtr(m.FailureReason),
		Description:   null.StringFromPtr(m.Description),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
