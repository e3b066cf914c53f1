package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m, err := userToModel(user)
	if err != nil {
		return err
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// List returns users with pagination, newest first
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entities.User, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var ms []models.User
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(ms))
	for i := range ms {
		users = append(users, userToEntity(&ms[i]))
	}
	return users, int(total), nil
}

// Update persists mutable profile fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	m, err := userToModel(user)
	if err != nil {
		return err
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":            m.Name,
			"address":         m.Address,
			"profile_image":   m.ProfileImage,
			"payment_methods": m.PaymentMethods,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword rotates the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateIdentification stores a document submission or an admin decision
func (r *UserRepository) UpdateIdentification(ctx context.Context, id uuid.UUID, ident entities.Identification) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"document_type":       ident.DocumentType.Ptr(),
			"document_number":     ident.DocumentNumber.Ptr(),
			"document_url":        ident.DocumentURL.Ptr(),
			"verification_status": string(ident.VerificationStatus),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// AdjustBalance applies a signed delta to the stored balance in a single
// guarded UPDATE, so two concurrent debits can never both read the same
// starting value. The guard in the WHERE clause rejects any delta that would
// take the balance negative and leaves the row untouched. Runs through the
// transaction-aware handle so that, inside a UnitOfWork scope, the debit and
// the payment row commit or roll back together.
func (r *UserRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	db := GetDB(ctx, r.db)

	result := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND account_balance + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"account_balance": gorm.Expr("account_balance + ?", delta),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Zero rows: either the user is missing or the guard fired.
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrInsufficientFunds
}

func userToModel(user *entities.User) (*models.User, error) {
	methods, err := json.Marshal(user.PaymentMethods)
	if err != nil {
		return nil, err
	}
	status := user.Identification.VerificationStatus
	if status == "" {
		status = entities.VerificationStatusNone
	}
	return &models.User{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               string(user.Role),
		PasswordHash:       user.PasswordHash,
		AccountBalance:     user.AccountBalance,
		DocumentType:       user.Identification.DocumentType.Ptr(),
		DocumentNumber:     user.Identification.DocumentNumber.Ptr(),
		DocumentURL:        user.Identification.DocumentURL.Ptr(),
		VerificationStatus: string(status),
		Address:            user.Address.Ptr(),
		ProfileImage:       user.ProfileImage.Ptr(),
		PaymentMethods:     string(methods),
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}, nil
}

func userToEntity(m *models.User) *entities.User {
	var methods []entities.PaymentMethod
	if m.PaymentMethods != "" {
		_ = json.Unmarshal([]byte(m.PaymentMethods), &methods)
	}
	return &entities.User{
		ID:             m.ID,
		Email:          m.Email,
		Name:           m.Name,
		Role:           entities.UserRole(m.Role),
		PasswordHash:   m.PasswordHash,
		AccountBalance: m.AccountBalance,
		Identification: entities.Identification{
			DocumentType:       null.StringFromPtr(m.DocumentType),
			DocumentNumber:     null.StringFromPtr(m.DocumentNumber),
			DocumentURL:        null.StringFromPtr(m.DocumentURL),
			VerificationStatus: entities.VerificationStatus(m.VerificationStatus),
		},
		Address:        null.StringFromPtr(m.Address),
		ProfileImage:   null.StringFromPtr(m.ProfileImage),
		PaymentMethods: methods,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
