package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"alquilar.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context, limit, offset int) ([]*entities.User, int, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateIdentification(ctx context.Context, id uuid.UUID, ident entities.Identification) error
	// AdjustBalance applies a signed delta to the stored balance and fails if
	// the result would go negative. Must be called inside a UnitOfWork scope
	// together with the matching payment row write.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}
