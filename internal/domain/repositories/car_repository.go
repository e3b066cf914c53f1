package repositories

import (
	"context"

	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
)

// CarRepository defines fleet data operations
type CarRepository interface {
	Create(ctx context.Context, car *entities.Car) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Car, error)
	List(ctx context.Context, filter entities.CarFilter) ([]*entities.Car, error)
	Update(ctx context.Context, car *entities.Car) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CarStatus) error
}
