package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/domain/repositories"
)

// CarUsecase handles fleet catalogue business logic
type CarUsecase struct {
	carRepo repositories.CarRepository
}

// NewCarUsecase creates a new car usecase
func NewCarUsecase(carRepo repositories.CarRepository) *CarUsecase {
	return &CarUsecase{carRepo: carRepo}
}

// List returns fleet vehicles matching the filter
func (u *CarUsecase) List(ctx context.Context, filter entities.CarFilter) ([]*entities.Car, error) {
	return u.carRepo.List(ctx, filter)
}

// Get returns a single fleet vehicle
func (u *CarUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Car, error) {
	return u.carRepo.GetByID(ctx, id)
}

// Create adds a vehicle to the fleet
func (u *CarUsecase) Create(ctx context.Context, createdBy uuid.UUID, input *entities.CreateCarInput) (*entities.Car, error) {
	if !input.DailyRate.IsPositive() {
		return nil, domainerrors.ErrInvalidInput
	}

	car := &entities.Car{
		ID:             uuid.New(),
		Make:           input.Make,
		Model:          input.Model,
		Year:           input.Year,
		Category:       input.Category,
		DailyRate:      input.DailyRate,
		WeeklyRate:     input.WeeklyRate,
		MonthlyRate:    input.MonthlyRate,
		DepositAmount:  input.DepositAmount,
		Status:         entities.CarStatusAvailable,
		Specifications: input.Specifications,
		CreatedBy:      &createdBy,
	}
	if input.LicensePlate != "" {
		car.LicensePlate = null.StringFrom(input.LicensePlate)
	}
	if input.ImageURL != "" {
		car.ImageURL = null.StringFrom(input.ImageURL)
	}
	if input.Location != "" {
		car.Location = null.StringFrom(input.Location)
	}

	if err := u.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// Update persists mutable fields on a fleet vehicle
func (u *CarUsecase) Update(ctx context.Context, car *entities.Car) error {
	if !car.DailyRate.IsPositive() {
		return domainerrors.ErrInvalidInput
	}
	return u.carRepo.Update(ctx, car)
}

// UpdateStatus transitions a car's fleet status
func (u *CarUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CarStatus) error {
	if !entities.ValidCarStatus(status) {
		return domainerrors.ErrInvalidInput
	}
	return u.carRepo.UpdateStatus(ctx, id, status)
}
