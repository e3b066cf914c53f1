package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/infrastructure/models"
)

// Columns the public listing API may sort on.
var carOrderableColumns = map[string]bool{
	"daily_rate": true,
	"year":       true,
	"make":       true,
	"category":   true,
	"created_at": true,
}

// CarRepository implements fleet data operations
type CarRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new car repository
func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

// Create creates a new fleet vehicle
func (r *CarRepository) Create(ctx context.Context, car *entities.Car) error {
	m, err := carToModel(car)
	if err != nil {
		return err
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	car.ID = m.ID
	car.CreatedAt = m.CreatedAt
	car.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a car by ID
func (r *CarRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Car, error) {
	var m models.Car
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return carToEntity(&m), nil
}

// List returns cars matching the filter with optional ordering and limit
func (r *CarRepository) List(ctx context.Context, filter entities.CarFilter) ([]*entities.Car, error) {
	q := r.db.WithContext(ctx).Model(&models.Car{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if order, ok := carOrderClause(filter.OrderBy); ok {
		q = q.Order(order)
	} else {
		q = q.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var ms []models.Car
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}

	cars := make([]*entities.Car, 0, len(ms))
	for i := range ms {
		cars = append(cars, carToEntity(&ms[i]))
	}
	return cars, nil
}

// Update persists mutable car fields
func (r *CarRepository) Update(ctx context.Context, car *entities.Car) error {
	m, err := carToModel(car)
	if err != nil {
		return err
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Car{}).
		Where("id = ?", car.ID).
		Updates(map[string]interface{}{
			"make":           m.Make,
			"model":          m.Model,
			"year":           m.Year,
			"category":       m.Category,
			"daily_rate":     m.DailyRate,
			"weekly_rate":    m.WeeklyRate,
			"monthly_rate":   m.MonthlyRate,
			"deposit_amount": m.DepositAmount,
			"specifications": m.Specifications,
			"license_plate":  m.LicensePlate,
			"image_url":      m.ImageURL,
			"location":       m.Location,
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

// UpdateStatus transitions a car's fleet status
func (r *CarRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CarStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Car{}).
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

// carOrderClause translates the API's "field" / "-field" sort syntax
func carOrderClause(orderBy string) (string, bool) {
	if orderBy == "" {
		return "", false
	}
	field := orderBy
	dir := "ASC"
	if strings.HasPrefix(orderBy, "-") {
		field = orderBy[1:]
		dir = "DESC"
	}
	if !carOrderableColumns[field] {
		return "", false
	}
	return field + " " + dir, true
}

func carToModel(car *entities.Car) (*models.Car, error) {
	specs, err := json.Marshal(car.Specifications)
	if err != nil {
		return nil, err
	}
	return &models.Car{
		ID:             car.ID,
		Make:           car.Make,
		Model:          car.Model,
		Year:           car.Year,
		Category:       string(car.Category),
		DailyRate:      car.DailyRate,
		WeeklyRate:     car.WeeklyRate,
		MonthlyRate:    car.MonthlyRate,
		DepositAmount:  car.DepositAmount,
		Status:         string(car.Status),
		Specifications: string(specs),
		LicensePlate:   car.LicensePlate.Ptr(),
		ImageURL:       car.ImageURL.Ptr(),
		Location:       car.Location.Ptr(),
		CreatedBy:      car.CreatedBy,
		CreatedAt:      car.CreatedAt,
		UpdatedAt:      car.UpdatedAt,
	}, nil
}

func carToEntity(m *models.Car) *entities.Car {
	var specs entities.CarSpecifications
	if m.Specifications != "" {
		_ = json.Unmarshal([]byte(m.Specifications), &specs)
	}
	return &entities.Car{
		ID:             m.ID,
		Make:           m.Make,
		Model:          m.Model,
		Year:           m.Year,
		Category:       entities.CarCategory(m.Category),
		DailyRate:      m.DailyRate,
		WeeklyRate:     m.WeeklyRate,
		MonthlyRate:    m.MonthlyRate,
		DepositAmount:  m.DepositAmount,
		Status:         entities.CarStatus(m.Status),
		Specifications: specs,
		LicensePlate:   null.StringFromPtr(m.LicensePlate),
		ImageURL:       null.StringFromPtr(m.ImageURL),
		Location:       null.StringFromPtr(m.Location),
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
