package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/interfaces/http/middleware"
	"alquilar.backend/internal/interfaces/http/response"
)

type carService interface {
	List(ctx context.Context, filter entities.CarFilter) ([]*entities.Car, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Car, error)
	Create(ctx context.Context, createdBy uuid.UUID, input *entities.CreateCarInput) (*entities.Car, error)
	Update(ctx context.Context, car *entities.Car) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.CarStatus) error
}

// CarHandler handles fleet endpoints
type CarHandler struct {
	cars carService
}

// NewCarHandler creates a new car handler
func NewCarHandler(cars carService) *CarHandler {
	return &CarHandler{cars: cars}
}

// ListCars lists the fleet with optional filters
// GET /api/v1/cars
func (h *CarHandler) ListCars(c *gin.Context) {
	var filter entities.CarFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	cars, err := h.cars.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if cars == nil {
		cars = []*entities.Car{}
	}

	response.Success(c, http.StatusOK, gin.H{"cars": cars})
}

// GetCar returns a single fleet vehicle
// GET /api/v1/cars/:id
func (h *CarHandler) GetCar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid car ID"))
		return
	}

	car, err := h.cars.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"car": car})
}

// CreateCar adds a vehicle to the fleet
// POST /api/v1/admin/cars
func (h *CarHandler) CreateCar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.CreateCarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	car, err := h.cars.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"car": car})
}

// UpdateCar replaces a vehicle's editable fields
// PUT /api/v1/admin/cars/:id
func (h *CarHandler) UpdateCar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid car ID"))
		return
	}

	var input entities.CreateCarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	car, err := h.cars.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	car.Make = input.Make
	car.Model = input.Model
	car.Year = input.Year
	car.Category = input.Category
	car.DailyRate = input.DailyRate
	car.WeeklyRate = input.WeeklyRate
	car.MonthlyRate = input.MonthlyRate
	car.DepositAmount = input.DepositAmount
	car.Specifications = input.Specifications
	car.LicensePlate = null.NewString(input.LicensePlate, input.LicensePlate != "")
	car.ImageURL = null.NewString(input.ImageURL, input.ImageURL != "")
	car.Location = null.NewString(input.Location, input.Location != "")

	if err := h.cars.Update(c.Request.Context(), car); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"car": car})
}

// UpdateCarStatus transitions a vehicle's fleet status
// PUT /api/v1/admin/cars/:id/status
func (h *CarHandler) UpdateCarStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid car ID"))
		return
	}

	var input entities.UpdateCarStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.cars.UpdateStatus(c.Request.Context(), id, input.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Car status updated", "status": input.Status})
}
