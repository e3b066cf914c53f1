package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/interfaces/http/response"
	"alquilar.backend/pkg/utils"
)

type adminUserService interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, int, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	VerifyIdentity(ctx context.Context, input *entities.VerifyIdentityInput) error
}

type adminBookingService interface {
	ListBookings(ctx context.Context, limit, offset int) ([]*entities.Booking, int, error)
}

type fleetLister interface {
	List(ctx context.Context, filter entities.CarFilter) ([]*entities.Car, error)
}

// AdminHandler handles back office endpoints
type AdminHandler struct {
	users    adminUserService
	bookings adminBookingService
	fleet    fleetLister
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users adminUserService, bookings adminBookingService, fleet fleetLister) *AdminHandler {
	return &AdminHandler{users: users, bookings: bookings, fleet: fleet}
}

// ListUsers lists all accounts
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	p := paginationFromQuery(c)
	users, total, err := h.users.ListUsers(c.Request.Context(), p.Limit, p.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	if users == nil {
		users = []*entities.User{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}

// GetUser returns a single account
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// VerifyIdentity records the review decision on a pending submission
// POST /api/v1/admin/users/:id/verify-identity
func (h *AdminHandler) VerifyIdentity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input struct {
		Status entities.VerificationStatus `json:"status" binding:"required"`
		Notes  string                      `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	err = h.users.VerifyIdentity(c.Request.Context(), &entities.VerifyIdentityInput{
		UserID: id,
		Status: input.Status,
		Notes:  input.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Verification decision recorded", "status": input.Status})
}

// ListBookings lists all bookings across users
// GET /api/v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	p := paginationFromQuery(c)
	bookings, total, err := h.bookings.ListBookings(c.Request.Context(), p.Limit, p.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	if bookings == nil {
		bookings = []*entities.Booking{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings":   bookings,
		"pagination": utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}

// GetStats returns dashboard counts
// GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	_, totalUsers, err := h.users.ListUsers(ctx, 1, 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	_, totalBookings, err := h.bookings.ListBookings(ctx, 1, 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	cars, err := h.fleet.List(ctx, entities.CarFilter{})
	if err != nil {
		response.Error(c, err)
		return
	}

	fleet := gin.H{
		"total":       len(cars),
		"available":   0,
		"rented":      0,
		"maintenance": 0,
		"retired":     0,
	}
	for _, car := range cars {
		key := string(car.Status)
		if n, ok := fleet[key].(int); ok {
			fleet[key] = n + 1
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"totalUsers":    totalUsers,
		"totalBookings": totalBookings,
		"fleet":         fleet,
	})
}
