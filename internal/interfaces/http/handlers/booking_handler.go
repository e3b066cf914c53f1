package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/interfaces/http/middleware"
	"alquilar.backend/internal/interfaces/http/response"
	"alquilar.backend/pkg/utils"
)

type bookingService interface {
	Quote(ctx context.Context, input *entities.BookingQuoteInput) (*entities.BookingQuoteResponse, error)
	Create(ctx context.Context, userID uuid.UUID, input *entities.CreateBookingInput) (*entities.CreateBookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Booking, int, error)
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*entities.Booking, error)
	GetBookingByReference(ctx context.Context, reference string, requesterID uuid.UUID, isAdmin bool) (*entities.Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*entities.Booking, error)
}

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookings bookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings bookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// paginationFromQuery parses page/limit query params with defaults
func paginationFromQuery(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return utils.GetPaginationParams(page, limit)
}

// Quote prices a prospective booking without reserving anything
// POST /api/v1/bookings/quote
func (h *BookingHandler) Quote(c *gin.Context) {
	var input entities.BookingQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	quote, err := h.bookings.Quote(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

// CreateBooking runs the full booking workflow
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	resp, err := h.bookings.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ListMyBookings returns the caller's bookings, newest first
// GET /api/v1/bookings
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	p := paginationFromQuery(c)
	bookings, total, err := h.bookings.GetUserBookings(c.Request.Context(), userID, p.Limit, p.CalculateOffset())
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

// GetBooking returns a single booking, owner or admin only
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid booking ID"))
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// GetBookingByReference looks up a booking by its ALQ reference
// GET /api/v1/bookings/reference/:reference
func (h *BookingHandler) GetBookingByReference(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	booking, err := h.bookings.GetBookingByReference(c.Request.Context(), c.Param("reference"), userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// CancelBooking cancels a pending or confirmed booking
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid booking ID"))
		return
	}

	booking, err := h.bookings.Cancel(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}
