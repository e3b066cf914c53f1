package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/interfaces/http/middleware"
	"alquilar.backend/internal/interfaces/http/response"
	"alquilar.backend/pkg/utils"
)

type paymentService interface {
	Deposit(ctx context.Context, userID uuid.UUID, input *entities.DepositInput) (*entities.Payment, error)
	GetUserPayments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Payment, int, error)
	GetPayment(ctx context.Context, paymentID, requesterID uuid.UUID, isAdmin bool) (*entities.Payment, error)
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	payments paymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Deposit tops up the caller's account balance via an external method
// POST /api/v1/payments/deposit
func (h *PaymentHandler) Deposit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.DepositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	payment, err := h.payments.Deposit(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"payment": payment})
}

// ListMyPayments returns the caller's payment history, newest first
// GET /api/v1/payments
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	p := paginationFromQuery(c)
	payments, total, err := h.payments.GetUserPayments(c.Request.Context(), userID, p.Limit, p.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	if payments == nil {
		payments = []*entities.Payment{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}

// GetPayment returns a single payment, owner or admin only
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid payment ID"))
		return
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}
