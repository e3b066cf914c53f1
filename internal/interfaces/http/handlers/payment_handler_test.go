package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
)

type paymentServiceStub struct {
	depositFn func(ctx context.Context, userID uuid.UUID, input *entities.DepositInput) (*entities.Payment, error)
	listFn    func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Payment, int, error)
	getFn     func(ctx context.Context, paymentID, requesterID uuid.UUID, isAdmin bool) (*entities.Payment, error)
}

func (s *paymentServiceStub) Deposit(ctx context.Context, userID uuid.UUID, input *entities.DepositInput) (*entities.Payment, error) {
	return s.depositFn(ctx, userID, input)
}

func (s *paymentServiceStub) GetUserPayments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Payment, int, error) {
	return s.listFn(ctx, userID, limit, offset)
}

func (s *paymentServiceStub) GetPayment(ctx context.Context, paymentID, requesterID uuid.UUID, isAdmin bool) (*entities.Payment, error) {
	return s.getFn(ctx, paymentID, requesterID, isAdmin)
}

func TestPaymentHandler_Deposit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	stub := &paymentServiceStub{
		depositFn: func(_ context.Context, gotUser uuid.UUID, input *entities.DepositInput) (*entities.Payment, error) {
			require.Equal(t, userID, gotUser)
			require.True(t, input.Amount.Equal(decimal.NewFromInt(500)))
			require.Equal(t, entities.PaymentMethodCreditCard, input.Method)
			return &entities.Payment{
				ID:     uuid.New(),
				Amount: input.Amount,
				Type:   entities.PaymentTypeDeposit,
				Status: entities.PaymentStatusCompleted,
			}, nil
		},
	}
	h := NewPaymentHandler(stub)
	r := gin.New()
	r.POST("/payments/deposit", authAs(userID, "user"), h.Deposit)

	body := `{"amount":"500","paymentMethod":"credit_card"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/deposit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"paymentType":"deposit"`)
}

func TestPaymentHandler_Deposit_Declined(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &paymentServiceStub{
		depositFn: func(context.Context, uuid.UUID, *entities.DepositInput) (*entities.Payment, error) {
			return nil, domainerrors.ErrPaymentDeclined
		},
	}
	h := NewPaymentHandler(stub)
	r := gin.New()
	r.POST("/payments/deposit", authAs(uuid.New(), "user"), h.Deposit)

	body := `{"amount":"500","paymentMethod":"credit_card"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/deposit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestPaymentHandler_ListMyPayments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	stub := &paymentServiceStub{
		listFn: func(_ context.Context, gotUser uuid.UUID, limit, offset int) ([]*entities.Payment, int, error) {
			require.Equal(t, userID, gotUser)
			return []*entities.Payment{{ID: uuid.New(), Status: entities.PaymentStatusCompleted}}, 1, nil
		},
	}
	h := NewPaymentHandler(stub)
	r := gin.New()
	r.GET("/payments", authAs(userID, "user"), h.ListMyPayments)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"totalCount":1`)
}

func TestPaymentHandler_GetPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	paymentID := uuid.New()

	stub := &paymentServiceStub{
		getFn: func(_ context.Context, gotPayment, _ uuid.UUID, _ bool) (*entities.Payment, error) {
			if gotPayment != paymentID {
				return nil, domainerrors.ErrNotFound
			}
			return &entities.Payment{ID: paymentID}, nil
		},
	}
	h := NewPaymentHandler(stub)
	r := gin.New()
	r.GET("/payments/:id", authAs(uuid.New(), "user"), h.GetPayment)

	req := httptest.NewRequest(http.MethodGet, "/payments/"+paymentID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/payments/"+uuid.NewString(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/payments/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
