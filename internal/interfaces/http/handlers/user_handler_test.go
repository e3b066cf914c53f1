package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"alquilar.backend/internal/domain/entities"
)

type userServiceStub struct {
	getProfileFn func(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	updateFn     func(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
	submitIDFn   func(ctx context.Context, userID uuid.UUID, input *entities.SubmitIdentificationInput) error
}

func (s *userServiceStub) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.getProfileFn(ctx, userID)
}

func (s *userServiceStub) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	return s.updateFn(ctx, userID, input)
}

func (s *userServiceStub) SubmitIdentification(ctx context.Context, userID uuid.UUID, input *entities.SubmitIdentificationInput) error {
	return s.submitIDFn(ctx, userID, input)
}

func TestUserHandler_GetProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	stub := &userServiceStub{
		getProfileFn: func(_ context.Context, id uuid.UUID) (*entities.User, error) {
			require.Equal(t, userID, id)
			return &entities.User{ID: id, Name: "Client"}, nil
		},
	}
	h := NewUserHandler(stub)
	r := gin.New()
	r.GET("/users/me", authAs(userID, "user"), h.GetProfile)
	r.GET("/users/me-unauth", h.GetProfile)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Client")

	req = httptest.NewRequest(http.MethodGet, "/users/me-unauth", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	stub := &userServiceStub{
		updateFn: func(_ context.Context, id uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
			require.Equal(t, "New Name", input.Name)
			return &entities.User{ID: id, Name: input.Name}, nil
		},
	}
	h := NewUserHandler(stub)
	r := gin.New()
	r.PUT("/users/me", authAs(userID, "user"), h.UpdateProfile)

	req := httptest.NewRequest(http.MethodPut, "/users/me", strings.NewReader(`{"name":"New Name"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "New Name")
}

func TestUserHandler_SubmitIdentification(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	stub := &userServiceStub{
		submitIDFn: func(_ context.Context, id uuid.UUID, input *entities.SubmitIdentificationInput) error {
			require.Equal(t, userID, id)
			require.Equal(t, "passport", input.DocumentType)
			return nil
		},
	}
	h := NewUserHandler(stub)
	r := gin.New()
	r.POST("/users/me/identification", authAs(userID, "user"), h.SubmitIdentification)

	body := `{"documentType":"passport","documentNumber":"X1234567"}`
	req := httptest.NewRequest(http.MethodPost, "/users/me/identification", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), `"status":"pending"`)

	// documentNumber is required
	req = httptest.NewRequest(http.MethodPost, "/users/me/identification",
		strings.NewReader(`{"documentType":"passport"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
