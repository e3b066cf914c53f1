package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "alquilar.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response, mapping domain errors to HTTP status codes
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromSentinel(err)
	}

	c.JSON(appErr.Code, gin.H{
		"error": appErr.Message,
	})
}

// fromSentinel wraps bare domain sentinels in an AppError with the right
// status. Unknown errors become a 500 without leaking their message.
func fromSentinel(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("Resource not found")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict("Resource already exists", err)
	case errors.Is(err, domainerrors.ErrCarUnavailable):
		return domainerrors.Conflict("Car is not available for the requested dates", err)
	case errors.Is(err, domainerrors.ErrInvalidDateRange):
		return domainerrors.BadRequest("Invalid date range")
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrInsufficientFunds):
		return domainerrors.PaymentRequired("Insufficient account balance", err)
	case errors.Is(err, domainerrors.ErrPaymentDeclined):
		return domainerrors.PaymentRequired("Payment was declined", err)
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.Unauthorized("Invalid email or password")
	case errors.Is(err, domainerrors.ErrTokenExpired), errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("Unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("Forbidden")
	default:
		return domainerrors.InternalError(err)
	}
}
