package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"alquilar.backend/internal/interfaces/http/middleware"
)

// authAs injects authenticated user claims the way AuthMiddleware would
func authAs(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
	}
}
