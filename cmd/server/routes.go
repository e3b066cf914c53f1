package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"alquilar.backend/internal/interfaces/http/handlers"
	"alquilar.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	carHandler     *handlers.CarHandler
	bookingHandler *handlers.BookingHandler
	paymentHandler *handlers.PaymentHandler
	chatHandler    *handlers.ChatHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", middleware.MetricsHandler())
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public, except me/change-password)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// Fleet routes (public read)
		cars := v1.Group("/cars")
		{
			cars.GET("", d.carHandler.ListCars)
			cars.GET("/:id", d.carHandler.GetCar)
		}

		// Booking routes (protected)
		bookings := v1.Group("/bookings")
		bookings.Use(d.authMiddleware)
		{
			bookings.POST("/quote", d.bookingHandler.Quote)
			bookings.POST("", middleware.IdempotencyMiddleware(), d.bookingHandler.CreateBooking)
			bookings.GET("", d.bookingHandler.ListMyBookings)
			bookings.GET("/:id", d.bookingHandler.GetBooking)
			bookings.GET("/reference/:reference", d.bookingHandler.GetBookingByReference)
			bookings.POST("/:id/cancel", d.bookingHandler.CancelBooking)
		}

		// Payment routes (protected)
		payments := v1.Group("/payments")
		payments.Use(d.authMiddleware)
		{
			payments.POST("/deposit", middleware.IdempotencyMiddleware(), d.paymentHandler.Deposit)
			payments.GET("", d.paymentHandler.ListMyPayments)
			payments.GET("/:id", d.paymentHandler.GetPayment)
		}

		// Profile routes (protected)
		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.GET("/me", d.userHandler.GetProfile)
			users.PUT("/me", d.userHandler.UpdateProfile)
			users.POST("/me/identification", d.userHandler.SubmitIdentification)
		}

		// Support chat routes (protected)
		chats := v1.Group("/chats")
		chats.Use(d.authMiddleware)
		{
			chats.POST("", d.chatHandler.CreateChat)
			chats.GET("", d.chatHandler.ListMyChats)
			chats.GET("/:id/messages", d.chatHandler.GetMessages)
			chats.POST("/:id/messages", d.chatHandler.SendMessage)
			chats.GET("/:id/stream", d.chatHandler.StreamMessages)
		}

		// Back office routes (admin only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/cars", d.carHandler.CreateCar)
			admin.PUT("/cars/:id", d.carHandler.UpdateCar)
			admin.PUT("/cars/:id/status", d.carHandler.UpdateCarStatus)

			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/users/:id", d.adminHandler.GetUser)
			admin.POST("/users/:id/verify-identity", d.adminHandler.VerifyIdentity)

			admin.GET("/bookings", d.adminHandler.ListBookings)
			admin.PUT("/chats/:id/status", d.chatHandler.UpdateChatStatus)
			admin.GET("/stats", d.adminHandler.GetStats)
		}
	}
}
