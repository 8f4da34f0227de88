package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
	"github.com/pushp314/bloodbridge-backend/internal/models"
)

func RegisterBookingRoutes(r gin.IRouter) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("",
			middleware.RequireRole(models.RoleDonor),
			middleware.UserRateLimit("bookings", 20, time.Hour),
			handlers.CreateBooking,
		)
		bookings.GET("/my", handlers.ListMyBookings)
		bookings.GET("/hospital", middleware.VerifiedHospitalOrAdmin(), handlers.ListHospitalBookings)
		bookings.PATCH("/:id/status", middleware.VerifiedHospitalOrAdmin(), handlers.UpdateBookingStatus)
	}
}
