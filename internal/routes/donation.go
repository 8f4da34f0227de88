package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
)

func RegisterDonationRoutes(r gin.IRouter) {
	donations := r.Group("/donations")
	donations.Use(middleware.AuthMiddleware())
	{
		donations.POST("", middleware.VerifiedHospitalOrAdmin(), handlers.ConfirmDonation)
		donations.GET("/my", handlers.ListMyDonations)
		donations.GET("/hospital", middleware.VerifiedHospitalOrAdmin(), handlers.ListHospitalDonations)
	}
}
