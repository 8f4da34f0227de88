package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
	"github.com/pushp314/bloodbridge-backend/internal/models"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		// Specific paths first
		profile := users.Group("/profile")
		profile.Use(middleware.AuthMiddleware())
		{
			profile.GET("", handlers.GetProfile)
			profile.PUT("", handlers.UpdateProfile)
		}

		users.GET("/lookup",
			middleware.AuthMiddleware(),
			middleware.RequireRole(models.RoleHospital, models.RoleAdmin),
			handlers.LookupDonor,
		)

		users.GET("/:id/badges", handlers.GetDonorBadges)
	}

	r.GET("/donors", handlers.FindDonors)
	r.GET("/hospitals", handlers.ListHospitals)
}
