package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
	"github.com/pushp314/bloodbridge-backend/internal/models"
)

func RegisterCampRoutes(r gin.IRouter) {
	camps := r.Group("/camps")
	camps.GET("", handlers.ListCamps)
	camps.POST("", middleware.AuthMiddleware(), middleware.VerifiedHospitalOrAdmin(), handlers.CreateCamp)
	camps.DELETE("/:id",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleHospital, models.RoleAdmin),
		handlers.DeleteCamp,
	)
}
