package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
)

func RegisterRequestRoutes(r gin.IRouter) {
	requests := r.Group("/requests")

	requests.GET("/active", handlers.ListActiveRequests)

	protected := requests.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", middleware.UserRateLimit("requests", 10, time.Hour), handlers.CreateBloodRequest)
		protected.GET("/my", handlers.ListMyRequests)
		protected.PATCH("/:id/fulfill", handlers.FulfillRequest)
		protected.DELETE("/:id", handlers.DeleteRequest)
	}
}
