package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
)

func RegisterPaymentRoutes(r gin.IRouter) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/order", handlers.CreateOrder)
		payments.POST("/verify", handlers.VerifyPayment)
	}
}
