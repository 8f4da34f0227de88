package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	// Logout needs the claims to revoke the token
	r.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
	r.GET("/verify-email", handlers.VerifyEmail)

	r.POST("/forgot-password", handlers.ForgotPassword)
	r.POST("/reset-password", handlers.ResetPassword)
}
