package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
)

func RegisterAdminRoutes(rg gin.IRouter) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.GET("/stats", handlers.AdminGetStats)
	admin.GET("/audit-logs", handlers.AdminGetAuditLogs)

	// Users
	admin.GET("/users", handlers.AdminListUsers)
	admin.DELETE("/users/:id", handlers.AdminDeleteUser)

	// Hospitals
	admin.GET("/hospitals/pending", handlers.AdminListPendingHospitals)
	admin.POST("/hospitals/:id/approve", handlers.AdminApproveHospital)

	// Stories
	admin.GET("/stories/pending", handlers.AdminListPendingStories)
	admin.POST("/stories/:id/approve", handlers.AdminApproveStory)
	admin.DELETE("/stories/:id", handlers.AdminDeleteStory)
}
