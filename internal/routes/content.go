package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
	"github.com/pushp314/bloodbridge-backend/internal/models"
)

func RegisterContentRoutes(r gin.IRouter) {
	stories := r.Group("/stories")
	{
		stories.GET("", handlers.ListStories)
		stories.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetStory)
		stories.POST("", middleware.AuthMiddleware(), middleware.UserRateLimit("stories", 5, 24*time.Hour), handlers.CreateStory)
	}

	blog := r.Group("/blog")
	{
		blog.GET("", handlers.ListBlogPosts)
		blog.GET("/:id", handlers.GetBlogPost)
		blog.POST("",
			middleware.AuthMiddleware(),
			middleware.RequireRole(models.RoleHospital, models.RoleAdmin),
			handlers.CreateBlogPost,
		)
	}
}
