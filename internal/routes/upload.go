package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
)

func RegisterUploadRoutes(r gin.IRouter) {
	r.POST("/upload",
		middleware.AuthMiddleware(),
		middleware.UserRateLimit("upload", 30, time.Hour),
		handlers.UploadFile,
	)
}
