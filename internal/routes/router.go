package routes

import (
	"strings"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
	"github.com/pushp314/bloodbridge-backend/internal/middleware"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
)

// NewRouter builds the engine with every middleware and API route. A nil
// socket server leaves /socket.io unmounted.
func NewRouter(socketServer *socketio.Server) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())

	// Socket.io polling would exhaust the general limit
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/socket.io/") {
			c.Next()
			return
		}
		middleware.GeneralRateLimit()(c)
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		RegisterAuthRoutes(auth)

		RegisterUserRoutes(api)
		RegisterEligibilityRoutes(api)
		RegisterRequestRoutes(api)
		RegisterCampRoutes(api)
		RegisterBookingRoutes(api)
		RegisterDonationRoutes(api)
		RegisterPaymentRoutes(api)
		RegisterContentRoutes(api)
		RegisterUploadRoutes(api)
		RegisterAdminRoutes(api)
	}

	r.GET("/health", healthCheck)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(apperrors.ErrNotFound.Code, gin.H{"error": apperrors.ErrNotFound.Message})
	})

	if socketServer != nil {
		r.GET("/socket.io/*any", handlers.SocketHandler(socketServer))
		r.POST("/socket.io/*any", handlers.SocketHandler(socketServer))
	}

	return r
}

func healthCheck(c *gin.Context) {
	dbStatus := "ok"
	if !database.Ping() {
		dbStatus = "error"
	}

	redisStatus := "ok"
	if database.Redis != nil {
		if err := database.Redis.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error"
		}
	} else {
		redisStatus = "not configured"
	}

	status := "ok"
	if dbStatus != "ok" || redisStatus == "error" {
		status = "degraded"
	}

	c.JSON(200, gin.H{
		"status":  status,
		"message": "BloodBridge backend is running",
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
