package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/handlers"
)

// Eligibility is a public self-check; answers are never stored.
func RegisterEligibilityRoutes(r gin.IRouter) {
	e := r.Group("/eligibility")
	e.GET("/questions", handlers.GetEligibilityQuestions)
	e.POST("/check", handlers.CheckEligibility)
}
