package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
)

// abortWithError writes the error response and records it on the context for
// the request logger.
func abortWithError(c *gin.Context, err *apperrors.AppError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

// currentUser loads the authenticated user, writing a 401 when it cannot.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID := c.GetString("userId")
	if userID == "" {
		abortWithError(c, apperrors.ErrUnauthorized)
		return nil, false
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		abortWithError(c, apperrors.Unauthorized("User not found"))
		return nil, false
	}
	return &user, true
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == string(models.RoleAdmin)
}

// pagination reads ?limit=&offset= with a default page of 50 and a cap of 100.
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// todayString is the current date in the YYYY-MM-DD form camps are stored in.
func todayString() string {
	return time.Now().Format("2006-01-02")
}
