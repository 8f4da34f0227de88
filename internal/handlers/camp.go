package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"github.com/pushp314/bloodbridge-backend/pkg/utils"
)

type CreateCampInput struct {
	CampName  string `json:"campName" binding:"required,max=150"`
	Location  string `json:"location" binding:"required,max=200"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Details   string `json:"details" binding:"max=2000"`
}

func (in CreateCampInput) validate() *apperrors.AppError {
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return apperrors.BadRequest("date must be YYYY-MM-DD")
	}
	start, err := time.Parse("15:04", in.StartTime)
	if err != nil {
		return apperrors.BadRequest("startTime must be HH:MM")
	}
	end, err := time.Parse("15:04", in.EndTime)
	if err != nil {
		return apperrors.BadRequest("endTime must be HH:MM")
	}
	if !end.After(start) {
		return apperrors.BadRequest("endTime must be after startTime")
	}
	return nil
}

// CreateCamp handles POST /camps (verified hospital or admin)
func CreateCamp(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateCampInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if appErr := input.validate(); appErr != nil {
		abortWithError(c, appErr)
		return
	}

	camp := models.BloodCamp{
		HospitalID:   user.ID,
		HospitalName: user.DisplayName(),
		CampName:     utils.SanitizeHTML(strings.TrimSpace(input.CampName)),
		Location:     strings.TrimSpace(input.Location),
		Date:         input.Date,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Details:      utils.SanitizeHTML(strings.TrimSpace(input.Details)),
	}

	if err := database.DB.Create(&camp).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create camp")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post camp"})
		return
	}

	BroadcastToFeed("camp_created", camp)
	c.JSON(http.StatusCreated, gin.H{"camp": camp})
}

// ListCamps handles GET /camps. ?upcoming=true hides camps dated before today.
func ListCamps(c *gin.Context) {
	query := database.DB.Model(&models.BloodCamp{})
	if c.Query("upcoming") == "true" {
		query = query.Where("date >= ?", todayString())
	}
	if hospitalID := c.Query("hospitalId"); hospitalID != "" {
		query = query.Where("hospital_id = ?", hospitalID)
	}

	camps := []models.BloodCamp{}
	if err := query.Order("date ASC, start_time ASC").Find(&camps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"camps": camps})
}

// DeleteCamp handles DELETE /camps/:id (owning hospital or admin)
func DeleteCamp(c *gin.Context) {
	var camp models.BloodCamp
	if err := database.DB.First(&camp, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, apperrors.NotFound("Camp not found"))
		return
	}

	if camp.HospitalID != c.GetString("userId") && !isAdmin(c) {
		abortWithError(c, apperrors.Forbidden("You can only remove your own camps"))
		return
	}

	if err := database.DB.Delete(&camp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete camp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Camp deleted"})
}
