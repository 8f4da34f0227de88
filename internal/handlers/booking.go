package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"gorm.io/gorm"
)

// openBookingStatuses still hold a slot and can be completed.
var openBookingStatuses = []models.BookingStatus{models.BookingPending, models.BookingApproved}

var errDuplicateBooking = apperrors.Conflict("You already have a booking for this date")

type CreateBookingInput struct {
	OpportunityID   string `json:"opportunityId" binding:"required"`
	OpportunityType string `json:"opportunityType" binding:"required,oneof=camp hospital"`
	RequestedDate   string `json:"requestedDate" binding:"required"`
	RequestedTime   string `json:"requestedTime" binding:"required"`
}

// resolveOpportunity returns the display name and managing hospital for a
// booking target.
func resolveOpportunity(kind models.OpportunityType, id string) (name, hospitalID string, appErr *apperrors.AppError) {
	switch kind {
	case models.OpportunityCamp:
		var camp models.BloodCamp
		if err := database.DB.First(&camp, "id = ?", id).Error; err != nil {
			return "", "", apperrors.NotFound("Camp not found")
		}
		return camp.CampName, camp.HospitalID, nil
	default:
		var hospital models.User
		if err := database.DB.Where("id = ? AND role = ? AND is_verified = ?", id, models.RoleHospital, true).
			First(&hospital).Error; err != nil {
			return "", "", apperrors.NotFound("Hospital not found")
		}
		return hospital.DisplayName(), hospital.ID, nil
	}
}

// CreateBooking handles POST /bookings (donors only)
func CreateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", input.RequestedDate); err != nil {
		abortWithError(c, apperrors.BadRequest("requestedDate must be YYYY-MM-DD"))
		return
	}
	if _, err := time.Parse("15:04", input.RequestedTime); err != nil {
		abortWithError(c, apperrors.BadRequest("requestedTime must be HH:MM"))
		return
	}

	kind := models.OpportunityType(input.OpportunityType)
	name, hospitalID, appErr := resolveOpportunity(kind, input.OpportunityID)
	if appErr != nil {
		abortWithError(c, appErr)
		return
	}

	var open int64
	if err := database.DB.Model(&models.Booking{}).
		Where("user_id = ? AND opportunity_id = ? AND requested_date = ? AND status IN ?",
			user.ID, input.OpportunityID, input.RequestedDate, openBookingStatuses).
		Count(&open).Error; err != nil {
		logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to check open bookings")
		abortWithError(c, apperrors.Internal("Failed to create booking"))
		return
	}
	if open > 0 {
		abortWithError(c, errDuplicateBooking)
		return
	}

	booking := models.Booking{
		UserID:          user.ID,
		UserName:        user.DisplayName(),
		UserEmail:       user.Email,
		OpportunityID:   input.OpportunityID,
		OpportunityName: name,
		OpportunityType: kind,
		HospitalID:      hospitalID,
		RequestedDate:   input.RequestedDate,
		RequestedTime:   input.RequestedTime,
		Status:          models.BookingPending,
	}

	if err := database.DB.Create(&booking).Error; err != nil {
		// the open-slot index catches a concurrent duplicate the count missed
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			abortWithError(c, errDuplicateBooking)
			return
		}
		logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create booking")
		abortWithError(c, apperrors.Internal("Failed to create booking"))
		return
	}

	SendToUser(hospitalID, "booking_created", booking)
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// ListMyBookings handles GET /bookings/my
func ListMyBookings(c *gin.Context) {
	bookings := []models.Booking{}
	if err := database.DB.Where("user_id = ?", c.GetString("userId")).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListHospitalBookings handles GET /bookings/hospital. Admins see every booking.
func ListHospitalBookings(c *gin.Context) {
	query := database.DB.Model(&models.Booking{})
	if !isAdmin(c) {
		query = query.Where("hospital_id = ?", c.GetString("userId"))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	bookings := []models.Booking{}
	if err := query.Order("requested_date ASC, requested_time ASC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required,oneof=approved rejected completed"`
}

// UpdateBookingStatus handles PATCH /bookings/:id/status. Completing a booking
// does not log a donation; that stays an explicit hospital action.
func UpdateBookingStatus(c *gin.Context) {
	var input UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, apperrors.NotFound("Booking not found"))
		return
	}

	if booking.HospitalID != c.GetString("userId") && !isAdmin(c) {
		abortWithError(c, apperrors.Forbidden("This booking belongs to another hospital"))
		return
	}

	status := models.BookingStatus(input.Status)
	if booking.Status == models.BookingRejected || booking.Status == models.BookingCompleted {
		abortWithError(c, apperrors.Conflict("Booking is already "+string(booking.Status)))
		return
	}

	if err := database.DB.Model(&booking).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}
	booking.Status = status

	SendToUser(booking.UserID, "booking_updated", booking)
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
