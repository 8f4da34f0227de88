package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/internal/services"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"gorm.io/gorm"
)

var errBookingClosed = errors.New("booking closed")

type ConfirmDonationInput struct {
	DonorID   string `json:"donorId" binding:"required"`
	BookingID string `json:"bookingId"`
}

// ConfirmDonation handles POST /donations. The donation row is committed first;
// badge accrual runs afterwards and its failure never undoes the donation.
func ConfirmDonation(c *gin.Context) {
	hospital, ok := currentUser(c)
	if !ok {
		return
	}

	var input ConfirmDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var donor models.User
	if err := database.DB.Where("id = ? AND role = ?", input.DonorID, models.RoleDonor).
		First(&donor).Error; err != nil {
		abortWithError(c, apperrors.NotFound("Donor not found"))
		return
	}

	var booking *models.Booking
	if input.BookingID != "" {
		b, appErr := completableBooking(c, input.BookingID, donor.ID, hospital.ID)
		if appErr != nil {
			abortWithError(c, appErr)
			return
		}
		booking = b
	}

	donation := models.Donation{
		DonorID:      donor.ID,
		DonorName:    donor.DisplayName(),
		HospitalID:   hospital.ID,
		HospitalName: hospital.DisplayName(),
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&donation).Error; err != nil {
			return err
		}
		if booking == nil {
			return nil
		}
		// status guard again, a concurrent review may have closed it
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status IN ?", booking.ID, openBookingStatuses).
			Update("status", models.BookingCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errBookingClosed
		}
		return nil
	})
	if errors.Is(err, errBookingClosed) {
		abortWithError(c, apperrors.Conflict("Booking is already closed"))
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("donor_id", donor.ID).Msg("Failed to log donation")
		abortWithError(c, apperrors.Internal("Failed to log donation"))
		return
	}

	result, err := services.AwardDonationBadges(donation)
	if err != nil {
		warning := "Donation logged, but the donor's badges could not be updated"
		if errors.Is(err, services.ErrAlreadyProcessed) {
			warning = "Donation was already applied to the donor"
		}
		c.JSON(http.StatusCreated, gin.H{
			"donation": donation,
			"warning":  warning,
		})
		return
	}

	if len(result.NewBadges) > 0 {
		SendToUser(donor.ID, "badge_awarded", gin.H{
			"badges":        result.NewBadges,
			"donationCount": result.DonationCount,
		})
		BroadcastToFeed("badge_awarded", gin.H{
			"donorName": donor.DisplayName(),
			"badges":    result.NewBadges,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"donation": donation,
		"accrual":  result,
	})
}

// completableBooking loads a booking the caller may close with this donation:
// it belongs to the donor, is managed by the caller (admins manage all) and is
// still pending or approved.
func completableBooking(c *gin.Context, bookingID, donorID, hospitalID string) (*models.Booking, *apperrors.AppError) {
	query := database.DB.Where("id = ? AND user_id = ?", bookingID, donorID)
	if !isAdmin(c) {
		query = query.Where("hospital_id = ?", hospitalID)
	}

	var booking models.Booking
	if err := query.First(&booking).Error; err != nil {
		return nil, apperrors.NotFound("Booking not found")
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingApproved {
		return nil, apperrors.Conflict("Booking is already " + string(booking.Status))
	}
	return &booking, nil
}

// ListMyDonations handles GET /donations/my
func ListMyDonations(c *gin.Context) {
	donations := []models.Donation{}
	if err := database.DB.Where("donor_id = ?", c.GetString("userId")).
		Order("confirmed_at DESC").Find(&donations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

// ListHospitalDonations handles GET /donations/hospital. Admins see all.
func ListHospitalDonations(c *gin.Context) {
	query := database.DB.Model(&models.Donation{})
	if !isAdmin(c) {
		query = query.Where("hospital_id = ?", c.GetString("userId"))
	}

	limit, offset := pagination(c)
	donations := []models.Donation{}
	if err := query.Order("confirmed_at DESC").Limit(limit).Offset(offset).Find(&donations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}
