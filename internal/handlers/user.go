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

// GetProfile handles GET /users/profile
func GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfileInput covers both donor and hospital fields; which ones apply
// depends on the caller's role. Role and verification are never editable here.
type UpdateProfileInput struct {
	Name             *string `json:"name"`
	BloodType        *string `json:"bloodType"`
	Location         *string `json:"location"`
	Phone            *string `json:"phone"`
	Age              *int    `json:"age"`
	Gender           *string `json:"gender"`
	Availability     *string `json:"availability"`
	LastDonationDate *string `json:"lastDonationDate"` // YYYY-MM-DD

	HospitalName  *string `json:"hospitalName"`
	Address       *string `json:"address"`
	LicenseNumber *string `json:"licenseNumber"`
}

// UpdateProfile handles PUT /users/profile
func UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}

	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Location != nil {
		updates["location"] = utils.NormalizeLocation(*input.Location)
	}

	switch user.Role {
	case models.RoleHospital:
		if input.HospitalName != nil {
			updates["hospital_name"] = strings.TrimSpace(*input.HospitalName)
		}
		if input.Address != nil {
			updates["address"] = strings.TrimSpace(*input.Address)
		}
		if input.LicenseNumber != nil {
			updates["license_number"] = strings.TrimSpace(*input.LicenseNumber)
		}
	default:
		if input.BloodType != nil {
			if *input.BloodType != "" && !models.ValidBloodType(*input.BloodType) {
				abortWithError(c, apperrors.BadRequest("Unknown blood type"))
				return
			}
			updates["blood_type"] = *input.BloodType
		}
		if input.Age != nil {
			if *input.Age < 0 || *input.Age > 120 {
				abortWithError(c, apperrors.BadRequest("Age out of range"))
				return
			}
			updates["age"] = *input.Age
		}
		if input.Gender != nil {
			updates["gender"] = strings.TrimSpace(*input.Gender)
		}
		if input.Availability != nil {
			a := models.Availability(*input.Availability)
			if a != models.Available && a != models.Unavailable {
				abortWithError(c, apperrors.BadRequest("Availability must be available or unavailable"))
				return
			}
			updates["availability"] = a
		}
		if input.LastDonationDate != nil {
			if *input.LastDonationDate == "" {
				updates["last_donation_date"] = nil
			} else {
				d, err := time.Parse("2006-01-02", *input.LastDonationDate)
				if err != nil {
					abortWithError(c, apperrors.BadRequest("lastDonationDate must be YYYY-MM-DD"))
					return
				}
				updates["last_donation_date"] = &d
			}
		}
	}

	if len(updates) > 0 {
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update profile")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	database.DB.First(user, "id = ?", user.ID)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// donorCard is what other users see of a donor.
type donorCard struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Name          string   `json:"name"`
	BloodType     string   `json:"bloodType"`
	Location      string   `json:"location"`
	Phone         string   `json:"phone"`
	Availability  string   `json:"availability"`
	DonationCount int      `json:"donationCount"`
	Badges        []string `json:"badges"`
}

func toDonorCard(u models.User) donorCard {
	return donorCard{
		ID:            u.ID,
		Username:      u.Username,
		Name:          u.Name,
		BloodType:     u.BloodType,
		Location:      u.Location,
		Phone:         u.Phone,
		Availability:  string(u.Availability),
		DonationCount: u.DonationCount,
		Badges:        []string(u.Badges),
	}
}

// FindDonors handles GET /donors?bloodType=&location=
// Only donors who marked themselves available are listed.
func FindDonors(c *gin.Context) {
	bloodType := c.Query("bloodType")
	location := utils.NormalizeLocation(c.Query("location"))

	if bloodType != "" && !models.ValidBloodType(bloodType) {
		abortWithError(c, apperrors.BadRequest("Unknown blood type"))
		return
	}

	query := database.DB.Model(&models.User{}).
		Where("role = ? AND availability = ?", models.RoleDonor, models.Available)
	if bloodType != "" {
		query = query.Where("blood_type = ?", bloodType)
	}
	if location != "" {
		query = query.Where("location = ?", location)
	}

	limit, offset := pagination(c)

	var users []models.User
	if err := query.Order("donation_count DESC, created_at ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search donors"})
		return
	}

	donors := make([]donorCard, 0, len(users))
	for _, u := range users {
		donors = append(donors, toDonorCard(u))
	}
	c.JSON(http.StatusOK, gin.H{"donors": donors})
}

// ListHospitals handles GET /hospitals (verified only)
func ListHospitals(c *gin.Context) {
	var hospitals []models.User
	if err := database.DB.
		Select("id", "username", "role", "hospital_name", "address", "location", "phone").
		Where("role = ? AND is_verified = ?", models.RoleHospital, true).
		Order("hospital_name ASC").
		Find(&hospitals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hospitals"})
		return
	}

	out := make([]gin.H, 0, len(hospitals))
	for _, h := range hospitals {
		out = append(out, gin.H{
			"id":       h.ID,
			"name":     h.DisplayName(),
			"address":  h.Address,
			"location": h.Location,
			"phone":    h.Phone,
		})
	}
	c.JSON(http.StatusOK, gin.H{"hospitals": out})
}

// LookupDonor handles GET /users/lookup?q= for hospitals confirming a donation.
// Matches username or email exactly, case-insensitively.
func LookupDonor(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len(q) < 3 {
		abortWithError(c, apperrors.BadRequest("Search term must be at least 3 characters"))
		return
	}

	query := database.DB.Where("role = ?", models.RoleDonor)
	if utils.IsUUID(q) {
		// donor cards carry the account id
		query = query.Where("id = ?", q)
	} else {
		query = query.Where("LOWER(username) = ? OR email = ?", q, q)
	}

	var donor models.User
	if err := query.First(&donor).Error; err != nil {
		abortWithError(c, apperrors.NotFound("No donor found with that username, email or id"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"donor": toDonorCard(donor)})
}

// GetDonorBadges handles GET /users/:id/badges
func GetDonorBadges(c *gin.Context) {
	var user models.User
	if err := database.DB.Select("id", "username", "donation_count", "badges").
		First(&user, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, apperrors.NotFound("User not found"))
		return
	}

	badges := []string(user.Badges)
	if badges == nil {
		badges = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":        user.ID,
		"username":      user.Username,
		"donationCount": user.DonationCount,
		"badges":        badges,
	})
}
