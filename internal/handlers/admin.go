package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/internal/services"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"github.com/pushp314/bloodbridge-backend/pkg/utils"
	"gorm.io/gorm"
)

// ============================================
// USER MANAGEMENT
// ============================================

// AdminListUsers returns a paginated list of users, optionally filtered by
// ?q= (email or username) and ?role=.
func AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		pattern := strings.ToLower(utils.SanitizeSearchQuery(search))
		query = query.Where("LOWER(email) LIKE ? OR LOWER(username) LIKE ?", pattern, pattern)
	}
	if role := models.Role(c.Query("role")); role.Valid() {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	users := []models.User{}
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// AdminDeleteUser soft-deletes an account. Admins cannot delete themselves.
func AdminDeleteUser(c *gin.Context) {
	targetID := c.Param("id")
	adminID := c.GetString("userId")

	if targetID == adminID {
		abortWithError(c, apperrors.BadRequest("You cannot delete your own account"))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", targetID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return services.LogAdminAction(tx, adminID, models.ActionDeleteUser, targetID, "user", "Deleted by admin")
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithError(c, apperrors.NotFound("User not found"))
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("target_id", targetID).Msg("Admin delete user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ============================================
// HOSPITAL APPROVAL
// ============================================

func AdminListPendingHospitals(c *gin.Context) {
	hospitals := []models.User{}
	if err := database.DB.Where("role = ? AND is_verified = ?", models.RoleHospital, false).
		Order("created_at asc").Find(&hospitals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hospitals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hospitals": hospitals})
}

func AdminApproveHospital(c *gin.Context) {
	targetID := c.Param("id")
	adminID := c.GetString("userId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var hospital models.User
		if err := tx.Where("id = ? AND role = ?", targetID, models.RoleHospital).First(&hospital).Error; err != nil {
			return err
		}
		if err := tx.Model(&hospital).Update("is_verified", true).Error; err != nil {
			return err
		}
		return services.LogAdminAction(tx, adminID, models.ActionApproveHospital, targetID, "user", "")
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithError(c, apperrors.NotFound("Hospital not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve hospital"})
		return
	}

	SendToUser(targetID, "account_approved", gin.H{"message": "Your hospital account has been approved"})
	c.JSON(http.StatusOK, gin.H{"message": "Hospital approved"})
}

// ============================================
// STORY MODERATION
// ============================================

func AdminListPendingStories(c *gin.Context) {
	stories := []models.Story{}
	if err := database.DB.Where("status = ?", models.StoryPending).
		Order("created_at asc").Find(&stories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func AdminApproveStory(c *gin.Context) {
	storyID := c.Param("id")
	adminID := c.GetString("userId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Story{}).Where("id = ?", storyID).Update("status", models.StoryApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return services.LogAdminAction(tx, adminID, models.ActionApproveStory, storyID, "story", "")
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithError(c, apperrors.NotFound("Story not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve story"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story approved"})
}

func AdminDeleteStory(c *gin.Context) {
	storyID := c.Param("id")
	adminID := c.GetString("userId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", storyID).Delete(&models.Story{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return services.LogAdminAction(tx, adminID, models.ActionDeleteStory, storyID, "story", "")
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithError(c, apperrors.NotFound("Story not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete story"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story deleted"})
}

// ============================================
// DASHBOARD
// ============================================

type DashboardStats struct {
	Donors           int64 `json:"donors"`
	Hospitals        int64 `json:"hospitals"`
	PendingHospitals int64 `json:"pendingHospitals"`
	ActiveRequests   int64 `json:"activeRequests"`
	UpcomingCamps    int64 `json:"upcomingCamps"`
	PendingBookings  int64 `json:"pendingBookings"`
	Donations        int64 `json:"donations"`
	PendingStories   int64 `json:"pendingStories"`
	FundsRaised      int64 `json:"fundsRaised"` // rupees
	OnlineUsers      int   `json:"onlineUsers"`
}

func AdminGetStats(c *gin.Context) {
	var s DashboardStats

	database.DB.Model(&models.User{}).Where("role = ?", models.RoleDonor).Count(&s.Donors)
	database.DB.Model(&models.User{}).Where("role = ? AND is_verified = ?", models.RoleHospital, true).Count(&s.Hospitals)
	database.DB.Model(&models.User{}).Where("role = ? AND is_verified = ?", models.RoleHospital, false).Count(&s.PendingHospitals)
	database.DB.Model(&models.BloodRequest{}).Where("status = ?", models.RequestActive).Count(&s.ActiveRequests)
	database.DB.Model(&models.BloodCamp{}).Where("date >= ?", todayString()).Count(&s.UpcomingCamps)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingPending).Count(&s.PendingBookings)
	database.DB.Model(&models.Donation{}).Count(&s.Donations)
	database.DB.Model(&models.Story{}).Where("status = ?", models.StoryPending).Count(&s.PendingStories)
	database.DB.Model(&models.MonetaryDonation{}).
		Where("status = ?", models.MonetaryPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&s.FundsRaised)
	s.OnlineUsers = OnlineCount()

	c.JSON(http.StatusOK, gin.H{"stats": s})
}

// AdminGetAuditLogs handles GET /admin/audit-logs
func AdminGetAuditLogs(c *gin.Context) {
	limit, offset := pagination(c)
	logs := []models.AdminAction{}
	if err := database.DB.Order("created_at desc").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
