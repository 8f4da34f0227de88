package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"github.com/pushp314/bloodbridge-backend/pkg/utils"
	"gorm.io/gorm"
)

const activeRequestsCacheKey = "requests:active"

type CreateRequestInput struct {
	Name      string `json:"name" binding:"required,max=100"`
	Location  string `json:"location" binding:"required,max=200"`
	BloodType string `json:"bloodType" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=50"`
	Contact   string `json:"contact" binding:"required,max=50"`
	Reason    string `json:"reason" binding:"max=1000"`
}

// CreateBloodRequest handles POST /requests
func CreateBloodRequest(c *gin.Context) {
	var input CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidBloodType(input.BloodType) {
		abortWithError(c, apperrors.BadRequest("Unknown blood type"))
		return
	}

	req := models.BloodRequest{
		UserID:    c.GetString("userId"),
		Name:      utils.SanitizeHTML(strings.TrimSpace(input.Name)),
		Location:  utils.NormalizeLocation(input.Location),
		BloodType: input.BloodType,
		Quantity:  input.Quantity,
		Contact:   strings.TrimSpace(input.Contact),
		Reason:    utils.SanitizeHTML(strings.TrimSpace(input.Reason)),
		Status:    models.RequestActive,
	}

	if err := database.DB.Create(&req).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create blood request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit blood request"})
		return
	}

	go database.CacheInvalidate(activeRequestsCacheKey + "*")
	BroadcastToFeed("request_created", req)

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// ListActiveRequests handles GET /requests/active. The unfiltered first page
// is cached for 30 seconds.
func ListActiveRequests(c *gin.Context) {
	bloodType := c.Query("bloodType")
	limit, offset := pagination(c)
	cacheable := bloodType == "" && offset == 0 && limit == 50

	if cacheable {
		var cached []models.BloodRequest
		if err := database.CacheGet(activeRequestsCacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, gin.H{"requests": cached, "source": "cache"})
			return
		}
	}

	query := database.DB.Where("status = ?", models.RequestActive)
	if bloodType != "" {
		query = query.Where("blood_type = ?", bloodType)
	}

	requests := []models.BloodRequest{}
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	if cacheable {
		_ = database.CacheSet(activeRequestsCacheKey, requests, 30*time.Second)
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListMyRequests handles GET /requests/my
func ListMyRequests(c *gin.Context) {
	requests := []models.BloodRequest{}
	if err := database.DB.Where("user_id = ?", c.GetString("userId")).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ownedRequest loads a request the caller may modify (its author or an admin).
func ownedRequest(c *gin.Context) (*models.BloodRequest, bool) {
	var req models.BloodRequest
	if err := database.DB.First(&req, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, apperrors.NotFound("Request not found"))
		} else {
			abortWithError(c, apperrors.ErrInternalServer)
		}
		return nil, false
	}

	if req.UserID != c.GetString("userId") && !isAdmin(c) {
		abortWithError(c, apperrors.Forbidden("You can only manage your own requests"))
		return nil, false
	}
	return &req, true
}

// FulfillRequest handles PATCH /requests/:id/fulfill
func FulfillRequest(c *gin.Context) {
	req, ok := ownedRequest(c)
	if !ok {
		return
	}

	if req.Status == models.RequestFulfilled {
		c.JSON(http.StatusOK, gin.H{"request": req})
		return
	}

	if err := database.DB.Model(req).Update("status", models.RequestFulfilled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	req.Status = models.RequestFulfilled

	go database.CacheInvalidate(activeRequestsCacheKey + "*")
	BroadcastToFeed("request_updated", req)

	c.JSON(http.StatusOK, gin.H{"request": req})
}

// DeleteRequest handles DELETE /requests/:id
func DeleteRequest(c *gin.Context) {
	req, ok := ownedRequest(c)
	if !ok {
		return
	}

	if err := database.DB.Delete(req).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete request"})
		return
	}

	go database.CacheInvalidate(activeRequestsCacheKey + "*")
	BroadcastToFeed("request_deleted", gin.H{"id": req.ID})

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}
