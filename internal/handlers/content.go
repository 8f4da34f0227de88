package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"github.com/pushp314/bloodbridge-backend/pkg/utils"
)

type CreateStoryInput struct {
	Title string `json:"title" binding:"required,max=150"`
	Story string `json:"story" binding:"required,max=5000"`
}

// CreateStory handles POST /stories. New stories wait for admin approval.
func CreateStory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateStoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story := models.Story{
		Title:      utils.SanitizeHTML(strings.TrimSpace(input.Title)),
		Body:       utils.SanitizeHTML(strings.TrimSpace(input.Story)),
		AuthorID:   user.ID,
		AuthorName: user.DisplayName(),
		Status:     models.StoryPending,
	}
	if err := database.DB.Create(&story).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to save story")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit story"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"story":   story,
		"message": "Thank you! Your story will appear once it has been reviewed.",
	})
}

// ListStories handles GET /stories (approved only)
func ListStories(c *gin.Context) {
	limit, offset := pagination(c)
	stories := []models.Story{}
	if err := database.DB.Where("status = ?", models.StoryApproved).
		Order("created_at desc").Limit(limit).Offset(offset).
		Find(&stories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// GetStory handles GET /stories/:id. Pending stories are visible only to
// their author and admins.
func GetStory(c *gin.Context) {
	var story models.Story
	if err := database.DB.First(&story, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, apperrors.NotFound("Story not found"))
		return
	}

	if story.Status != models.StoryApproved && story.AuthorID != c.GetString("userId") && !isAdmin(c) {
		abortWithError(c, apperrors.NotFound("Story not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"story": story})
}

type CreateBlogPostInput struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content" binding:"required,max=20000"`
	ImageURL string `json:"imageUrl" binding:"omitempty,url"`
}

// CreateBlogPost handles POST /blog
func CreateBlogPost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateBlogPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.BlogPost{
		Title:      utils.SanitizeHTML(strings.TrimSpace(input.Title)),
		Content:    utils.SanitizeHTML(input.Content),
		ImageURL:   input.ImageURL,
		AuthorID:   user.ID,
		AuthorName: user.DisplayName(),
	}
	if err := database.DB.Create(&post).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to save blog post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListBlogPosts handles GET /blog. Content is truncated for the listing.
func ListBlogPosts(c *gin.Context) {
	limit, offset := pagination(c)
	posts := []models.BlogPost{}
	if err := database.DB.Order("created_at desc").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	for i := range posts {
		posts[i].Content = utils.TruncateString(posts[i].Content, 280)
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetBlogPost handles GET /blog/:id
func GetBlogPost(c *gin.Context) {
	var post models.BlogPost
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		abortWithError(c, apperrors.NotFound("Post not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}
