package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	apperrors "github.com/pushp314/bloodbridge-backend/pkg/errors"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"github.com/pushp314/bloodbridge-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

func validatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasNumber || !hasSpecial {
		return fmt.Errorf("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=donor hospital"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a donor or hospital account. Donors are usable
// immediately; hospitals wait for admin approval.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateUsername(input.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 characters and contain only letters, numbers, underscores, or hyphens"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := models.Role(input.Role)
	user := models.User{
		Username:          input.Username,
		Email:             email,
		Password:          string(hashedPassword),
		Role:              role,
		IsVerified:        role == models.RoleDonor,
		VerificationToken: uuid.New().String(),
	}

	if result := database.DB.Create(&user); result.Error != nil {
		var existing models.User
		if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
			abortWithError(c, apperrors.Conflict("An account with this email already exists. Please sign in instead."))
			return
		}
		if err := database.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
			abortWithError(c, apperrors.Conflict("This username is already taken. Please choose another one."))
			return
		}

		logger.Warn().Err(result.Error).Str("email", email).Msg("Registration failed")
		abortWithError(c, apperrors.Conflict("User with this email or username already exists"))
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// TODO: send the verification link through an email provider once one is configured
	logger.Info().Str("user_id", user.ID).Str("role", input.Role).Msg("User registered, verification email (mock) sent")

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// VerifyEmail handles GET /auth/verify-email?token=
func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		abortWithError(c, apperrors.BadRequest("Token is required"))
		return
	}

	var user models.User
	if err := database.DB.Where("verification_token = ?", token).First(&user).Error; err != nil {
		abortWithError(c, apperrors.BadRequest("Invalid or already used token"))
		return
	}

	now := time.Now()
	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"email_verified":     &now,
		"verification_token": "",
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if result := database.DB.Where("email = ?", email).First(&user); result.Error != nil {
		logger.Warn().Str("email", email).Msg("Login failed: user not found")
		abortWithError(c, apperrors.Unauthorized("Invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", email).Msg("Login failed: invalid password")
		abortWithError(c, apperrors.Unauthorized("Invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the current token until it would have expired.
func Logout(c *gin.Context) {
	v, _ := c.Get("claims")
	claims, ok := v.(*utils.Claims)
	if !ok || claims == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	ttl := time.Until(claims.GetExpiresAt())
	if ttl > 0 {
		if err := database.BlacklistToken(claims.GetJTI(), ttl); err != nil {
			logger.Error().Err(err).Str("jti", claims.GetJTI()).Msg("Failed to blacklist token")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const forgotPasswordMessage = "If this email is registered, you will receive a password reset link."

func ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		logger.Info().Str("email", email).Msg("Forgot password requested for unknown email")
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
		return
	}

	expiry := time.Now().Add(15 * time.Minute)
	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"reset_token":        uuid.New().String(),
		"reset_token_expiry": &expiry,
	}).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to generate reset token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("Password reset token generated and (mock) sent")

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("reset_token = ?", input.Token).First(&user).Error; err != nil {
		logger.Warn().Msg("Password reset failed: invalid token")
		abortWithError(c, apperrors.BadRequest("Invalid or expired token"))
		return
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		logger.Warn().Str("user_id", user.ID).Msg("Password reset failed: expired token")
		abortWithError(c, apperrors.BadRequest("Invalid or expired token"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"password":           string(hashedPassword),
		"reset_token":        "",
		"reset_token_expiry": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("Password reset")
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
