package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// SetAdmin grants or revokes the admin role by email. Revoked admins fall
// back to donor. The change is audited with an empty admin id.
func SetAdmin(email string, grant bool) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	role, action := models.RoleDonor, models.ActionRevokeAdmin
	if grant {
		role, action = models.RoleAdmin, models.ActionSetAdmin
	}

	var user models.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if !grant && user.Role != models.RoleAdmin {
			return fmt.Errorf("%s is not an admin", email)
		}

		updates := map[string]interface{}{"role": role, "is_verified": true}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return LogAdminAction(tx, "", action, user.ID, "user", "cli")
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("Role changed")
	return &user, nil
}
