package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"gorm.io/gorm"
)

// LogAdminAction records a privileged change inside the caller's transaction.
func LogAdminAction(tx *gorm.DB, adminID string, action models.ActionType, targetID, targetType, reason string) error {
	return tx.Create(&models.AdminAction{
		ID:         uuid.New().String(),
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}).Error
}
