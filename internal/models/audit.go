package models

import "time"

type ActionType string

const (
	ActionApproveHospital ActionType = "APPROVE_HOSPITAL"
	ActionDeleteUser      ActionType = "DELETE_USER"
	ActionApproveStory    ActionType = "APPROVE_STORY"
	ActionDeleteStory     ActionType = "DELETE_STORY"
	ActionSetAdmin        ActionType = "SET_ADMIN"
	ActionRevokeAdmin     ActionType = "REVOKE_ADMIN"
	ActionReplayDonations ActionType = "REPLAY_DONATIONS"
)

// AdminAction is the audit trail for privileged changes. AdminID is empty for
// actions run from the command line.
type AdminAction struct {
	ID         string     `gorm:"primaryKey;type:text" json:"id"`
	AdminID    string     `gorm:"index;type:text" json:"adminId"`
	Action     ActionType `gorm:"type:text" json:"action"`
	TargetID   string     `json:"targetId"`
	TargetType string     `json:"targetType"` // "user", "story", "donation"
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}
