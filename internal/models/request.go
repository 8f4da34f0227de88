package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestActive    RequestStatus = "active"
	RequestFulfilled RequestStatus = "fulfilled"
)

// BloodRequest is a public call for donors posted by any signed-in user.
type BloodRequest struct {
	ID     string `gorm:"primaryKey;type:text" json:"id"`
	UserID string `gorm:"index;type:text" json:"uid"`

	Name      string        `json:"name"` // patient or contact person
	Location  string        `gorm:"index" json:"location"`
	BloodType string        `gorm:"index" json:"bloodType"`
	Quantity  int           `json:"quantity"` // units
	Contact   string        `json:"contact"`
	Reason    string        `json:"reason"`
	Status    RequestStatus `gorm:"type:text;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *BloodRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = RequestActive
	}
	return
}
