package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BloodCamp struct {
	ID           string `gorm:"primaryKey;type:text" json:"id"`
	HospitalID   string `gorm:"index;type:text" json:"hospitalId"`
	HospitalName string `json:"hospitalName"`

	CampName  string `json:"campName"`
	Location  string `json:"location"`
	Date      string `gorm:"index" json:"date"` // YYYY-MM-DD
	StartTime string `json:"startTime"`         // HH:MM
	EndTime   string `json:"endTime"`
	Details   string `json:"details"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *BloodCamp) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
