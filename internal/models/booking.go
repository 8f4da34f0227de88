package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCompleted:
		return true
	}
	return false
}

type OpportunityType string

const (
	OpportunityCamp     OpportunityType = "camp"
	OpportunityHospital OpportunityType = "hospital"
)

// Booking is a donor's appointment request at a camp or a verified hospital.
type Booking struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	UserID    string `gorm:"index;type:text" json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`

	OpportunityID   string          `gorm:"type:text" json:"opportunityId"`
	OpportunityName string          `json:"opportunityName"`
	OpportunityType OpportunityType `gorm:"type:text" json:"opportunityType"`
	HospitalID      string          `gorm:"index;type:text" json:"hospitalId"` // who manages the booking

	RequestedDate string        `json:"requestedDate"`
	RequestedTime string        `json:"requestedTime"`
	Status        BookingStatus `gorm:"type:text;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	return
}
