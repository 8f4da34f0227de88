package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Role string

const (
	RoleDonor    Role = "donor"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleHospital, RoleAdmin:
		return true
	}
	return false
}

type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func ValidBloodType(s string) bool {
	for _, bt := range BloodTypes {
		if bt == s {
			return true
		}
	}
	return false
}

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex" json:"username"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`

	Role       Role `gorm:"type:text;default:'donor';index" json:"role"`
	IsVerified bool `gorm:"default:false" json:"isVerified"` // hospitals need admin approval

	EmailVerified     *time.Time `json:"emailVerified"`
	VerificationToken string     `gorm:"index" json:"-"`
	ResetToken        string     `gorm:"index" json:"-"`
	ResetTokenExpiry  *time.Time `json:"-"`

	// Donor profile
	Name             string       `json:"name"`
	BloodType        string       `gorm:"index" json:"bloodType"`
	Location         string       `gorm:"index" json:"location"` // lower-cased
	Phone            string       `json:"phone"`
	Age              int          `json:"age"`
	Gender           string       `json:"gender"`
	Availability     Availability `gorm:"type:text;default:'available'" json:"availability"`
	LastDonationDate *time.Time   `json:"lastDonationDate"`

	// Hospital profile
	HospitalName  string `json:"hospitalName,omitempty"`
	Address       string `json:"address,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`

	// Donation aggregate, written only by the badge accrual service
	DonationCount int            `gorm:"default:0" json:"donationCount"`
	Badges        pq.StringArray `gorm:"type:text[]" json:"badges"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Availability == "" {
		u.Availability = Available
	}
	return
}

// DisplayName is what other users see in bookings and donation records.
func (u User) DisplayName() string {
	if u.Role == RoleHospital && u.HospitalName != "" {
		return u.HospitalName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// CanConfirmDonations reports whether the user may log donations and post camps.
func (u User) CanConfirmDonations() bool {
	return u.Role == RoleAdmin || (u.Role == RoleHospital && u.IsVerified)
}
