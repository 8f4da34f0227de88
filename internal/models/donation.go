package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation is one confirmed blood donation, logged by a hospital or admin.
// Creating it is the event that drives badge accrual.
type Donation struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	DonorID      string    `gorm:"index;type:text" json:"donorId"`
	DonorName    string    `json:"donorName"`
	HospitalID   string    `gorm:"index;type:text" json:"hospitalId"`
	HospitalName string    `json:"hospitalName"`
	ConfirmedAt  time.Time `gorm:"index" json:"confirmedAt"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.ConfirmedAt.IsZero() {
		d.ConfirmedAt = time.Now()
	}
	return
}

// ProcessedDonationEvent marks a donation whose accrual has been applied.
type ProcessedDonationEvent struct {
	DonationID  string    `gorm:"primaryKey;type:text" json:"donationId"`
	DonorID     string    `gorm:"index;type:text" json:"donorId"`
	ProcessedAt time.Time `json:"processedAt"`
}

type MonetaryDonationStatus string

const (
	MonetaryCreated MonetaryDonationStatus = "created"
	MonetaryPaid    MonetaryDonationStatus = "paid"
)

type MonetaryDonation struct {
	ID        string                 `gorm:"primaryKey;type:text" json:"id"`
	UserID    string                 `gorm:"index;type:text" json:"userId"`
	Amount    int                    `json:"amount"` // whole rupees
	Currency  string                 `gorm:"default:'INR'" json:"currency"`
	OrderID   string                 `gorm:"uniqueIndex" json:"orderId"`
	PaymentID string                 `json:"paymentId"`
	Status    MonetaryDonationStatus `gorm:"type:text" json:"status"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func (m *MonetaryDonation) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Currency == "" {
		m.Currency = "INR"
	}
	return
}
