package services

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/pushp314/bloodbridge-backend/internal/badges"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMissingDonor     = errors.New("donation has no donor")
	ErrDonorNotFound    = errors.New("donor not found")
	ErrAlreadyProcessed = errors.New("donation already applied to donor")
)

type AccrualResult struct {
	DonorID       string   `json:"donorId"`
	DonationCount int      `json:"donationCount"`
	Badges        []string `json:"badges"`
	NewBadges     []string `json:"newBadges"`
}

// AwardDonationBadges applies a newly created donation to its donor's count
// and badges. Each donation is applied at most once: the processed-event row
// and the donor update commit together. When the donor cannot be found nothing
// is written and ErrDonorNotFound is returned for the caller to log.
func AwardDonationBadges(donation models.Donation) (*AccrualResult, error) {
	if donation.DonorID == "" {
		logger.Error().Str("donation_id", donation.ID).Msg("Donation is missing a donor id")
		return nil, ErrMissingDonor
	}

	var result *AccrualResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent donations for one donor, so each
		// accrual starts from the previous commit.
		var donor models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&donor, "id = ?", donation.DonorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonorNotFound
			}
			return err
		}

		var processed int64
		if err := tx.Model(&models.ProcessedDonationEvent{}).
			Where("donation_id = ?", donation.ID).
			Count(&processed).Error; err != nil {
			return err
		}
		if processed > 0 {
			return ErrAlreadyProcessed
		}

		prior := []string(donor.Badges)
		newCount, newBadges := badges.Accrue(donor.DonationCount, prior)

		confirmedAt := donation.ConfirmedAt
		if err := tx.Model(&donor).Updates(map[string]interface{}{
			"donation_count":     newCount,
			"badges":             pq.StringArray(newBadges),
			"last_donation_date": &confirmedAt,
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.ProcessedDonationEvent{
			DonationID:  donation.ID,
			DonorID:     donation.DonorID,
			ProcessedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		result = &AccrualResult{
			DonorID:       donor.ID,
			DonationCount: newCount,
			Badges:        newBadges,
			NewBadges:     badges.Added(prior, newBadges),
		}
		return nil
	})

	switch {
	case errors.Is(err, ErrDonorNotFound):
		logger.Error().Str("donation_id", donation.ID).Str("donor_id", donation.DonorID).Msg("Donor not found, skipping badge update")
		return nil, err
	case errors.Is(err, ErrAlreadyProcessed):
		logger.Warn().Str("donation_id", donation.ID).Msg("Duplicate donation event ignored")
		return nil, err
	case err != nil:
		logger.Error().Err(err).Str("donation_id", donation.ID).Msg("Error updating donor badges")
		return nil, err
	}

	logger.Info().
		Str("donation_id", donation.ID).
		Str("donor_id", result.DonorID).
		Int("donation_count", result.DonationCount).
		Strs("new_badges", result.NewBadges).
		Msg("Donation applied")
	return result, nil
}

type ReplayStats struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// ReplayPendingDonations applies every donation that has no processed-event
// row, oldest first. Donations whose donor is gone are counted as skipped.
func ReplayPendingDonations() (ReplayStats, error) {
	var stats ReplayStats

	var pending []models.Donation
	processed := database.DB.Model(&models.ProcessedDonationEvent{}).Select("donation_id")
	if err := database.DB.Where("id NOT IN (?)", processed).
		Order("confirmed_at asc").
		Find(&pending).Error; err != nil {
		return stats, err
	}

	for _, d := range pending {
		_, err := AwardDonationBadges(d)
		switch {
		case err == nil:
			stats.Applied++
		case errors.Is(err, ErrDonorNotFound), errors.Is(err, ErrMissingDonor), errors.Is(err, ErrAlreadyProcessed):
			stats.Skipped++
		default:
			return stats, err
		}
	}
	return stats, nil
}
