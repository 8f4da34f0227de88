package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pushp314/bloodbridge-backend/internal/badges"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	database.DB = db
}

func createDonor(t *testing.T, count int, held ...string) models.User {
	u := models.User{
		Username:      "donor_" + uuid.New().String()[:8],
		Email:         uuid.New().String() + "@example.com",
		Role:          models.RoleDonor,
		IsVerified:    true,
		DonationCount: count,
		Badges:        pq.StringArray(held),
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func createDonation(t *testing.T, donorID string) models.Donation {
	d := models.Donation{DonorID: donorID, HospitalID: "hosp1", HospitalName: "City Hospital"}
	require.NoError(t, database.DB.Create(&d).Error)
	return d
}

func reload(t *testing.T, id string) models.User {
	var u models.User
	require.NoError(t, database.DB.First(&u, "id = ?", id).Error)
	return u
}

func TestAwardDonationBadges_FirstDonation(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t, 0)
	donation := createDonation(t, donor.ID)

	res, err := AwardDonationBadges(donation)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DonationCount)
	assert.Equal(t, []string{badges.FirstTimeHero}, res.NewBadges)

	saved := reload(t, donor.ID)
	assert.Equal(t, 1, saved.DonationCount)
	assert.Equal(t, []string{badges.FirstTimeHero}, []string(saved.Badges))
	if assert.NotNil(t, saved.LastDonationDate) {
		assert.WithinDuration(t, donation.ConfirmedAt, *saved.LastDonationDate, time.Second)
	}
}

func TestAwardDonationBadges_ThirdAndTenth(t *testing.T) {
	setupTestDB(t)

	donor := createDonor(t, 2, badges.FirstTimeHero)
	res, err := AwardDonationBadges(createDonation(t, donor.ID))
	require.NoError(t, err)
	assert.Equal(t, 3, res.DonationCount)
	assert.ElementsMatch(t, []string{badges.FirstTimeHero, badges.BronzeDonor}, res.Badges)
	assert.Equal(t, []string{badges.BronzeDonor}, res.NewBadges)

	veteran := createDonor(t, 9, badges.FirstTimeHero, badges.BronzeDonor)
	res, err = AwardDonationBadges(createDonation(t, veteran.ID))
	require.NoError(t, err)
	assert.Equal(t, 10, res.DonationCount)
	assert.ElementsMatch(t, []string{badges.FirstTimeHero, badges.BronzeDonor, badges.SilverDonor}, []string(reload(t, veteran.ID).Badges))
}

func TestAwardDonationBadges_DuplicateEventIgnored(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t, 0)
	donation := createDonation(t, donor.ID)

	_, err := AwardDonationBadges(donation)
	require.NoError(t, err)

	_, err = AwardDonationBadges(donation)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, 1, reload(t, donor.ID).DonationCount)
}

func TestAwardDonationBadges_DonorNotFound(t *testing.T) {
	setupTestDB(t)
	donation := createDonation(t, "ghost")

	_, err := AwardDonationBadges(donation)
	assert.ErrorIs(t, err, ErrDonorNotFound)

	// nothing written, so the event is still pending
	var processed int64
	database.DB.Model(&models.ProcessedDonationEvent{}).Count(&processed)
	assert.Equal(t, int64(0), processed)
}

func TestAwardDonationBadges_MissingDonor(t *testing.T) {
	setupTestDB(t)
	_, err := AwardDonationBadges(models.Donation{ID: "d1"})
	assert.ErrorIs(t, err, ErrMissingDonor)
}

func TestReplayPendingDonations(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t, 0)

	applied := createDonation(t, donor.ID)
	_, err := AwardDonationBadges(applied)
	require.NoError(t, err)

	createDonation(t, donor.ID)
	createDonation(t, donor.ID)
	createDonation(t, "ghost")

	stats, err := ReplayPendingDonations()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Applied)
	assert.Equal(t, 1, stats.Skipped)

	saved := reload(t, donor.ID)
	assert.Equal(t, 3, saved.DonationCount)
	assert.ElementsMatch(t, []string{badges.FirstTimeHero, badges.BronzeDonor}, []string(saved.Badges))

	// second replay finds only the orphan
	stats, err = ReplayPendingDonations()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Applied)
	assert.Equal(t, 1, stats.Skipped)
}
