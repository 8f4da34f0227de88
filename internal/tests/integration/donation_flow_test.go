package integration

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/pushp314/bloodbridge-backend/internal/badges"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampBookingToBadge_e2e(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter()

	// 1. Donor and hospital sign up
	w := performRequest(r, "POST", "/api/auth/register", map[string]string{
		"username": "meera_donor", "email": "meera@example.com", "password": "Donate@2024", "role": "donor",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode(t, w)
	donorToken := reg["token"].(string)
	donorID := reg["user"].(map[string]interface{})["id"].(string)

	w = performRequest(r, "POST", "/api/auth/register", map[string]string{
		"username": "kem_bloodbank", "email": "bank@kem.example", "password": "Donate@2024", "role": "hospital",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg = decode(t, w)
	hospitalToken := reg["token"].(string)
	hospitalID := reg["user"].(map[string]interface{})["id"].(string)

	// 2. Unverified hospitals cannot post camps until approved
	camp := map[string]string{
		"campName":  "Ward Drive",
		"location":  "Parel",
		"date":      time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		"startTime": "09:00",
		"endTime":   "13:00",
	}
	w = performRequest(r, "POST", "/api/camps", camp, hospitalToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := createAdmin(t, db)
	w = performRequest(r, "POST", "/api/admin/hospitals/"+hospitalID+"/approve", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performRequest(r, "POST", "/api/camps", camp, hospitalToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	campID := decode(t, w)["camp"].(map[string]interface{})["id"].(string)

	// 3. Donor books a slot, a second open booking for the same day is refused
	booking := map[string]string{
		"opportunityId":   campID,
		"opportunityType": "camp",
		"requestedDate":   camp["date"],
		"requestedTime":   "10:30",
	}
	w = performRequest(r, "POST", "/api/bookings", booking, donorToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := decode(t, w)["booking"].(map[string]interface{})["id"].(string)

	w = performRequest(r, "POST", "/api/bookings", booking, donorToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 4. Hospital approves and then logs the donation against the booking
	w = performRequest(r, "PATCH", "/api/bookings/"+bookingID+"/status", map[string]string{"status": "approved"}, hospitalToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performRequest(r, "POST", "/api/donations", map[string]string{"donorId": donorID, "bookingId": bookingID}, hospitalToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	accrual := decode(t, w)["accrual"].(map[string]interface{})
	assert.Equal(t, float64(1), accrual["donationCount"])
	assert.Equal(t, []interface{}{badges.FirstTimeHero}, accrual["newBadges"])

	var saved models.Booking
	require.NoError(t, db.First(&saved, "id = ?", bookingID).Error)
	assert.Equal(t, models.BookingCompleted, saved.Status)

	// 5. The badge is public and survives a replay
	w = performRequest(r, "GET", "/api/users/"+donorID+"/badges", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{badges.FirstTimeHero}, decode(t, w)["badges"])

	stats, err := services.ReplayPendingDonations()
	require.NoError(t, err)
	assert.Zero(t, stats.Applied)

	var donor models.User
	require.NoError(t, db.First(&donor, "id = ?", donorID).Error)
	assert.Equal(t, 1, donor.DonationCount)
	assert.Equal(t, []string{badges.FirstTimeHero}, []string(donor.Badges))
}

func TestOpenBookingIndex_e2e(t *testing.T) {
	db := setupTestDB(t)

	donor := models.User{Username: "slot_donor", Email: "slot@example.com", Role: models.RoleDonor, IsVerified: true}
	require.NoError(t, db.Create(&donor).Error)

	first := models.Booking{UserID: donor.ID, OpportunityID: "camp-1", OpportunityType: models.OpportunityCamp, RequestedDate: "2026-11-02", RequestedTime: "10:00"}
	require.NoError(t, db.Create(&first).Error)

	dup := first
	dup.ID = ""
	assert.Error(t, db.Create(&dup).Error, "two open bookings for one slot")

	require.NoError(t, db.Model(&first).Update("status", models.BookingRejected).Error)
	dup.ID = ""
	assert.NoError(t, db.Create(&dup).Error, "a rejected booking frees the slot")
}

func TestConcurrentDonationsForOneDonor_e2e(t *testing.T) {
	db := setupTestDB(t)

	donor := models.User{Username: "busy_donor", Email: "busy@example.com", Role: models.RoleDonor, IsVerified: true}
	require.NoError(t, db.Create(&donor).Error)

	const n = 10
	donations := make([]models.Donation, n)
	for i := range donations {
		donations[i] = models.Donation{DonorID: donor.ID, DonorName: donor.Username, HospitalID: "h-1", HospitalName: "KEM"}
		require.NoError(t, db.Create(&donations[i]).Error)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, d := range donations {
		wg.Add(1)
		go func(d models.Donation) {
			defer wg.Done()
			_, err := services.AwardDonationBadges(d)
			errs <- err
		}(d)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var saved models.User
	require.NoError(t, db.First(&saved, "id = ?", donor.ID).Error)
	assert.Equal(t, n, saved.DonationCount, "no increment lost")
	assert.ElementsMatch(t, []string{badges.FirstTimeHero, badges.BronzeDonor, badges.SilverDonor}, []string(saved.Badges))
}
