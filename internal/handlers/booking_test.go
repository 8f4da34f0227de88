package handlers

import (
	"net/http"
	"testing"

	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/migrations"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCampAndBookingFlow(t *testing.T) {
	setupTestDB(t)
	hospital := createUser(t, models.RoleHospital, true, func(u *models.User) { u.HospitalName = "Ruby Hall" })
	otherHospital := createUser(t, models.RoleHospital, true)
	donor := createUser(t, models.RoleDonor, true, func(u *models.User) { u.Name = "Meera" })

	w := serve("POST", "/camps", "/camps", CreateCamp, &hospital, map[string]string{
		"campName":  "Diwali Drive",
		"location":  "Koregaon Park",
		"date":      "2099-11-01",
		"startTime": "09:00",
		"endTime":   "17:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	camp := decode(t, w)["camp"].(map[string]interface{})
	assert.Equal(t, "Ruby Hall", camp["hospitalName"])
	campID := camp["id"].(string)

	w = serve("GET", "/camps", "/camps?upcoming=true", ListCamps, nil, nil)
	assert.Len(t, decode(t, w)["camps"], 1)

	booking := map[string]string{
		"opportunityId":   campID,
		"opportunityType": "camp",
		"requestedDate":   "2099-11-01",
		"requestedTime":   "10:30",
	}
	w = serve("POST", "/bookings", "/bookings", CreateBooking, &donor, booking)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode(t, w)["booking"].(map[string]interface{})
	assert.Equal(t, hospital.ID, b["hospitalId"])
	assert.Equal(t, "Diwali Drive", b["opportunityName"])
	assert.Equal(t, "Meera", b["userName"])
	assert.Equal(t, string(models.BookingPending), b["status"])
	bookingID := b["id"].(string)

	// same slot twice
	w = serve("POST", "/bookings", "/bookings", CreateBooking, &donor, booking)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve("GET", "/bookings/hospital", "/bookings/hospital", ListHospitalBookings, &hospital, nil)
	assert.Len(t, decode(t, w)["bookings"], 1)
	w = serve("GET", "/bookings/hospital", "/bookings/hospital", ListHospitalBookings, &otherHospital, nil)
	assert.Len(t, decode(t, w)["bookings"], 0)

	path := "/bookings/" + bookingID + "/status"
	w = serve("PATCH", "/bookings/:id/status", path, UpdateBookingStatus, &otherHospital, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve("PATCH", "/bookings/:id/status", path, UpdateBookingStatus, &hospital, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve("PATCH", "/bookings/:id/status", path, UpdateBookingStatus, &hospital, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	w = serve("PATCH", "/bookings/:id/status", path, UpdateBookingStatus, &hospital, map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusOK, w.Code)

	// rejected is final
	w = serve("PATCH", "/bookings/:id/status", path, UpdateBookingStatus, &hospital, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve("GET", "/bookings/my", "/bookings/my", ListMyBookings, &donor, nil)
	mine := decode(t, w)["bookings"].([]interface{})
	require.Len(t, mine, 1)
	assert.Equal(t, string(models.BookingRejected), mine[0].(map[string]interface{})["status"])

	// a rejected booking frees the slot
	w = serve("POST", "/bookings", "/bookings", CreateBooking, &donor, booking)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBooking_UnverifiedHospital(t *testing.T) {
	setupTestDB(t)
	pending := createUser(t, models.RoleHospital, false)
	donor := createUser(t, models.RoleDonor, true)

	w := serve("POST", "/bookings", "/bookings", CreateBooking, &donor, map[string]string{
		"opportunityId":   pending.ID,
		"opportunityType": "hospital",
		"requestedDate":   "2099-01-10",
		"requestedTime":   "11:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCamp_Validation(t *testing.T) {
	setupTestDB(t)
	hospital := createUser(t, models.RoleHospital, true)

	w := serve("POST", "/camps", "/camps", CreateCamp, &hospital, map[string]string{
		"campName": "Late", "location": "Pune", "date": "2099-01-01", "startTime": "17:00", "endTime": "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve("POST", "/camps", "/camps", CreateCamp, &hospital, map[string]string{
		"campName": "Bad date", "location": "Pune", "date": "01/01/2099", "startTime": "09:00", "endTime": "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCamp_OwnerOrAdmin(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, models.RoleHospital, true)
	other := createUser(t, models.RoleHospital, true)
	admin := createUser(t, models.RoleAdmin, true)

	mk := func() string {
		c := models.BloodCamp{HospitalID: owner.ID, CampName: "Camp", Date: "2099-01-01", StartTime: "09:00", EndTime: "10:00"}
		require.NoError(t, database.DB.Create(&c).Error)
		return c.ID
	}

	id := mk()
	w := serve("DELETE", "/camps/:id", "/camps/"+id, DeleteCamp, &other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = serve("DELETE", "/camps/:id", "/camps/"+id, DeleteCamp, &owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	id = mk()
	w = serve("DELETE", "/camps/:id", "/camps/"+id, DeleteCamp, &admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateBooking_ConcurrentDuplicate(t *testing.T) {
	setupTestDB(t)
	_, err := migrations.NewMigrator(database.DB).Run()
	require.NoError(t, err)

	hospital := createUser(t, models.RoleHospital, true)
	donor := createUser(t, models.RoleDonor, true)

	// another request books the same slot between the open-booking check and
	// the insert
	raced := false
	require.NoError(t, database.DB.Callback().Query().After("gorm:query").Register("race_booking", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "bookings" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Create(&models.Booking{
			UserID: donor.ID, HospitalID: hospital.ID, OpportunityID: hospital.ID,
			OpportunityType: models.OpportunityHospital, RequestedDate: "2099-11-01", RequestedTime: "09:00",
		})
	}))

	w := serve("POST", "/bookings", "/bookings", CreateBooking, &donor, map[string]string{
		"opportunityId":   hospital.ID,
		"opportunityType": "hospital",
		"requestedDate":   "2099-11-01",
		"requestedTime":   "10:00",
	})
	require.True(t, raced)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var count int64
	database.DB.Model(&models.Booking{}).Where("user_id = ?", donor.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
