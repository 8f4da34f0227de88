package seeds

import (
	"time"

	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"gorm.io/gorm"
)

// SeedCamps schedules two camps for the verified demo hospital, one and two
// weeks out from now. Camps already present by name are left alone.
func SeedCamps(db *gorm.DB, hospital models.User, now time.Time) error {
	logger.Info().Msg("Seeding blood camps")

	camps := []models.BloodCamp{
		{
			CampName:  "Monsoon Drive",
			Location:  "Shivajinagar Community Hall",
			Date:      now.AddDate(0, 0, 7).Format("2006-01-02"),
			StartTime: "09:00",
			EndTime:   "15:00",
			Details:   "Walk-ins welcome. Bring a photo ID.",
		},
		{
			CampName:  "College Campus Camp",
			Location:  "COEP Main Building",
			Date:      now.AddDate(0, 0, 14).Format("2006-01-02"),
			StartTime: "10:00",
			EndTime:   "16:30",
			Details:   "Students and staff. Refreshments provided.",
		},
	}

	for _, camp := range camps {
		var count int64
		db.Model(&models.BloodCamp{}).
			Where("hospital_id = ? AND camp_name = ?", hospital.ID, camp.CampName).
			Count(&count)
		if count > 0 {
			continue
		}

		camp.HospitalID = hospital.ID
		camp.HospitalName = hospital.DisplayName()
		if err := db.Create(&camp).Error; err != nil {
			return err
		}
		logger.Info().Str("camp", camp.CampName).Str("date", camp.Date).Msg("Camp scheduled")
	}
	return nil
}

// SeedRequests posts a couple of active requests from the given donor so
// the public feed is not empty on a fresh install.
func SeedRequests(db *gorm.DB, requester models.User) error {
	logger.Info().Msg("Seeding blood requests")

	requests := []models.BloodRequest{
		{
			Name:      "Meera Joshi",
			Location:  "pune",
			BloodType: "O-",
			Quantity:  2,
			Contact:   "+91 98200 00000",
			Reason:    "Scheduled surgery",
		},
		{
			Name:      "Arjun Patil",
			Location:  "mumbai",
			BloodType: "AB+",
			Quantity:  1,
			Contact:   "+91 98210 00000",
			Reason:    "Thalassemia transfusion",
		},
	}

	for _, r := range requests {
		var count int64
		db.Model(&models.BloodRequest{}).
			Where("user_id = ? AND name = ?", requester.ID, r.Name).
			Count(&count)
		if count > 0 {
			continue
		}

		r.UserID = requester.ID
		if err := db.Create(&r).Error; err != nil {
			return err
		}
	}
	return nil
}
