// Package seeds fills a database with demo accounts, camps and requests.
// Every step is idempotent so it can be rerun against the same database.
package seeds

import (
	"time"

	"github.com/pushp314/bloodbridge-backend/internal/models"
	"gorm.io/gorm"
)

type Summary struct {
	Users int
	Camps int64
	Open  int64
}

func Run(db *gorm.DB, now time.Time) (Summary, error) {
	users, err := SeedUsers(db)
	if err != nil {
		return Summary{}, err
	}
	if err := SeedCamps(db, users["sassoon_general"], now); err != nil {
		return Summary{}, err
	}
	if err := SeedRequests(db, users["asha_d"]); err != nil {
		return Summary{}, err
	}

	s := Summary{Users: len(users)}
	db.Model(&models.BloodCamp{}).Count(&s.Camps)
	db.Model(&models.BloodRequest{}).Where("status = ?", models.RequestActive).Count(&s.Open)
	return s, nil
}
