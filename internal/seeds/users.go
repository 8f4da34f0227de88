package seeds

import (
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "Donate@2024"

var demoUsers = []models.User{
	{
		Username:   "bloodbridge",
		Email:      "team@bloodbridge.local",
		Role:       models.RoleAdmin,
		IsVerified: true,
		Name:       "BloodBridge Team",
	},
	{
		Username:      "sassoon_general",
		Email:         "bloodbank@sassoon.local",
		Role:          models.RoleHospital,
		IsVerified:    true,
		HospitalName:  "Sassoon General Hospital",
		Address:       "Station Road, Pune",
		Location:      "pune",
		LicenseNumber: "MH-BB-0042",
	},
	{
		Username:      "ruby_hall",
		Email:         "desk@rubyhall.local",
		Role:          models.RoleHospital,
		HospitalName:  "Ruby Hall Clinic",
		Address:       "Sassoon Road, Pune",
		Location:      "pune",
		LicenseNumber: "MH-BB-0107",
	},
	{
		Username:   "asha_d",
		Email:      "asha@donors.local",
		Role:       models.RoleDonor,
		IsVerified: true,
		Name:       "Asha Deshmukh",
		BloodType:  "O+",
		Location:   "pune",
		Age:        27,
		Gender:     "female",
	},
	{
		Username:   "ravi_k",
		Email:      "ravi@donors.local",
		Role:       models.RoleDonor,
		IsVerified: true,
		Name:       "Ravi Kulkarni",
		BloodType:  "B-",
		Location:   "mumbai",
		Age:        34,
		Gender:     "male",
	},
}

// SeedUsers creates the demo accounts that are missing and returns all of
// them keyed by username.
func SeedUsers(db *gorm.DB) (map[string]models.User, error) {
	logger.Info().Msg("Seeding demo accounts")

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make(map[string]models.User, len(demoUsers))
	for _, u := range demoUsers {
		var existing models.User
		if err := db.Where("username = ?", u.Username).First(&existing).Error; err == nil {
			logger.Debug().Str("username", u.Username).Msg("Account already exists")
			users[u.Username] = existing
			continue
		}

		u.Password = string(hash)
		if err := db.Create(&u).Error; err != nil {
			return nil, err
		}
		logger.Info().Str("username", u.Username).Str("role", string(u.Role)).Msg("Account created")
		users[u.Username] = u
	}
	return users, nil
}
