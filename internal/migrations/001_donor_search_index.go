package migrations

import "gorm.io/gorm"

// Migration001DonorSearchIndex covers the donor directory query:
// WHERE role = 'donor' AND availability = 'available' [AND blood_type = ?] [AND location = ?]
func Migration001DonorSearchIndex() Migration {
	return Migration{
		ID:   "001_donor_search_index",
		Name: "Add composite index for donor search",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_users_donor_search
				ON users (role, availability, blood_type, location)
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_users_donor_search`).Error
		},
	}
}
