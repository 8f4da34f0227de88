package migrations

import "gorm.io/gorm"

// Migration002ActiveRequestsIndex backs the request feed:
// WHERE status = 'active' ORDER BY created_at DESC
func Migration002ActiveRequestsIndex() Migration {
	return Migration{
		ID:   "002_active_requests_index",
		Name: "Add feed index on blood requests",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_blood_requests_feed
				ON blood_requests (status, created_at DESC)
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_blood_requests_feed`).Error
		},
	}
}
