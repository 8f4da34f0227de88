package migrations

import "gorm.io/gorm"

// Migration003OpenBookingSlot stops a donor holding two open bookings for the
// same opportunity and date. Rejected and completed bookings do not count.
func Migration003OpenBookingSlot() Migration {
	return Migration{
		ID:   "003_open_booking_slot",
		Name: "Unique open booking per donor, opportunity and date",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_open_slot
				ON bookings (user_id, opportunity_id, requested_date)
				WHERE status IN ('pending', 'approved')
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_bookings_open_slot`).Error
		},
	}
}
