package migrations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func indexExists(t *testing.T, db *gorm.DB, name string) bool {
	var count int64
	require.NoError(t, db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = ?", name).Scan(&count).Error)
	return count > 0
}

func TestMigrator_RunAppliesAllOnce(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db)

	ran, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_donor_search_index", "002_active_requests_index", "003_open_booking_slot"}, ran)

	assert.True(t, indexExists(t, db, "idx_users_donor_search"))
	assert.True(t, indexExists(t, db, "idx_blood_requests_feed"))
	assert.True(t, indexExists(t, db, "idx_bookings_open_slot"))

	ran, err = m.Run()
	require.NoError(t, err)
	assert.Empty(t, ran)

	var records int64
	db.Model(&MigrationRecord{}).Count(&records)
	assert.Equal(t, int64(3), records)
}

func TestMigrator_OpenBookingSlotIsUnique(t *testing.T) {
	db := openTestDB(t)
	_, err := NewMigrator(db).Run()
	require.NoError(t, err)

	b := func(status models.BookingStatus) *models.Booking {
		return &models.Booking{UserID: "u1", OpportunityID: "camp1", RequestedDate: "2026-11-01", Status: status}
	}

	require.NoError(t, db.Create(b(models.BookingPending)).Error)
	assert.Error(t, db.Create(b(models.BookingApproved)).Error)
	assert.NoError(t, db.Create(b(models.BookingRejected)).Error)
}

func TestMigrator_DependencyOrder(t *testing.T) {
	db := openTestDB(t)
	var order []string
	step := func(id string) func(*gorm.DB) error {
		return func(*gorm.DB) error { order = append(order, id); return nil }
	}

	m := &Migrator{db: db, migrations: []Migration{
		{ID: "a", Up: step("a"), Down: step("-a")},
		{ID: "b", Up: step("b"), Down: step("-b"), DependsOn: []string{"a"}},
	}}

	ran, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ran)

	err = m.Rollback("a")
	assert.Error(t, err, "b still depends on a")

	require.NoError(t, m.Rollback("b"))
	require.NoError(t, m.Rollback("a"))
	assert.Equal(t, []string{"a", "b", "-b", "-a"}, order)

	assert.Error(t, m.Rollback("a"), "already rolled back")
}

func TestMigrator_MissingDependencyFails(t *testing.T) {
	db := openTestDB(t)
	m := &Migrator{db: db, migrations: []Migration{
		{ID: "b", Up: func(*gorm.DB) error { return nil }, DependsOn: []string{"a"}},
	}}

	_, err := m.Run()
	assert.Error(t, err)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")
	m := &Migrator{db: db, migrations: []Migration{
		{ID: "ok", Up: func(*gorm.DB) error { return nil }},
		{ID: "bad", Up: func(*gorm.DB) error { return boom }},
	}}

	ran, err := m.Run()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"ok"}, ran)

	var records []MigrationRecord
	db.Find(&records)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].ID)
}
