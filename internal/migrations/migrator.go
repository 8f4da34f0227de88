package migrations

import (
	"fmt"
	"time"

	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migration is a versioned schema change that AutoMigrate cannot express,
// such as composite or partial indexes.
type Migration struct {
	ID        string // e.g. "001_donor_search_index"
	Name      string
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string
}

// MigrationRecord tracks which migrations have been applied.
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
	}
}

func (m *Migrator) applied() (map[string]bool, error) {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var records []MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.ID] = true
	}
	return applied, nil
}

// Run executes all pending migrations in order, each in its own transaction.
// It returns the IDs that were applied.
func (m *Migrator) Run() ([]string, error) {
	applied, err := m.applied()
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, migration := range m.migrations {
		if applied[migration.ID] {
			continue
		}

		for _, dep := range migration.DependsOn {
			if !applied[dep] {
				return ran, fmt.Errorf("migration %s depends on %s which is not applied", migration.ID, dep)
			}
		}

		logger.Info().Str("migration", migration.ID).Str("name", migration.Name).Msg("Running migration")

		if err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{
				ID:   migration.ID,
				Name: migration.Name,
			}).Error
		}); err != nil {
			logger.Error().Err(err).Str("migration", migration.ID).Msg("Migration failed")
			return ran, fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}

		applied[migration.ID] = true
		ran = append(ran, migration.ID)
	}

	return ran, nil
}

// Rollback reverts a single applied migration. Migrations that depend on it
// must be rolled back first.
func (m *Migrator) Rollback(id string) error {
	applied, err := m.applied()
	if err != nil {
		return err
	}
	if !applied[id] {
		return fmt.Errorf("migration %s is not applied", id)
	}

	var target *Migration
	for i := range m.migrations {
		mig := &m.migrations[i]
		if mig.ID == id {
			target = mig
		}
		for _, dep := range mig.DependsOn {
			if dep == id && applied[mig.ID] {
				return fmt.Errorf("migration %s is still applied and depends on %s", mig.ID, id)
			}
		}
	}
	if target == nil {
		return fmt.Errorf("unknown migration %s", id)
	}
	if target.Down == nil {
		return fmt.Errorf("migration %s cannot be rolled back", id)
	}

	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&MigrationRecord{}, "id = ?", id).Error
	})
}

// GetMigrations returns all registered migrations in order
func GetMigrations() []Migration {
	return []Migration{
		Migration001DonorSearchIndex(),
		Migration002ActiveRequestsIndex(),
		Migration003OpenBookingSlot(),
	}
}
