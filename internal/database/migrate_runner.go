package database

import (
	"fmt"
	"time"

	"notably/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog records an applied migration.
type MigrationLog struct {
	ID        uint      `gorm:"primarykey"`
	Version   int       `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

// RunMigrations applies every registered migration that has not yet been
// applied, in version order, each inside its own transaction.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationLog{}); err != nil {
		return fmt.Errorf("failed to ensure migration_logs table: %w", err)
	}

	migrations, err := RegisterMigrations()
	if err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		middleware.Logger.Info("Applying migration", "migration", m.String())
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.UpSQL).Error; err != nil {
				return fmt.Errorf("migration %s failed: %w", m, err)
			}
			log := MigrationLog{Version: m.Version, Name: m.Name, AppliedAt: time.Now()}
			if err := tx.Create(&log).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RollbackMigration reverts the most recently applied migration using its
// down SQL. Migrations without down SQL cannot be rolled back.
func RollbackMigration(db *gorm.DB) error {
	var last MigrationLog
	if err := db.Order("version DESC").First(&last).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("failed to read migration log: %w", err)
	}

	m, err := GetMigrationByVersion(last.Version)
	if err != nil {
		return err
	}
	if m.DownSQL == "" {
		return fmt.Errorf("migration %s has no down file", m)
	}

	middleware.Logger.Info("Rolling back migration", "migration", m.String())
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownSQL).Error; err != nil {
			return fmt.Errorf("rollback of %s failed: %w", m, err)
		}
		if err := tx.Delete(&MigrationLog{}, "version = ?", m.Version).Error; err != nil {
			return fmt.Errorf("failed to remove migration log for %s: %w", m, err)
		}
		return nil
	})
}

func appliedVersions(db *gorm.DB) (map[int]bool, error) {
	var logs []MigrationLog
	if err := db.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(logs))
	for _, log := range logs {
		applied[log.Version] = true
	}
	return applied, nil
}
