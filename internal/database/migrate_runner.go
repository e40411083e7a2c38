package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"hustlehub/internal/middleware"

	"gorm.io/gorm"
)

// MigrationStore tracks which migrations have been applied.
type MigrationStore interface {
	GetAppliedMigrations(ctx context.Context) ([]int, error)
	ApplyMigration(ctx context.Context, m Migration) error
	RevertMigration(ctx context.Context, m Migration) error
}

type migrationStore struct {
	db *gorm.DB
}

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// NewMigrationStore creates a new MigrationStore instance.
func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &migrationStore{db: db}
}

func (s *migrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	var versions []int
	err := s.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	if err != nil {
		if isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return versions, nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

// ApplyMigration runs the up script and records it in one transaction.
func (s *migrationStore) ApplyMigration(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.String(), err)
		}
		if err := tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error; err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		return nil
	})
}

// RevertMigration runs the down script and removes its record in one transaction.
func (s *migrationStore) RevertMigration(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("failed to run rollback SQL for migration %s: %w", m.String(), err)
		}
		if err := tx.Where("version = ?", m.Version).Delete(&MigrationLog{}).Error; err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", m.Version, err)
		}
		return nil
	})
}

const ensureMigrationLogTableSQL = `CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// RunMigrations ensures the migration log table exists and applies all pending migrations.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(ensureMigrationLogTableSQL).Error; err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return err
	}

	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	for _, m := range migrations {
		if appliedSet[m.Version] {
			continue
		}
		middleware.Logger.InfoContext(ctx, "Applying migration", slog.Int("version", m.Version), slog.String("name", m.Name))
		if err := store.ApplyMigration(ctx, m); err != nil {
			return err
		}
	}

	return nil
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []int
	for _, version := range applied {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf("migration_logs contains unknown versions not present in code: %s", strings.Join(parts, ", "))
}

// RollbackMigration reverts a specific applied migration by version number.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, v := range applied {
		if v == version {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	middleware.Logger.InfoContext(ctx, "Rolling back migration", slog.Int("version", version), slog.String("name", m.Name))
	return store.RevertMigration(ctx, *m)
}
