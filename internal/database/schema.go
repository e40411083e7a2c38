package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hustlehub/internal/config"
	"hustlehub/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus describes what ApplySchema would do and which migrations are pending.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

func isProdLikeEnv(env string) bool {
	e := strings.ToLower(strings.TrimSpace(env))
	return e == "production" || e == "prod" || e == "staging" || e == "stage"
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeHybrid
	}
	return mode
}

// schemaPolicy decides between the embedded SQL migrations and GORM AutoMigrate.
// The SQL scripts target PostgreSQL; SQLite stores always use AutoMigrate.
func schemaPolicy(cfg *config.Config) (runSQL bool, runAuto bool, err error) {
	mode := normalizedSchemaMode(cfg)
	if IsSQLite(cfg.DatabaseURL) {
		switch mode {
		case SchemaModeSQL, SchemaModeAuto, SchemaModeHybrid:
			return false, true, nil
		}
	}

	prodLike := isProdLikeEnv(cfg.Env)
	switch mode {
	case SchemaModeSQL:
		return true, false, nil
	case SchemaModeAuto:
		if prodLike {
			return false, false, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		return false, true, nil
	case SchemaModeHybrid:
		return true, !prodLike, nil
	default:
		return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

// ApplySchema brings the store schema up to date according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}

	if runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if runAuto {
		middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate",
			slog.String("mode", normalizedSchemaMode(cfg)), slog.String("env", cfg.Env))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return nil
}

// GetSchemaStatus reports the schema policy and pending SQL migrations.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunSQL:         runSQL,
		WillRunAutoMigrate: runAuto,
	}
	if !runSQL {
		return status, nil
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	appliedSet := make(map[int]bool, len(applied))
	for _, version := range applied {
		appliedSet[version] = true
	}
	for _, m := range GetMigrations() {
		if !appliedSet[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}

	return status, nil
}
