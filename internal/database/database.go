// Package database opens the relational store, applies its schema and scopes transactions.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hustlehub/internal/config"
	"hustlehub/internal/middleware"
	"hustlehub/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CustomGormLogger integrates GORM with slog
type CustomGormLogger struct {
	logger *slog.Logger
	Config logger.Config
}

// NewGormLogger returns a GORM logger that writes warnings and slow queries through slog.
func NewGormLogger(l *slog.Logger) *CustomGormLogger {
	return &CustomGormLogger{
		logger: l,
		Config: logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	}
}

// LogMode sets the logging level and returns a new interface instance.
func (l *CustomGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newlogger := *l
	newlogger.Config.LogLevel = level
	return &newlogger
}

func (l *CustomGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed and slow statements. Unique violations are expected and logged at warn.
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Config.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && errors.Is(err, gorm.ErrDuplicatedKey) && l.Config.LogLevel >= logger.Warn:
		l.logger.WarnContext(ctx, "GORM duplicate key", append(attrs, slog.String("error", err.Error()))...)
	case err != nil && l.Config.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "GORM query error", append(attrs, slog.String("error", err.Error()))...)
	case elapsed > l.Config.SlowThreshold && l.Config.SlowThreshold != 0 && l.Config.LogLevel >= logger.Warn:
		l.logger.WarnContext(ctx, "GORM slow query", attrs...)
	case l.Config.LogLevel >= logger.Info:
		l.logger.InfoContext(ctx, "GORM query", attrs...)
	}
}

const sqlitePrefix = "sqlite://"

// IsSQLite reports whether url selects the embedded SQLite driver.
func IsSQLite(url string) bool {
	return strings.HasPrefix(url, sqlitePrefix)
}

// Dialector picks the GORM driver for DATABASE_URL.
// "sqlite://<path>" opens SQLite, anything else is handed to the postgres driver as a URL or key/value DSN.
func Dialector(url string) (gorm.Dialector, error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return nil, errors.New("database url is empty")
	case IsSQLite(url):
		path := strings.TrimPrefix(url, sqlitePrefix)
		if path == "" {
			return nil, errors.New("sqlite database path is empty")
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"), strings.Contains(url, "host="):
		return postgres.Open(url), nil
	default:
		return nil, fmt.Errorf("unsupported database url scheme in %q", redact(url))
	}
}

func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	return "..."
}

// GormConfig is shared by every connection so unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         NewGormLogger(middleware.Logger),
		TranslateError: true,
	}
}

// Open connects to the store and sizes the pool. It does not touch the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}
	if err := observability.RegisterQueryMetrics(db); err != nil {
		return nil, fmt.Errorf("register query metrics: %w", err)
	}

	middleware.Logger.Info("Database connected successfully", slog.String("dialect", db.Dialector.Name()))
	return db, nil
}

// Connect opens the store and brings its schema up to date.
func Connect(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := ApplySchema(ctx, db, cfg); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	if IsSQLite(cfg.DatabaseURL) {
		// SQLite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
		return nil
	}

	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMinutes) * time.Minute)
	}
	return nil
}

// Ping checks that a pooled connection can reach the store.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
