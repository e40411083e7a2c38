package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"hustlehub/internal/config"
	"hustlehub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DatabaseURL: "sqlite://file::memory:", Env: "test"}
	db, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestDialector(t *testing.T) {
	tests := []struct {
		url     string
		name    string
		wantErr bool
	}{
		{"sqlite://file::memory:", "sqlite", false},
		{"sqlite://./data/app.db", "sqlite", false},
		{"postgres://u:p@localhost:5432/hustle?sslmode=disable", "postgres", false},
		{"postgresql://u:p@db/hustle", "postgres", false},
		{"host=localhost user=u dbname=hustle", "postgres", false},
		{"sqlite://", "", true},
		{"", "", true},
		{"mysql://root@localhost/db", "", true},
	}
	for _, tt := range tests {
		d, err := Dialector(tt.url)
		if tt.wantErr {
			assert.Error(t, err, tt.url)
			continue
		}
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.name, d.Name(), tt.url)
	}
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{"sqlite always auto", config.Config{DatabaseURL: "sqlite://x.db", DBSchemaMode: "sql"}, false, true, false},
		{"postgres hybrid dev", config.Config{DatabaseURL: "postgres://db", Env: "development"}, true, true, false},
		{"postgres hybrid prod", config.Config{DatabaseURL: "postgres://db", Env: "production", DBSchemaMode: "hybrid"}, true, false, false},
		{"postgres sql", config.Config{DatabaseURL: "postgres://db", DBSchemaMode: "sql"}, true, false, false},
		{"postgres auto dev", config.Config{DatabaseURL: "postgres://db", DBSchemaMode: "auto", Env: "test"}, false, true, false},
		{"postgres auto prod", config.Config{DatabaseURL: "postgres://db", DBSchemaMode: "auto", Env: "staging"}, false, false, true},
		{"unknown mode", config.Config{DatabaseURL: "postgres://db", DBSchemaMode: "magic"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestConnectSQLiteCreatesSchema(t *testing.T) {
	db := newSQLiteDB(t)

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Application{}, "idx_application_opportunity_applicant"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, Ping(context.Background(), db))
}

func TestUniqueViolationIsTranslated(t *testing.T) {
	db := newSQLiteDB(t)

	u := models.User{Email: "a@example.com", Username: "alpha", HashedPassword: "x", Mode: models.ModeHustler, IsActive: true}
	require.NoError(t, db.Create(&u).Error)

	dup := models.User{Email: "a@example.com", Username: "beta", HashedPassword: "x", Mode: models.ModeHustler, IsActive: true}
	err := db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestTransactor(t *testing.T) {
	db := newSQLiteDB(t)
	tx := NewTransactor(db)
	ctx := context.Background()

	count := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.Post{}).Count(&n).Error)
		return n
	}

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return Conn(ctx, db).Create(&models.Post{AuthorID: 1, Content: "kept"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count())

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, Conn(ctx, db).Create(&models.Post{AuthorID: 1, Content: "discarded"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), count(), "error rolls back")

	assert.Panics(t, func() {
		_ = tx.WithinTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, Conn(ctx, db).Create(&models.Post{AuthorID: 1, Content: "panicked"}).Error)
			panic("kaboom")
		})
	})
	assert.Equal(t, int64(1), count(), "panic rolls back")

	err = tx.WithinTransaction(ctx, func(outer context.Context) error {
		return tx.WithinTransaction(outer, func(inner context.Context) error {
			return Conn(inner, db).Create(&models.Post{AuthorID: 1, Content: "nested"}).Error
		})
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count())
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000002_second.up.sql":   {Data: []byte("SELECT 2")},
		"migrations/000002_second.down.sql": {Data: []byte("SELECT -2")},
		"migrations/000001_first.up.sql":    {Data: []byte("SELECT 1")},
		"migrations/000001_first.down.sql":  {Data: []byte("SELECT -1")},
	}
	ms, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].Version)
	assert.Equal(t, "first", ms[0].Name)
	assert.Equal(t, "000002_second", ms[1].String())

	_, err = LoadMigrations(fstest.MapFS{"migrations/000001_only.up.sql": {Data: []byte("SELECT 1")}})
	assert.Error(t, err, "missing down script")

	_, err = LoadMigrations(fstest.MapFS{
		"migrations/abc_bad.up.sql":   {Data: []byte("SELECT 1")},
		"migrations/abc_bad.down.sql": {Data: []byte("SELECT 1")},
	})
	assert.Error(t, err, "bad version")
}

func TestEmbeddedMigrations(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].Version)
	assert.Contains(t, ms[0].UpScript, "idx_application_opportunity_applicant")
	assert.NotNil(t, GetMigrationByVersion(1))
	assert.Nil(t, GetMigrationByVersion(999))
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}
	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))

	err := validateAppliedVersions([]int{1, 7, 5}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000005, 000007")
}

func TestRollbackMigration(t *testing.T) {
	db, mock := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .*version.* FROM "migration_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS posts")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "migration_logs" WHERE version = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, RollbackMigration(ctx, db, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackMigration_FailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .*version.* FROM "migration_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS posts")).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := RollbackMigration(ctx, db, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackMigration_NotApplied(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .*version.* FROM "migration_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	err := RollbackMigration(context.Background(), db, 1)
	assert.ErrorContains(t, err, "has not been applied")
	assert.Error(t, RollbackMigration(context.Background(), db, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
