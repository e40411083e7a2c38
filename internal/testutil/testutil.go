// Package testutil provides shared fixtures for package tests: an in-memory store, config and seeded users.
package testutil

import (
	"context"
	"testing"
	"time"

	"hustlehub/internal/auth"
	"hustlehub/internal/config"
	"hustlehub/internal/database"
	"hustlehub/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret-key-at-least-32-bytes-long"

// NewTestConfig returns a valid configuration backed by in-memory SQLite with rate limiting off.
func NewTestConfig() *config.Config {
	return &config.Config{
		AppName:                  "HustleHub",
		Version:                  "test",
		Env:                      "test",
		Port:                     "0",
		DatabaseURL:              "sqlite://file::memory:",
		SecretKey:                TestSecret,
		TokenAlgorithm:           "HS256",
		AccessTokenExpireMinutes: 30,
		AllowedOrigins:           "http://localhost:3000",
		DBSchemaMode:             database.SchemaModeAuto,
		TracingExporter:          "stdout",
		TracingSamplerRatio:      1,
	}
}

// NewTestDB opens a fresh in-memory store with the full schema. Each call is isolated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), NewTestConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewTokens returns a token service using TestSecret.
func NewTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(TestSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)
	return tokens
}

// NewHasher returns a cheap bcrypt hasher.
func NewHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

// CreateUser inserts an active hustler with password "password123".
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	digest, err := NewHasher().Hash("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: digest,
		FullName:       username,
		Mode:           models.ModeHustler,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateOpportunity inserts an open opportunity owned by creatorID.
func CreateOpportunity(t *testing.T, db *gorm.DB, creatorID uint, title string) *models.Opportunity {
	t.Helper()
	opp := &models.Opportunity{
		Title:       title,
		Description: "A sufficiently long description for tests.",
		Status:      models.OpportunityOpen,
		CreatorID:   creatorID,
	}
	require.NoError(t, db.Create(opp).Error)
	return opp
}

// BearerHeader returns an Authorization header value for userID.
func BearerHeader(t *testing.T, tokens auth.TokenIssuer, userID uint) string {
	t.Helper()
	token, err := tokens.Issue(userID)
	require.NoError(t, err)
	return "Bearer " + token
}
