// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"hustlehub/internal/database"
	"hustlehub/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// conn returns the handle for one repository call: the request's transaction when there is one.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	return database.Conn(ctx, db)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// lookupErr maps a single-row lookup error to NOT_FOUND or INTERNAL_ERROR.
func lookupErr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
