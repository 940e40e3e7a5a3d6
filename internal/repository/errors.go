// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"strings"
	"time"

	"fizikblog/internal/models"
)

// storeTimeout bounds every store call. Exceeding it surfaces as
// StoreUnavailable; nothing in this layer blocks indefinitely.
const storeTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports
	// "UNIQUE constraint failed" in tests.
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// storeUnavailable wraps any unexpected driver error into the transient
// taxonomy kind. Constraint violations and not-found are handled before this.
func storeUnavailable(err error) *models.AppError {
	return models.NewStoreUnavailableError(err)
}
