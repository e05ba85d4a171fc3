// Package users declares the repository contract for the identity records
// consumed by the auth service.
package users

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Repository defines persistence operations for users. Users are created on
// registration and never deleted by this subsystem.
type Repository interface {
	// Create inserts a new user and returns it with the store-assigned ID and
	// creation timestamp set. A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by exact email match.
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by its numeric id.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
