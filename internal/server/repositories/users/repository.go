// Package users declares the storage contract for accounts.
package users

import (
	"context"

	"github.com/ardenspace/space3-your-journey/internal/server/models"
)

type Repository interface {
	// Create stores a new account. A taken email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail and GetByID return common.ErrorNotFound on absence.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	SetDisabled(ctx context.Context, id string, disabled bool) error
}
