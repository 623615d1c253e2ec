// Package diaries declares the storage contract for diary entries.
package diaries

import (
	"context"

	"github.com/ardenspace/space3-your-journey/internal/server/models"
)

// Repository stores diary entries. Every operation is scoped to one user.
type Repository interface {
	// Create inserts d and returns its id. The server assigns the id when
	// d.ID is empty and always assigns both timestamps.
	Create(ctx context.Context, userID string, d *models.Diary) (string, error)

	// Update merges the non-nil patch fields and refreshes UpdatedAt.
	// A missing entry yields common.ErrorNotFound.
	Update(ctx context.Context, userID, id string, patch models.DiaryPatch) error

	// Delete removes the entry; a missing entry yields common.ErrorNotFound.
	Delete(ctx context.Context, userID, id string) error

	// GetByID returns nil with no error when the entry does not exist.
	GetByID(ctx context.Context, userID, id string) (*models.Diary, error)

	// List returns the regular feed: entries that are not time capsules,
	// newest first.
	List(ctx context.Context, userID string) ([]*models.Diary, error)
}
