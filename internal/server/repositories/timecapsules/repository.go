// Package timecapsules declares the storage contract for time capsules.
package timecapsules

import (
	"context"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/server/models"
)

// Repository stores time capsules. The store never checks open dates;
// that policy belongs to the lifecycle service.
type Repository interface {
	// Create writes an unopened, unscheduled capsule with the schedule
	// intent already set.
	Create(ctx context.Context, userID, diaryID string, openDate time.Time) (*models.TimeCapsule, error)

	// Open marks the capsule opened unconditionally.
	Open(ctx context.Context, userID, id string) error

	// ListOpenable returns unopened capsules due at now, earliest first.
	ListOpenable(ctx context.Context, userID string, now time.Time) ([]*models.TimeCapsule, error)

	// ListAll returns every capsule of the user, latest open date first.
	ListAll(ctx context.Context, userID string) ([]*models.TimeCapsule, error)

	// GetByID and GetByDiaryID return nil with no error on absence.
	GetByID(ctx context.Context, userID, id string) (*models.TimeCapsule, error)
	GetByDiaryID(ctx context.Context, userID, diaryID string) (*models.TimeCapsule, error)

	// MarkScheduled records a live notification and clears the intent.
	MarkScheduled(ctx context.Context, userID, id, notificationID string) error

	// ClearSchedule drops the notification flag, its id and the intent.
	ClearSchedule(ctx context.Context, userID, id string) error

	// ClearPendingSchedule drops only the intent.
	ClearPendingSchedule(ctx context.Context, userID, id string) error

	Delete(ctx context.Context, userID, id string) error

	// ListUnopened returns unopened capsules of every user.
	ListUnopened(ctx context.Context) ([]*models.TimeCapsule, error)
}
