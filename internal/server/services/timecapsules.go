package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
	"github.com/ardenspace/space3-your-journey/internal/server/scheduler"
)

// Notifier is the part of the notification scheduler the lifecycle drives.
type Notifier interface {
	// ScheduleOpenNotification returns "" when notifications are not
	// permitted.
	ScheduleOpenNotification(ctx context.Context, capsuleID string, openDate time.Time, diaryTitle string) (string, error)
	Cancel(ctx context.Context, notificationID string) error
	ListScheduled(ctx context.Context) ([]facility.Request, error)
}

// TimeCapsuleService runs the time capsule lifecycle across the store and
// the notification scheduler.
type TimeCapsuleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	now         func() time.Time
	log         logging.Logger
}

func NewTimeCapsuleService(db *sql.DB, m repomanager.RepositoryManager, n Notifier, log logging.Logger) *TimeCapsuleService {
	if log == nil {
		log = logging.Nop()
	}
	return &TimeCapsuleService{
		db:          db,
		repomanager: m,
		notifier:    n,
		now:         time.Now,
		log:         log.With("module", "lifecycle"),
	}
}

// Create turns a diary entry into a time capsule opening at openDate and
// schedules its open notification.
//
// The capsule is written with the schedule intent set. The intent is
// cleared once the scheduling outcome is recorded; if that never happens
// ReconcileOnLaunch finishes the job.
func (s *TimeCapsuleService) Create(ctx context.Context, userID, diaryID string, openDate time.Time, title string) (*models.TimeCapsule, error) {
	if openDate.IsZero() {
		return nil, common.ErrInvalidOpenDate
	}

	diary, err := s.repomanager.Diaries(s.db).GetByID(ctx, userID, diaryID)
	if err != nil {
		return nil, fmt.Errorf("error getting diary: %w", err)
	}
	if diary == nil {
		return nil, fmt.Errorf("diary %s: %w", diaryID, common.ErrorNotFound)
	}
	if diary.IsTimeCapsule {
		return nil, common.ErrCapsuleExists
	}

	existing, err := s.repomanager.TimeCapsules(s.db).GetByDiaryID(ctx, userID, diaryID)
	if err != nil {
		return nil, fmt.Errorf("error getting time capsule: %w", err)
	}
	if existing != nil {
		return nil, common.ErrCapsuleExists
	}

	if title == "" {
		title = diary.Title
	}

	var tc *models.TimeCapsule
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		tc, err = s.repomanager.TimeCapsules(tx).Create(ctx, userID, diaryID, openDate)
		if err != nil {
			return err
		}

		linked, id := true, tc.ID
		return s.repomanager.Diaries(tx).Update(ctx, userID, diaryID, models.DiaryPatch{
			IsTimeCapsule: &linked,
			TimeCapsuleID: &id,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error creating time capsule: %w", err)
	}
	capsulesCreatedTotal.Inc()

	notificationID, err := s.notifier.ScheduleOpenNotification(ctx, tc.ID, tc.OpenDate, title)
	if err != nil {
		return nil, fmt.Errorf("error scheduling notification for %s: %w", tc.ID, err)
	}

	if err := s.recordSchedule(ctx, tc, notificationID); err != nil {
		return nil, err
	}
	return tc, nil
}

// recordSchedule stores the scheduling outcome on tc and clears the intent.
func (s *TimeCapsuleService) recordSchedule(ctx context.Context, tc *models.TimeCapsule, notificationID string) error {
	repo := s.repomanager.TimeCapsules(s.db)

	switch {
	case notificationID == "" && !tc.NotificationScheduled:
		if err := repo.ClearPendingSchedule(ctx, tc.UserID, tc.ID); err != nil {
			return fmt.Errorf("error clearing intent of %s: %w", tc.ID, err)
		}
	case notificationID == "":
		if err := repo.ClearSchedule(ctx, tc.UserID, tc.ID); err != nil {
			return fmt.Errorf("error clearing schedule of %s: %w", tc.ID, err)
		}
		tc.NotificationScheduled, tc.NotificationID = false, ""
	default:
		if err := repo.MarkScheduled(ctx, tc.UserID, tc.ID, notificationID); err != nil {
			return fmt.Errorf("error marking %s scheduled: %w", tc.ID, err)
		}
		tc.NotificationScheduled, tc.NotificationID = true, notificationID
	}

	tc.PendingSchedule = false
	return nil
}

// Open opens a capsule whose open date has passed. Opening an opened
// capsule is a no-op.
func (s *TimeCapsuleService) Open(ctx context.Context, userID, id string) (*models.TimeCapsule, error) {
	tc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if tc.IsOpened {
		return tc, nil
	}
	if s.now().Before(tc.OpenDate) {
		return nil, common.ErrCapsuleLocked
	}

	if err := s.repomanager.TimeCapsules(s.db).Open(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("error opening time capsule: %w", err)
	}
	tc.IsOpened = true
	capsulesOpenedTotal.Inc()

	s.log.Info(ctx, "time capsule opened", "user_id", userID, "capsule_id", id)
	return tc, nil
}

// CancelNotification cancels the open notification of one capsule.
func (s *TimeCapsuleService) CancelNotification(ctx context.Context, userID, id string) error {
	tc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if tc.NotificationID != "" {
		if err := s.notifier.Cancel(ctx, tc.NotificationID); err != nil {
			return err
		}
	}

	if err := s.repomanager.TimeCapsules(s.db).ClearSchedule(ctx, userID, id); err != nil {
		return fmt.Errorf("error clearing schedule: %w", err)
	}
	return nil
}

// DeleteDiary deletes a diary entry together with its time capsule,
// cancelling the capsule's notification first.
func (s *TimeCapsuleService) DeleteDiary(ctx context.Context, userID, diaryID string) error {
	diary, err := s.repomanager.Diaries(s.db).GetByID(ctx, userID, diaryID)
	if err != nil {
		return fmt.Errorf("error getting diary: %w", err)
	}
	if diary == nil {
		return fmt.Errorf("diary %s: %w", diaryID, common.ErrorNotFound)
	}

	tc, err := s.repomanager.TimeCapsules(s.db).GetByDiaryID(ctx, userID, diaryID)
	if err != nil {
		return fmt.Errorf("error getting time capsule: %w", err)
	}

	if tc != nil && tc.NotificationID != "" {
		if err := s.notifier.Cancel(ctx, tc.NotificationID); err != nil {
			return err
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if tc != nil {
			if err := s.repomanager.TimeCapsules(tx).Delete(ctx, userID, tc.ID); err != nil {
				return err
			}
		}
		return s.repomanager.Diaries(tx).Delete(ctx, userID, diaryID)
	})
	if err != nil {
		return fmt.Errorf("error deleting diary: %w", err)
	}
	return nil
}

// Get returns a capsule or common.ErrorNotFound.
func (s *TimeCapsuleService) Get(ctx context.Context, userID, id string) (*models.TimeCapsule, error) {
	tc, err := s.repomanager.TimeCapsules(s.db).GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error getting time capsule: %w", err)
	}
	if tc == nil {
		return nil, fmt.Errorf("time capsule %s: %w", id, common.ErrorNotFound)
	}
	return tc, nil
}

// List returns every capsule of the user, latest open date first.
func (s *TimeCapsuleService) List(ctx context.Context, userID string) ([]*models.TimeCapsule, error) {
	list, err := s.repomanager.TimeCapsules(s.db).ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing time capsules: %w", err)
	}
	return list, nil
}

// ListOpenable returns the capsules that can be opened now, earliest first.
func (s *TimeCapsuleService) ListOpenable(ctx context.Context, userID string) ([]*models.TimeCapsule, error) {
	list, err := s.repomanager.TimeCapsules(s.db).ListOpenable(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("error listing openable time capsules: %w", err)
	}
	return list, nil
}

// ReconcileReport counts the repairs made by ReconcileOnLaunch.
type ReconcileReport struct {
	Rescheduled      int
	Cleared          int
	Repaired         int
	OrphansCancelled int
}

// ReconcileOnLaunch brings the stored notification flags of unopened
// capsules back in line with what the facility actually holds. It must
// run before requests are served.
//
//   - a capsule with a set intent or a stale flag adopts a live
//     notification carrying its id, if there is one
//   - otherwise it is rescheduled when its open date is ahead, or its
//     flag is cleared when the date has passed
//   - time capsule notifications no unopened capsule claims are cancelled
//
// Failures on single capsules are logged and joined into the returned
// error; the remaining capsules are still processed.
func (s *TimeCapsuleService) ReconcileOnLaunch(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	scheduled, err := s.notifier.ListScheduled(ctx)
	if err != nil {
		return report, fmt.Errorf("error listing notifications: %w", err)
	}

	live := make(map[string]bool)
	byCapsule := make(map[string]string)
	for _, req := range scheduled {
		if !scheduler.IsTimeCapsule(req) {
			continue
		}
		live[req.ID] = true
		if capsuleID := req.Content.Data[scheduler.DataCapsuleID]; capsuleID != "" {
			byCapsule[capsuleID] = req.ID
		}
	}

	capsules, err := s.repomanager.TimeCapsules(s.db).ListUnopened(ctx)
	if err != nil {
		return report, fmt.Errorf("error listing unopened time capsules: %w", err)
	}

	var errs []error
	claimed := make(map[string]bool)
	now := s.now()

	for _, tc := range capsules {
		if tc.NotificationScheduled && !tc.PendingSchedule && live[tc.NotificationID] {
			claimed[tc.NotificationID] = true
			continue
		}

		action, notificationID, err := s.reconcileCapsule(ctx, tc, byCapsule[tc.ID], now)
		if notificationID != "" {
			claimed[notificationID] = true
		}
		if err != nil {
			s.log.Error(ctx, "reconcile failed", "capsule_id", tc.ID, "error", err)
			errs = append(errs, err)
			continue
		}

		switch action {
		case "":
			continue
		case reconcileRepaired:
			report.Repaired++
		case reconcileRescheduled:
			report.Rescheduled++
		case reconcileCleared:
			report.Cleared++
		}
		reconcileActionsTotal.WithLabelValues(action).Inc()
		s.log.Info(ctx, "time capsule reconciled", "capsule_id", tc.ID, "action", action)
	}

	for id := range live {
		if claimed[id] {
			continue
		}
		if err := s.notifier.Cancel(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		report.OrphansCancelled++
		reconcileActionsTotal.WithLabelValues(reconcileOrphan).Inc()
		s.log.Info(ctx, "orphan notification cancelled", "notification_id", id)
	}

	return report, errors.Join(errs...)
}

const (
	reconcileRepaired    = "repaired"
	reconcileRescheduled = "rescheduled"
	reconcileCleared     = "cleared"
	reconcileOrphan      = "orphan_cancelled"
)

// reconcileCapsule repairs one capsule whose flags do not match a live
// notification. liveID is the live notification carrying the capsule's
// id, if any. It returns the action taken and the notification the
// capsule now owns.
func (s *TimeCapsuleService) reconcileCapsule(ctx context.Context, tc *models.TimeCapsule, liveID string, now time.Time) (string, string, error) {
	if liveID != "" {
		if err := s.recordSchedule(ctx, tc, liveID); err != nil {
			return "", liveID, err
		}
		return reconcileRepaired, liveID, nil
	}

	if !tc.NotificationScheduled && !tc.PendingSchedule {
		return "", "", nil
	}

	if !tc.OpenDate.After(now) {
		if err := s.recordSchedule(ctx, tc, ""); err != nil {
			return "", "", err
		}
		return reconcileCleared, "", nil
	}

	title := ""
	diary, err := s.repomanager.Diaries(s.db).GetByID(ctx, tc.UserID, tc.DiaryID)
	if err != nil {
		return "", "", fmt.Errorf("error getting diary of %s: %w", tc.ID, err)
	}
	if diary != nil {
		title = diary.Title
	}

	notificationID, err := s.notifier.ScheduleOpenNotification(ctx, tc.ID, tc.OpenDate, title)
	if err != nil {
		return "", "", fmt.Errorf("error rescheduling %s: %w", tc.ID, err)
	}
	if err := s.recordSchedule(ctx, tc, notificationID); err != nil {
		return "", notificationID, err
	}
	if notificationID == "" {
		return reconcileCleared, "", nil
	}
	return reconcileRescheduled, notificationID, nil
}
