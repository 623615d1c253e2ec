package timecapsules

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/google/uuid"
)

const capsuleColumns = `id, user_id, diary_id, open_date, is_opened,
	notification_scheduled, notification_id, pending_schedule, created_at`

// SQLRepository implements Repository over dbx.DBTX for both dialects.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	now     func() time.Time
}

// NewSQLRepository binds a repository to db. A nil now defaults to time.Now.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect, now func() time.Time) *SQLRepository {
	if now == nil {
		now = time.Now
	}
	return &SQLRepository{db: db, dialect: dialect, now: now}
}

func (r *SQLRepository) Create(ctx context.Context, userID, diaryID string, openDate time.Time) (*models.TimeCapsule, error) {
	tc := &models.TimeCapsule{
		ID:              uuid.NewString(),
		UserID:          userID,
		DiaryID:         diaryID,
		OpenDate:        dbx.Stamp(openDate),
		PendingSchedule: true,
		CreatedAt:       dbx.Stamp(r.now()),
	}

	query := r.dialect.Rebind(`INSERT INTO timecapsules (` + capsuleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		tc.ID, tc.UserID, tc.DiaryID, tc.OpenDate, tc.IsOpened,
		tc.NotificationScheduled, tc.NotificationID, tc.PendingSchedule, tc.CreatedAt)
	if err != nil {
		return nil, dbx.Wrap("create time capsule", err)
	}
	return tc, nil
}

func (r *SQLRepository) Open(ctx context.Context, userID, id string) error {
	return r.exec(ctx, "open time capsule",
		`UPDATE timecapsules SET is_opened = ? WHERE user_id = ? AND id = ?`,
		true, userID, id)
}

func (r *SQLRepository) ListOpenable(ctx context.Context, userID string, now time.Time) ([]*models.TimeCapsule, error) {
	return r.list(ctx, "list openable time capsules",
		`WHERE user_id = ? AND is_opened = ? AND open_date <= ? ORDER BY open_date ASC, id`,
		userID, false, dbx.Stamp(now))
}

func (r *SQLRepository) ListAll(ctx context.Context, userID string) ([]*models.TimeCapsule, error) {
	return r.list(ctx, "list time capsules",
		`WHERE user_id = ? ORDER BY open_date DESC, id`,
		userID)
}

func (r *SQLRepository) ListUnopened(ctx context.Context) ([]*models.TimeCapsule, error) {
	return r.list(ctx, "list unopened time capsules",
		`WHERE is_opened = ? ORDER BY open_date ASC, id`,
		false)
}

func (r *SQLRepository) GetByID(ctx context.Context, userID, id string) (*models.TimeCapsule, error) {
	return r.get(ctx, "get time capsule", `user_id = ? AND id = ?`, userID, id)
}

func (r *SQLRepository) GetByDiaryID(ctx context.Context, userID, diaryID string) (*models.TimeCapsule, error) {
	return r.get(ctx, "get time capsule by diary", `user_id = ? AND diary_id = ?`, userID, diaryID)
}

func (r *SQLRepository) MarkScheduled(ctx context.Context, userID, id, notificationID string) error {
	return r.exec(ctx, "mark time capsule scheduled",
		`UPDATE timecapsules
		 SET notification_scheduled = ?, notification_id = ?, pending_schedule = ?
		 WHERE user_id = ? AND id = ?`,
		true, notificationID, false, userID, id)
}

func (r *SQLRepository) ClearSchedule(ctx context.Context, userID, id string) error {
	return r.exec(ctx, "clear time capsule schedule",
		`UPDATE timecapsules
		 SET notification_scheduled = ?, notification_id = ?, pending_schedule = ?
		 WHERE user_id = ? AND id = ?`,
		false, "", false, userID, id)
}

func (r *SQLRepository) ClearPendingSchedule(ctx context.Context, userID, id string) error {
	return r.exec(ctx, "clear time capsule intent",
		`UPDATE timecapsules SET pending_schedule = ? WHERE user_id = ? AND id = ?`,
		false, userID, id)
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	return r.exec(ctx, "delete time capsule",
		`DELETE FROM timecapsules WHERE user_id = ? AND id = ?`,
		userID, id)
}

// exec runs a single-row statement; no matching row is common.ErrorNotFound.
func (r *SQLRepository) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return dbx.Wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Wrap(op, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) get(ctx context.Context, op, where string, args ...any) (*models.TimeCapsule, error) {
	query := r.dialect.Rebind(`SELECT ` + capsuleColumns + ` FROM timecapsules WHERE ` + where)

	tc, err := scanCapsule(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbx.Wrap(op, err)
	}
	return tc, nil
}

func (r *SQLRepository) list(ctx context.Context, op, tail string, args ...any) ([]*models.TimeCapsule, error) {
	query := r.dialect.Rebind(`SELECT ` + capsuleColumns + ` FROM timecapsules ` + tail)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Wrap(op, err)
	}
	defer rows.Close()

	result := make([]*models.TimeCapsule, 0)
	for rows.Next() {
		tc, err := scanCapsule(rows)
		if err != nil {
			return nil, dbx.Wrap(op, err)
		}
		result = append(result, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Wrap(op, err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCapsule(s scanner) (*models.TimeCapsule, error) {
	var (
		tc                models.TimeCapsule
		openDate, created dbx.Time
	)
	err := s.Scan(&tc.ID, &tc.UserID, &tc.DiaryID, &openDate, &tc.IsOpened,
		&tc.NotificationScheduled, &tc.NotificationID, &tc.PendingSchedule, &created)
	if err != nil {
		return nil, err
	}
	tc.OpenDate = openDate.Time
	tc.CreatedAt = created.Time
	return &tc, nil
}
