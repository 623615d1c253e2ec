package diaries

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/google/uuid"
)

const diaryColumns = `id, user_id, title, content, background_color, notebook_design,
	font_family, font_size, font_color, is_time_capsule, time_capsule_id,
	created_at, updated_at`

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

func (r *SQLRepository) Create(ctx context.Context, userID string, d *models.Diary) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.UserID = userID
	d.CreatedAt = dbx.Stamp(r.now())
	d.UpdatedAt = d.CreatedAt

	query := r.dialect.Rebind(`INSERT INTO diaries (` + diaryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.UserID, d.Title, d.Content, d.BackgroundColor, d.NotebookDesign,
		d.FontFamily, d.FontSize, d.FontColor, d.IsTimeCapsule, d.TimeCapsuleID,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return "", dbx.Wrap("create diary", err)
	}
	return d.ID, nil
}

func (r *SQLRepository) Update(ctx context.Context, userID, id string, patch models.DiaryPatch) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.BackgroundColor != nil {
		set("background_color", *patch.BackgroundColor)
	}
	if patch.NotebookDesign != nil {
		set("notebook_design", *patch.NotebookDesign)
	}
	if patch.FontFamily != nil {
		set("font_family", *patch.FontFamily)
	}
	if patch.FontSize != nil {
		set("font_size", *patch.FontSize)
	}
	if patch.FontColor != nil {
		set("font_color", *patch.FontColor)
	}
	if patch.IsTimeCapsule != nil {
		set("is_time_capsule", *patch.IsTimeCapsule)
	}
	if patch.TimeCapsuleID != nil {
		set("time_capsule_id", *patch.TimeCapsuleID)
	}
	set("updated_at", dbx.Stamp(r.now()))
	args = append(args, userID, id)

	query := r.dialect.Rebind(`UPDATE diaries SET ` + strings.Join(sets, ", ") +
		` WHERE user_id = ? AND id = ?`)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbx.Wrap("update diary", err)
	}
	return requireRow(res, "update diary")
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	query := r.dialect.Rebind(`DELETE FROM diaries WHERE user_id = ? AND id = ?`)

	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return dbx.Wrap("delete diary", err)
	}
	return requireRow(res, "delete diary")
}

func (r *SQLRepository) GetByID(ctx context.Context, userID, id string) (*models.Diary, error) {
	query := r.dialect.Rebind(`SELECT ` + diaryColumns + ` FROM diaries
		WHERE user_id = ? AND id = ?`)

	d, err := scanDiary(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbx.Wrap("get diary", err)
	}
	return d, nil
}

func (r *SQLRepository) List(ctx context.Context, userID string) ([]*models.Diary, error) {
	query := r.dialect.Rebind(`SELECT ` + diaryColumns + ` FROM diaries
		WHERE user_id = ? AND is_time_capsule = ?
		ORDER BY created_at DESC, id`)

	rows, err := r.db.QueryContext(ctx, query, userID, false)
	if err != nil {
		return nil, dbx.Wrap("list diaries", err)
	}
	defer rows.Close()

	result := make([]*models.Diary, 0)
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return nil, dbx.Wrap("scan diary", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Wrap("list diaries", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDiary(s scanner) (*models.Diary, error) {
	var (
		d                models.Diary
		created, updated dbx.Time
	)
	err := s.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.BackgroundColor,
		&d.NotebookDesign, &d.FontFamily, &d.FontSize, &d.FontColor,
		&d.IsTimeCapsule, &d.TimeCapsuleID, &created, &updated)
	if err != nil {
		return nil, err
	}
	d.CreatedAt = created.Time
	d.UpdatedAt = updated.Time
	return &d, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Wrap(op, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
