package refreshtokens

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

// SQLRepository implements Repository over dbx.DBTX (satisfied by *sql.DB
// or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	now     func() time.Time
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect, now func() time.Time) *SQLRepository {
	if now == nil {
		now = time.Now
	}
	return &SQLRepository{db: db, dialect: dialect, now: now}
}

func (r *SQLRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	created := dbx.Stamp(r.now())
	query := r.dialect.Rebind(`
		INSERT INTO refresh_tokens (id, user_id, token, expires, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, token, created.Add(validity), created); err != nil {
		return dbx.Wrap("create refresh token", err)
	}
	return nil
}

func (r *SQLRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := r.dialect.Rebind(`
		SELECT id, user_id, token, expires, created_at
		FROM refresh_tokens
		WHERE token = ?`)

	var (
		rt               models.RefreshToken
		expires, created dbx.Time
	)
	err := r.db.QueryRowContext(ctx, query, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &expires, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Wrap("find refresh token", err)
	}
	rt.Expires = expires.Time
	rt.CreatedAt = created.Time
	return &rt, nil
}

func (r *SQLRepository) Delete(ctx context.Context, token string) error {
	query := r.dialect.Rebind(`DELETE FROM refresh_tokens WHERE token = ?`)
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return dbx.Wrap("delete refresh token", err)
	}
	return nil
}
