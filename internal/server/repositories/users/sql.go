package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/google/uuid"
)

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

// Create lower-cases the email before storing it.
func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = dbx.Stamp(r.now())

	query := r.dialect.Rebind(`INSERT INTO users (id, email, password_hash, disabled, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.Disabled, user.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email %q: %w", user.Email, common.ErrorAlreadyExists)
		}
		return nil, dbx.Wrap("create user", err)
	}
	return user, nil
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `id = ?`, id)
}

func (r *SQLRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	query := r.dialect.Rebind(`UPDATE users SET disabled = ? WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, disabled, id)
	if err != nil {
		return dbx.Wrap("disable user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Wrap("disable user", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	query := r.dialect.Rebind(`SELECT id, email, password_hash, disabled, created_at
		FROM users WHERE ` + where)

	var (
		user    models.User
		created dbx.Time
	)
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Disabled, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Wrap("get user", err)
	}
	user.CreatedAt = created.Time
	return &user, nil
}
